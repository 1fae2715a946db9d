// Package q builds rich criteria for Repository.FindByCriteria.
//
// Basic comparisons: Is, Not, Gt, Gte, Lt, Lte
// Set operations: In
// Pattern matching: Like with % wildcards
// Logical grouping: And, Or with nested groups
// Ordering: OrderBy with Ascending/Descending
// Pagination: Limit and Offset
//
// A Query is pure data plus a Matches evaluator; the repository reduces
// it to the same filter, sort, and paginate pipeline as FindBy.
package q

import (
	"slices"
	"strings"

	"github.com/go-memrepo/memrepo/record"
)

// Operator represents comparison operators.
type Operator string

const (
	Eq   Operator = "="
	Ne   Operator = "!="
	Gt   Operator = ">"
	Gte  Operator = ">="
	Lt   Operator = "<"
	Lte  Operator = "<="
	In   Operator = "IN"
	Like Operator = "LIKE"
)

type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Cond represents a single condition on one field.
type Cond struct {
	Field    string
	Operator Operator
	Value    any
}

// ConditionGroup combines conditions and nested groups with one logical
// operator. The zero value behaves as an empty AND group and matches
// every record.
type ConditionGroup struct {
	Operator   LogicalOperator
	Conditions []Cond
	Groups     []ConditionGroup
}

// Query is a criteria expression with optional ordering and pagination.
type Query struct {
	Conditions ConditionGroup

	orderings []Ordering
	limit     *int
	offset    *int
}

// Ordering is one sort key of a query.
type Ordering struct {
	Field      string
	Descending bool
}

// Where starts a new query with a condition on field.
func Where(field string) *WhereQuery {
	return &WhereQuery{query: &Query{}, field: field}
}

// All returns a query without conditions, matching every record. Useful
// to express plain ordering or pagination through FindByCriteria.
func All() Query {
	return Query{}
}

// And adds a further condition to the query's top-level group.
func (q Query) And(field string) *WhereQuery {
	return &WhereQuery{query: &q, field: field}
}

// Or attaches the given queries' conditions as OR alternatives: the
// resulting query matches if its own conditions match or any of the
// given ones do.
func (q Query) Or(cond ...Query) Query {
	group := ConditionGroup{Operator: LogicalOr}
	group.Groups = append(group.Groups, ConditionGroup{
		Operator:   LogicalAnd,
		Conditions: q.Conditions.Conditions,
		Groups:     q.Conditions.Groups,
	})

	for _, c := range cond {
		group.Groups = append(group.Groups, c.Conditions)
	}

	q.Conditions = ConditionGroup{Operator: LogicalAnd, Groups: []ConditionGroup{group}}

	return q
}

func (q *Query) addCondition(field string, op Operator, value any) {
	// clone before appending, so queries branched off a shared base
	// cannot clobber each other through the same backing array
	q.Conditions.Conditions = append(slices.Clone(q.Conditions.Conditions), Cond{
		Field:    field,
		Operator: op,
		Value:    value,
	})
}

type WhereQuery struct {
	query *Query
	field string
}

func (f *WhereQuery) Is(value any) Query {
	f.query.addCondition(f.field, Eq, value)
	return *f.query
}

func (f *WhereQuery) Not(value any) Query {
	f.query.addCondition(f.field, Ne, value)
	return *f.query
}

func (f *WhereQuery) Gt(value any) Query {
	f.query.addCondition(f.field, Gt, value)
	return *f.query
}

func (f *WhereQuery) Gte(value any) Query {
	f.query.addCondition(f.field, Gte, value)
	return *f.query
}

func (f *WhereQuery) Lt(value any) Query {
	f.query.addCondition(f.field, Lt, value)
	return *f.query
}

func (f *WhereQuery) Lte(value any) Query {
	f.query.addCondition(f.field, Lte, value)
	return *f.query
}

func (f *WhereQuery) In(values ...any) Query {
	f.query.addCondition(f.field, In, values)
	return *f.query
}

// Like matches string values against a pattern with % wildcards at the
// start, the end, or both.
func (f *WhereQuery) Like(pattern string) Query {
	f.query.addCondition(f.field, Like, pattern)
	return *f.query
}

func (q Query) OrderBy(field string) *OrderQuery {
	return &OrderQuery{query: &q, field: field}
}

type OrderQuery struct {
	query *Query
	field string
}

func (o *OrderQuery) Ascending() Query {
	o.query.orderings = append(slices.Clone(o.query.orderings), Ordering{Field: o.field, Descending: false})
	return *o.query
}

func (o *OrderQuery) Descending() Query {
	o.query.orderings = append(slices.Clone(o.query.orderings), Ordering{Field: o.field, Descending: true})
	return *o.query
}

func (q Query) Limit(limit int) Query {
	q.limit = &limit
	return q
}

func (q Query) Offset(offset int) Query {
	q.offset = &offset
	return q
}

// Orderings returns the sort keys in the order they were added.
func (q Query) Orderings() []Ordering {
	return q.orderings
}

// Pagination returns the limit and offset; nil means not set.
func (q Query) Pagination() (limit, offset *int) {
	return q.limit, q.offset
}

// Matches evaluates the query's conditions against a record. A record
// lacking a condition's field never matches that condition.
func (q Query) Matches(rec record.Record) bool {
	return matchGroup(q.Conditions, rec)
}

func matchGroup(group ConditionGroup, rec record.Record) bool {
	if len(group.Conditions) == 0 && len(group.Groups) == 0 {
		return true
	}

	if group.Operator == LogicalOr {
		for _, cond := range group.Conditions {
			if matchCond(cond, rec) {
				return true
			}
		}

		for _, sub := range group.Groups {
			if matchGroup(sub, rec) {
				return true
			}
		}

		return false
	}

	// AND, also the zero value
	for _, cond := range group.Conditions {
		if !matchCond(cond, rec) {
			return false
		}
	}

	for _, sub := range group.Groups {
		if !matchGroup(sub, rec) {
			return false
		}
	}

	return true
}

func matchCond(cond Cond, rec record.Record) bool {
	value, ok := rec[cond.Field]
	if !ok {
		return false
	}

	switch cond.Operator {
	case Eq:
		return record.Equal(value, cond.Value)
	case Ne:
		return !record.Equal(value, cond.Value)
	case Gt, Gte, Lt, Lte:
		cmp, ok := record.Compare(value, cond.Value)
		if !ok {
			return false
		}

		switch cond.Operator {
		case Gt:
			return cmp > 0
		case Gte:
			return cmp >= 0
		case Lt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case In:
		values, ok := cond.Value.([]any)
		if !ok {
			return false
		}

		for _, v := range values {
			if record.Equal(value, v) {
				return true
			}
		}

		return false
	case Like:
		str, ok := value.(string)
		if !ok {
			return false
		}

		pattern, ok := cond.Value.(string)
		if !ok {
			return false
		}

		return matchLike(str, pattern)
	default:
		return false
	}
}

func matchLike(value, pattern string) bool {
	prefix := strings.HasPrefix(pattern, "%")
	suffix := strings.HasSuffix(pattern, "%")
	needle := strings.Trim(pattern, "%")

	switch {
	case prefix && suffix:
		return strings.Contains(value, needle)
	case prefix:
		return strings.HasSuffix(value, needle)
	case suffix:
		return strings.HasPrefix(value, needle)
	default:
		return value == pattern
	}
}
