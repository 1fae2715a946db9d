package record

// Entity is a typed view over a Record returned from query methods.
// Entities are created per result and never shared: mutating one does not
// affect the store it came from.
type Entity interface {
	Get(name string) (any, bool)
	Set(name string, value any)
	Has(name string) bool
	Unset(name string)

	// ToArray projects the entity back into a plain record.
	ToArray() map[string]any

	// EntityName returns the logical type name the entity was created as.
	EntityName() string
}

var _ Entity = (*Attributes)(nil)

// Attributes is the default Entity implementation: a plain map-backed
// attribute container. Concrete entity types that want typed fields can
// embed it and hydrate their fields with Decode.
type Attributes struct {
	name   string
	fields map[string]any
}

// NewAttributes wraps a copy of rec as a dynamic entity of the given
// logical type name.
func NewAttributes(name string, rec Record) *Attributes {
	fields := map[string]any(rec.Copy())
	if fields == nil {
		fields = map[string]any{}
	}

	return &Attributes{name: name, fields: fields}
}

func (a *Attributes) Get(name string) (any, bool) {
	v, ok := a.fields[name]
	return v, ok
}

func (a *Attributes) Set(name string, value any) {
	a.fields[name] = value
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.fields[name]
	return ok
}

func (a *Attributes) Unset(name string) {
	delete(a.fields, name)
}

func (a *Attributes) ToArray() map[string]any {
	return Record(a.fields).Copy()
}

func (a *Attributes) EntityName() string {
	return a.name
}
