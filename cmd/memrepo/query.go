package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-memrepo/memrepo/record"
	"github.com/go-memrepo/memrepo/repository"
)

func newQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query identifier",
		Short: "List the entities of an identifier, optionally filtered, ordered, and paginated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			repo, err := manager.GetRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}

			opts, err := queryOptionsFromFlags(cmd)
			if err != nil {
				return err
			}

			entities, err := repo.FindBy(cmd.Context(), criteria, opts...)
			if err != nil {
				return err
			}

			return printEntities(cmd, entities)
		},
	}

	queryCmd.Flags().StringArray("where", nil, "filter, field=value or field=v1,v2 for alternatives; repeatable")
	queryCmd.Flags().StringArray("order", nil, "sort key, field or field:desc; repeatable")
	queryCmd.Flags().Int("limit", -1, "maximum number of results, unbounded if not set")
	queryCmd.Flags().Int("offset", 0, "number of results to skip")

	return queryCmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get identifier id",
		Short: "Print the entity stored under the given key",
		Args:  cobra.ExactArgs(2), //nolint:mnd // identifier and id
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			repo, err := manager.GetRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			entity, err := repo.Find(cmd.Context(), parseScalar(args[1]))
			if err != nil {
				return err
			}

			return printEntities(cmd, []record.Entity{entity})
		},
	}
}

func newCountCmd() *cobra.Command {
	countCmd := &cobra.Command{
		Use:   "count identifier",
		Short: "Count the records of an identifier, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			repo, err := manager.GetRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}

			count, err := repo.Count(cmd.Context(), criteria)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), count)

			return nil
		},
	}

	countCmd.Flags().StringArray("where", nil, "filter, field=value or field=v1,v2 for alternatives; repeatable")

	return countCmd
}

func criteriaFromFlags(cmd *cobra.Command) (repository.Criteria, error) {
	wheres, _ := cmd.Flags().GetStringArray("where")

	criteria := repository.Criteria{}

	for _, where := range wheres {
		field, value, ok := strings.Cut(where, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --where %q, expected field=value", where) //nolint:err113
		}

		values := strings.Split(value, ",")
		if len(values) == 1 {
			criteria[field] = parseScalar(values[0])

			continue
		}

		allowed := make([]any, len(values))
		for i, v := range values {
			allowed[i] = parseScalar(v)
		}

		criteria[field] = allowed
	}

	return criteria, nil
}

func queryOptionsFromFlags(cmd *cobra.Command) ([]repository.QueryOption, error) {
	var opts []repository.QueryOption

	orders, _ := cmd.Flags().GetStringArray("order")
	for _, order := range orders {
		field, direction, _ := strings.Cut(order, ":")

		switch strings.ToUpper(direction) {
		case "", "ASC":
			opts = append(opts, repository.OrderBy(field, repository.ASC))
		case "DESC":
			opts = append(opts, repository.OrderBy(field, repository.DESC))
		default:
			return nil, fmt.Errorf("invalid --order direction %q, use asc or desc", direction) //nolint:err113
		}
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit >= 0 {
		opts = append(opts, repository.Limit(limit))
	}

	if offset, _ := cmd.Flags().GetInt("offset"); offset != 0 {
		opts = append(opts, repository.Offset(offset))
	}

	return opts, nil
}

// parseScalar interprets a command line value the way the data decoders
// would: numbers and booleans are compared as such, everything else as a
// string.
func parseScalar(value string) any {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return value
}

func printEntities(cmd *cobra.Command, entities []record.Entity) error {
	out := make([]map[string]any, len(entities))
	for i, e := range entities {
		out[i] = e.ToArray()
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.New("could not encode entities")
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(buf))

	return nil
}
