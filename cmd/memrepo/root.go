package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-memrepo/memrepo"
	"github.com/go-memrepo/memrepo/dlog"
	"github.com/go-memrepo/memrepo/resolve"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memrepo",
		Short: "Memrepo queries static in-memory record repositories.",
		Long: `Memrepo loads record collections from JSON or YAML files and answers
repository-style queries over them: lookups, filters, ordering, and pagination.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file mapping identifiers to data files")
	rootCmd.PersistentFlags().Bool("verbose", false, "log resolution and loading steps")

	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newManager assembles a Manager from the config file given on the
// command line. Every configured source is registered as a dynamic
// entity type, so any identifier from the config can be queried without
// code.
func newManager(cmd *cobra.Command) (*memrepo.Manager, error) {
	vip := memrepo.DefaultViper()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		vip.SetConfigFile(path)

		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	config, err := memrepo.NewConfigFromViper(vip)
	if err != nil {
		return nil, err
	}

	registry := resolve.NewRegistry()

	if config.DefaultEntity != "" {
		registry.Register(config.DefaultEntity, resolve.Entry{})
	}

	convention := resolve.Convention{
		Separator:       config.Naming.Separator,
		ContractSegment: config.Naming.ContractSegment,
		EntitySegment:   config.Naming.EntitySegment,
		InterfaceSuffix: config.Naming.InterfaceSuffix,
	}

	for identifier := range config.Sources {
		if strings.Contains(identifier, config.Naming.Separator) {
			name, _ := convention.EntityName(identifier)
			registry.Register(name, resolve.Entry{})
		}
	}

	var opts []memrepo.ManagerOption
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, memrepo.WithLogger(dlog.NewDebug(cmd.ErrOrStderr())))
	}

	return memrepo.NewFromConfig(config, registry, opts...), nil
}
