package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"unifier/internal/catalog"
	"unifier/internal/logger"
	"unifier/internal/mapping"
	"unifier/internal/normalize"
	"unifier/internal/schema"
)

// RootCmd builds the command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "unifier",
		Short:        "Unify bank transaction exports into one canonical CSV",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, asJSON, source, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}

			logger.SetupLogger(level, asJSON, source)
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), logger.GetDefault()))

			return nil
		},
	}

	logger.AddFlags(root)
	root.PersistentFlags().String("providers", "", "YAML file with extra provider definitions")

	root.AddCommand(
		UnifyCmd(),
		ProvidersCmd(),
		SchemasCmd(),
	)

	return root
}

// buildPipeline returns the built-in catalog extended with the providers
// defined in the YAML file at path.
func buildPipeline(ctx context.Context, path string) (*normalize.Pipeline, error) {
	schemas := schema.Default()
	cat := catalog.Default()

	if path == "" {
		return normalize.New(cat, schemas), nil
	}

	log := logger.FromContext(ctx).With("providers", path)

	f, err := mapping.LoadFile(path)
	if err != nil {
		return nil, err
	}

	for _, w := range mapping.Validate(f, schemas).Warnings {
		log.Warn("Provider definition", "problem", w.String())
	}

	defs, err := mapping.Compile(f, schemas)
	if err != nil {
		return nil, err
	}

	cat, err = cat.Extend(defs...)
	if err != nil {
		return nil, fmt.Errorf("extend catalog with %s: %w", path, err)
	}

	log.Debug("Providers loaded", "count", len(defs), "catalog", cat.Names())

	return normalize.New(cat, schemas), nil
}
