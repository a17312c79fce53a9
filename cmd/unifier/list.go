package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"unifier/internal/schema"
)

func ProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers in identification order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("providers")
			if err != nil {
				return fmt.Errorf("failed to get providers flag: %w", err)
			}

			pipeline, err := buildPipeline(cmd.Context(), path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTARGETS\tFIELDS")

			for _, p := range pipeline.Catalog().Providers() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name(), strings.Join(p.Targets(), ","), strings.Join(p.Ident().FieldNames(), ","))
			}

			return tw.Flush()
		},
	}
}

func SchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List canonical schemas and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			schemas := schema.Default()

			for _, name := range schemas.Names() {
				s, _ := schemas.Lookup(name)

				fmt.Fprintln(out, s.Name())

				for _, f := range s.Fields() {
					fmt.Fprintln(out, "  "+f.String())
				}
			}

			return nil
		},
	}
}
