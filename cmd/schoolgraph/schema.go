package main

import (
	"fmt"

	"github.com/spf13/cobra"

	resolver "github.com/hanpama/schoolgraph/internal/resolver"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), resolver.SDL())
			return err
		},
	}
}
