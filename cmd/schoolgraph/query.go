package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	language "github.com/hanpama/schoolgraph/internal/language"
	logging "github.com/hanpama/schoolgraph/internal/logging"
	resolver "github.com/hanpama/schoolgraph/internal/resolver"
)

func newQueryCmd() *cobra.Command {
	var (
		variables string
		operation string
	)
	cmd := &cobra.Command{
		Use:   "query [document]",
		Short: "Execute one GraphQL operation and print the JSON result",
		Long: `Execute one GraphQL operation against the configured store and print
the response. The document is read from stdin when no argument is given.

Examples:
  schoolgraph query --store.seed school.yaml '{ departments { name students { fullName } } }'
  schoolgraph query -v '{"id": 1}' 'query($id: Int!) { student(id: $id) { email } }'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var document string
			if len(args) == 1 {
				document = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "reading stdin")
				}
				document = strings.TrimSpace(string(raw))
			}
			if document == "" {
				return errors.New("no document provided (pass as argument or pipe to stdin)")
			}
			var vars map[string]any
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return errors.Wrap(err, "invalid variables JSON")
				}
			}

			b, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer b.close()

			bus := eventbus.New()
			defer logging.Subscribe(bus)()
			exec, err := resolver.NewExecutor(b.gateway, resolverOptions(cfg.Resolver, bus)...)
			if err != nil {
				return err
			}
			doc, errs := language.LoadQuery(exec.Schema().Source, document)
			if len(errs) > 0 {
				return errs
			}
			result := exec.ExecuteRequest(cmd.Context(), doc, operation, vars, nil)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if len(result.Errors) > 0 {
				return fmt.Errorf("operation finished with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&variables, "variables", "v", "", "Variables as a JSON object")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "Operation name, when the document has several")
	return cmd
}
