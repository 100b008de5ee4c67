package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/schema"
)

func newSuggestCmd() *cobra.Command {
	var (
		web      bool
		fromPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest [description]",
		Short: "Suggest a column schema for a description",
		Long: `Ask the generation service for fields that fit the description.
With --from, infer the fields locally from an existing CSV file instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if fromPath != "" {
				data, err := os.ReadFile(fromPath)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", fromPath, err)
				}
				fields, err := schema.FieldsFromCSV(data)
				if err != nil {
					return fmt.Errorf("failed to infer fields: %w", err)
				}
				if asJSON {
					return printJSON(out, fields.Fields())
				}
				fmt.Fprintf(out, "Fields inferred from %s:\n", fromPath)
				printFields(out, fields.Fields())
				return nil
			}

			source := remote.SourceAI
			if web {
				source = remote.SourceWeb
			}

			c := current.newController()
			c.SetDescription(strings.Join(args, " "))
			if err := c.SuggestSchema(cmd.Context(), source); err != nil {
				if n := c.Snapshot().Notice; n != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), n)
				}
				return err
			}

			s := c.Snapshot()
			if asJSON {
				return printJSON(out, remote.Suggestion{Fields: s.Fields, Reasoning: s.Reasoning})
			}
			fmt.Fprintf(out, "Suggested fields (%s):\n", source.Label())
			printFields(out, s.Fields)
			if s.Reasoning != "" {
				fmt.Fprintf(out, "\n%s\n", s.Reasoning)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&web, "web", false, "Use the web-lookup suggestion endpoint")
	cmd.Flags().StringVar(&fromPath, "from", "", "Infer fields from a CSV file instead of calling the service")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
