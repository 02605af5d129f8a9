package cli

import (
	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/schema"
)

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the topology JSON Schema",
		Long: `Schema prints the JSON Schema that validate and serve check documents
against. Point an editor's JSON or YAML language server at it for completion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(schema.Document())
			return err
		},
	}
}
