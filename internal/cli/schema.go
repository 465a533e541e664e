package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolah/apispec/internal/config"
	"github.com/kolah/apispec/internal/jsonschema"
	"github.com/kolah/apispec/internal/loader"
)

func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate a JSON Schema from a list of field descriptors",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringP("title", "t", "", "Schema title, overrides the title in the fields file")

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, config.CommandSchema)
	if err != nil {
		return err
	}

	set, err := loader.LoadFields(cfg.Input)
	if err != nil {
		return fmt.Errorf("loading fields: %w", err)
	}

	title := set.Title
	if cfg.Schema.Title != "" {
		title = cfg.Schema.Title
	}

	schema, err := jsonschema.Generate(set.Fields, title)
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if cfg.Schema.Output == "" || dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), schema)
		return nil
	}

	if err := os.WriteFile(cfg.Schema.Output, []byte(schema+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Schema.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Schema.Output)

	return nil
}
