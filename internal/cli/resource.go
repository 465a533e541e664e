package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kolah/apispec/internal/config"
	"github.com/kolah/apispec/internal/docgen"
	"github.com/kolah/apispec/internal/loader"
	"github.com/kolah/apispec/internal/resource"
	"github.com/kolah/apispec/middleware"
)

func NewResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Generate one resource document per operation from capture files",
		Args:  cobra.NoArgs,
		RunE:  runResource,
	}

	flags := cmd.Flags()
	flags.StringP("output-dir", "o", "", "Output directory for resource documents")
	flags.String("operation-path", "", "Path of each document below the output directory (default: {operation}/resource.json)")
	flags.String("api-key-header", "", "Header carrying an API key, e.g. X-API-Key")

	return cmd
}

func runResource(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, config.CommandResource)
	if err != nil {
		return err
	}

	snippets, err := loader.LoadSnippets(cfg.Input)
	if err != nil {
		return fmt.Errorf("loading captures: %w", err)
	}
	cmd.PrintErrf("Loaded %d captured operations\n", len(snippets))

	assembler := resource.New(resource.Options{
		Security: middleware.SecurityExtractor{APIKeyHeader: cfg.Security.APIKeyHeader},
	})
	gen := docgen.New(cfg, assembler)

	outputs, err := gen.Generate(cmd.Context(), snippets)
	if err != nil {
		return fmt.Errorf("generating resources: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		for _, out := range outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s\n", out.Filename, out.Content)
		}
		return nil
	}

	for _, out := range outputs {
		path := filepath.Join(cfg.OutputDir, out.Filename)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(out.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		cmd.PrintErrf("Written: %s\n", path)
	}

	return nil
}
