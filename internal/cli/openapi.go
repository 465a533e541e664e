package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolah/apispec/internal/config"
	"github.com/kolah/apispec/internal/loader"
	"github.com/kolah/apispec/internal/openapi"
)

func NewOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Combine resource documents into an OpenAPI 3 document",
		Args:  cobra.NoArgs,
		RunE:  runOpenAPI,
	}

	flags := cmd.Flags()
	flags.StringP("resources", "r", "", "Directory holding resource documents (default: output-dir)")
	flags.String("output-dir", "", "Directory the resource command wrote to")
	flags.StringP("openapi-output", "o", "", "Output file (default: stdout)")
	flags.StringP("format", "f", "", "Output format: yaml, json")
	flags.String("api-title", "", "API title")
	flags.String("api-description", "", "API description")
	flags.String("api-version", "", "API version")
	flags.StringSlice("servers", nil, "Server URLs")
	flags.Bool("extract-schemas", false, "Move every request and response schema to components")
	flags.String("oauth2-token-url", "", "Token URL of the OAuth2 client credentials flow")
	flags.Bool("skip-validation", false, "Do not validate the generated document")

	return cmd
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, config.CommandOpenAPI)
	if err != nil {
		return err
	}

	resources, err := loader.LoadResources(cfg.OpenAPI.InputDir)
	if err != nil {
		return fmt.Errorf("loading resources: %w", err)
	}
	cmd.PrintErrf("Loaded %d resources from %s\n", len(resources), cfg.OpenAPI.InputDir)

	doc, err := openapi.Build(resources, openapi.Options{
		Title:          cfg.OpenAPI.Title,
		Description:    cfg.OpenAPI.Description,
		Version:        cfg.OpenAPI.Version,
		Servers:        cfg.OpenAPI.Servers,
		ExtractSchemas: cfg.OpenAPI.ExtractSchemas,
		OAuth2TokenURL: cfg.OpenAPI.OAuth2TokenURL,
	})
	if err != nil {
		return fmt.Errorf("building OpenAPI document: %w", err)
	}
	cmd.PrintErrf("  Paths: %d\n", doc.Paths.PathItems.Len())

	data, err := openapi.Render(doc, cfg.OpenAPI.Format)
	if err != nil {
		return fmt.Errorf("rendering OpenAPI document: %w", err)
	}

	if !cfg.OpenAPI.SkipValidation {
		if err := openapi.Validate(data); err != nil {
			return err
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if cfg.OpenAPI.Output == "" || dryRun {
		cmd.OutOrStdout().Write(data)
		return nil
	}

	if err := os.WriteFile(cfg.OpenAPI.Output, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.OpenAPI.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.OpenAPI.Output)

	return nil
}
