package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "apispec.yaml"

// OperationPlaceholder is replaced by the operation id in OperationPath.
const OperationPlaceholder = "{operation}"

// Command selects which settings Validate requires.
type Command string

const (
	CommandSchema   Command = "schema"
	CommandResource Command = "resource"
	CommandOpenAPI  Command = "openapi"
)

type Config struct {
	Input         string         `koanf:"input"`
	OutputDir     string         `koanf:"output-dir"`
	OperationPath string         `koanf:"operation-path"`
	Schema        SchemaConfig   `koanf:"schema"`
	Security      SecurityConfig `koanf:"security"`
	OpenAPI       OpenAPIConfig  `koanf:"openapi"`
}

type SchemaConfig struct {
	Title  string `koanf:"title"`
	Output string `koanf:"output"`
}

type SecurityConfig struct {
	APIKeyHeader string `koanf:"api-key-header"`
}

type OpenAPIConfig struct {
	InputDir       string   `koanf:"input-dir"`
	Output         string   `koanf:"output"`
	Format         string   `koanf:"format"`
	Title          string   `koanf:"title"`
	Description    string   `koanf:"description"`
	Version        string   `koanf:"version"`
	Servers        []string `koanf:"servers"`
	ExtractSchemas bool     `koanf:"extract-schemas"`
	OAuth2TokenURL string   `koanf:"oauth2-token-url"`
	SkipValidation bool     `koanf:"skip-validation"`
}

func defaults() map[string]any {
	return map[string]any{
		"operation-path":  OperationPlaceholder + "/resource.json",
		"openapi.format":  "yaml",
		"openapi.title":   "API documentation",
		"openapi.version": "1.0.0",
	}
}

// BindCommonFlags binds the flags shared by every command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: apispec.yaml)")
	flags.StringP("input", "i", "", "Input file or directory")
	flags.Bool("dry-run", false, "Print output without writing files")
}

func Load(cmd *cobra.Command, command Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := getString(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// resource.json files are read back from where the resource command wrote them
	if cfg.OpenAPI.InputDir == "" {
		cfg.OpenAPI.InputDir = cfg.OutputDir
	}
	cfg.OpenAPI.Format = strings.ToLower(cfg.OpenAPI.Format)

	if err := cfg.Validate(command); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func getString(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	stringFlags := map[string]string{
		"input":            "input",
		"output-dir":       "output-dir",
		"operation-path":   "operation-path",
		"title":            "schema.title",
		"output":           "schema.output",
		"api-key-header":   "security.api-key-header",
		"resources":        "openapi.input-dir",
		"openapi-output":   "openapi.output",
		"format":           "openapi.format",
		"api-title":        "openapi.title",
		"api-description":  "openapi.description",
		"api-version":      "openapi.version",
		"oauth2-token-url": "openapi.oauth2-token-url",
	}
	for flag, key := range stringFlags {
		if v := getString(cmd, flag); v != "" {
			m[key] = v
		}
	}

	if v := getStringSlice("servers"); len(v) > 0 {
		m["openapi.servers"] = v
	}
	if flagChanged("extract-schemas") {
		m["openapi.extract-schemas"] = getBool("extract-schemas")
	}
	if flagChanged("skip-validation") {
		m["openapi.skip-validation"] = getBool("skip-validation")
	}

	return m
}

func (c *Config) Validate(command Command) error {
	switch command {
	case CommandSchema:
		if c.Input == "" {
			return fmt.Errorf("input fields file is required")
		}
	case CommandResource:
		if c.Input == "" {
			return fmt.Errorf("input captures file or directory is required")
		}
		if c.OutputDir == "" {
			return fmt.Errorf("output directory is required")
		}
		if !strings.Contains(c.OperationPath, OperationPlaceholder) {
			return fmt.Errorf("operation path %q must contain %s", c.OperationPath, OperationPlaceholder)
		}
	case CommandOpenAPI:
		if c.OpenAPI.InputDir == "" {
			return fmt.Errorf("resources directory is required")
		}
		validFormats := map[string]bool{"yaml": true, "json": true}
		if !validFormats[c.OpenAPI.Format] {
			return fmt.Errorf("invalid format: %s (valid: yaml, json)", c.OpenAPI.Format)
		}
		if c.OpenAPI.Title == "" {
			return fmt.Errorf("API title is required")
		}
		if c.OpenAPI.Version == "" {
			return fmt.Errorf("API version is required")
		}
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
