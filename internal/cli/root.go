package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kolah/apispec/internal/config"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apispec",
		Short:         "Derive JSON Schema, resource documents and OpenAPI from captured API calls",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("log-level")
			level, err := logrus.ParseLevel(name)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", name, err)
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	config.BindCommonFlags(root)

	root.AddCommand(
		NewSchemaCmd(),
		NewResourceCmd(),
		NewOpenAPICmd(),
		NewDiffCmd(),
	)

	return root
}
