package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"
)

func NewDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Print the JSON Patch operations between two JSON documents",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	target, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	patch, err := jsondiff.CompareJSON(source, target)
	if err != nil {
		return fmt.Errorf("comparing documents: %w", err)
	}

	for _, op := range patch {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", op.Type, op.Path)
	}
	if len(patch) > 0 {
		cmd.PrintErrf("%d differences\n", len(patch))
	}

	return nil
}
