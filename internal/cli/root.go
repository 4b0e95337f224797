// Package cli implements the invoicectl command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// NewRootCommand assembles invoicectl.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Extract invoice fields from OCR text or images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCommand(), newValidateCommand(), newSchemaCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the invoicectl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(Version)
			return nil
		},
	}
}
