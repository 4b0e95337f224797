package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/khemrajubaledeloitte/ocr-test/internal/invoice"
	"github.com/khemrajubaledeloitte/ocr-test/pkg"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a JSON invoice record against the record schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open record: %w", err)
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}
			if err := invoice.ValidateJSON(data); err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the invoice record JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return pkg.Print(cmd.OutOrStdout(), invoice.Schema(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", pkg.FormatJSON, "output format (json|yaml)")
	return cmd
}
