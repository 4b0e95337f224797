package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/khemrajubaledeloitte/ocr-test/internal/invoice"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
	"github.com/khemrajubaledeloitte/ocr-test/pkg"
)

// newEngine is swapped in tests.
var newEngine = ocr.New

type extractOptions struct {
	profile string
	output  string
	image   bool
	engine  string
	lang    string
}

func newExtractCommand() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract invoice fields from a text file, stdin, or an image",
		Long: "Reads OCR lines from file (or stdin when file is omitted or \"-\") and prints the\n" +
			"extracted invoice record. With --image the file is recognized with an OCR engine first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runExtract(cmd, path, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.profile, "profile", "p", string(invoice.ProfileFull), "extraction profile (basic|full)")
	flags.StringVarP(&opts.output, "output", "o", pkg.FormatJSON, "output format (json|yaml)")
	flags.BoolVar(&opts.image, "image", false, "treat the input file as an image and run OCR on it")
	flags.StringVar(&opts.engine, "engine", ocr.EngineTesseract, "OCR engine used with --image")
	flags.StringVar(&opts.lang, "lang", "eng", "OCR language used with --image")
	return cmd
}

func runExtract(cmd *cobra.Command, path string, opts *extractOptions) error {
	profile, err := invoice.ParseProfile(opts.profile)
	if err != nil {
		return err
	}

	var lines []string
	if opts.image {
		lines, err = recognize(cmd, path, opts)
	} else {
		lines, err = readLines(cmd.InOrStdin(), path)
	}
	if err != nil {
		return err
	}

	return pkg.Print(cmd.OutOrStdout(), invoice.Extract(lines, profile), opts.output)
}

func recognize(cmd *cobra.Command, path string, opts *extractOptions) ([]string, error) {
	if path == "-" {
		return nil, fmt.Errorf("--image requires a file path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	tempPath, cleanup, err := ocr.SaveUploadedImage(f, 0)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	engine, err := newEngine(ocr.Config{Engine: opts.engine})
	if err != nil {
		return nil, err
	}
	res, err := engine.ExtractText(cmd.Context(), tempPath, ocr.Options{Language: opts.lang})
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

func readLines(stdin io.Reader, path string) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ocr.SplitLines(string(data)), nil
}
