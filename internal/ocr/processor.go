package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBinary  = "tesseract"
	defaultTimeout = 2 * time.Minute
)

// Result is the recognized text of one image.
type Result struct {
	Engine string   `json:"engine"`
	Text   string   `json:"text"`
	Lines  []string `json:"lines"`
}

// Options controls a single recognition call.
type Options struct {
	Language string
	PSM      int
}

// Engine recognizes text in an image stored on disk.
type Engine interface {
	ExtractText(ctx context.Context, imagePath string, opts Options) (Result, error)
}

// Processor wraps the tesseract CLI.
type Processor struct {
	Binary  string
	Timeout time.Duration
}

// NewProcessor returns a Processor with sane defaults.
func NewProcessor() *Processor {
	return &Processor{
		Binary:  defaultBinary,
		Timeout: defaultTimeout,
	}
}

// ExtractText runs tesseract against imagePath and returns its text split into lines.
func (p *Processor) ExtractText(ctx context.Context, imagePath string, opts Options) (Result, error) {
	if imagePath == "" {
		return Result{}, errors.New("image path is required")
	}
	binary := p.Binary
	if binary == "" {
		binary = defaultBinary
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, binary, buildArgs(imagePath, opts)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("tesseract: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	return newResult("tesseract", stdout.String()), nil
}

func buildArgs(imagePath string, opts Options) []string {
	// tesseract <file> stdout -l <lang>
	args := []string{imagePath, "stdout"}
	if opts.Language != "" {
		args = append(args, "-l", opts.Language)
	}
	if opts.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(opts.PSM))
	}
	return args
}

func newResult(engine, text string) Result {
	text = normalizeNewlines(text)
	return Result{
		Engine: engine,
		Text:   text,
		Lines:  SplitLines(text),
	}
}

// SplitLines breaks OCR output into lines in reading order. Page breaks
// count as line breaks. Blank lines are kept.
func SplitLines(text string) []string {
	text = strings.TrimRight(normalizeNewlines(text), "\n\f")
	if text == "" {
		return []string{}
	}
	return strings.Split(strings.ReplaceAll(text, "\f", "\n"), "\n")
}

func normalizeNewlines(in string) string {
	return strings.ReplaceAll(in, "\r\n", "\n")
}

// EnsureBinary checks whether the OCR binary is available on PATH.
func EnsureBinary(binary string) error {
	if binary == "" {
		binary = defaultBinary
	}
	_, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("tesseract binary not found (%s): %w", binary, err)
	}
	return nil
}

// ResolveBinary returns the absolute binary path if available on PATH.
func ResolveBinary(binary string) (string, error) {
	if binary == "" {
		binary = defaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}
