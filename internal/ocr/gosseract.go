//go:build gosseract

package ocr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

func init() {
	registerEngine(EngineGosseract, func(Config) (Engine, error) {
		return NewGosseractProcessor(), nil
	})
}

// GosseractProcessor runs libtesseract in-process.
type GosseractProcessor struct {
	clientFactory func() *gosseract.Client
}

// NewGosseractProcessor constructs a libtesseract-backed processor.
func NewGosseractProcessor() *GosseractProcessor {
	return &GosseractProcessor{clientFactory: gosseract.NewClient}
}

// ExtractText recognizes imagePath with a fresh client per call.
func (p *GosseractProcessor) ExtractText(ctx context.Context, imagePath string, opts Options) (Result, error) {
	if imagePath == "" {
		return Result{}, errors.New("image path is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	c := p.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}
	if opts.Language != "" {
		if err := c.SetLanguage(strings.Split(opts.Language, "+")...); err != nil {
			return Result{}, fmt.Errorf("set language: %w", err)
		}
	}
	if opts.PSM > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("tessedit_pageseg_mode"), strconv.Itoa(opts.PSM)); err != nil {
			return Result{}, fmt.Errorf("set psm: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize: %w", err)
	}
	return newResult("gosseract", text), nil
}
