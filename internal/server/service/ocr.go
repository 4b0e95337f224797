package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
)

// Processor defines the OCR dependency.
type Processor interface {
	ExtractText(ctx context.Context, imagePath string, opts ocr.Options) (ocr.Result, error)
}

// OCRService orchestrates OCR processing.
type OCRService struct {
	processor Processor
	defaults  ocr.Options
	maxPixels int64
}

// NewOCRService creates OCRService. defaults fill any option the caller
// leaves unset; maxPixels <= 0 selects ocr.DefaultMaxPixels.
func NewOCRService(proc Processor, defaults ocr.Options, maxPixels int64) *OCRService {
	return &OCRService{processor: proc, defaults: defaults, maxPixels: maxPixels}
}

// Process persists the uploaded image and runs OCR.
func (s *OCRService) Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, opts ocr.Options) (ocr.Result, error) {
	tempPath, cleanup, err := ocr.SaveUploadedImage(file, s.maxPixels)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("persist upload (%s): %w", header.Filename, err)
	}
	defer cleanup()

	if opts.Language == "" {
		opts.Language = s.defaults.Language
	}
	if opts.PSM == 0 {
		opts.PSM = s.defaults.PSM
	}

	res, err := s.processor.ExtractText(ctx, tempPath, opts)
	if err != nil {
		return ocr.Result{}, err
	}
	return res, nil
}
