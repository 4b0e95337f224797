package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/khemrajubaledeloitte/ocr-test/internal/invoice"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"

	"go.uber.org/zap"
)

// InvoiceResult pairs the OCR output with the fields extracted from it.
type InvoiceResult struct {
	Profile invoice.Profile
	OCR     ocr.Result
	Record  invoice.Record
}

// InvoiceService runs OCR on an upload and feeds the lines to the extraction engine.
type InvoiceService struct {
	ocr            *OCRService
	defaultProfile invoice.Profile
	logger         *zap.Logger
}

// NewInvoiceService creates InvoiceService.
func NewInvoiceService(ocrSvc *OCRService, defaultProfile invoice.Profile, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{ocr: ocrSvc, defaultProfile: defaultProfile, logger: logger}
}

// ResolveProfile parses name, falling back to the service default when it is blank.
func (s *InvoiceService) ResolveProfile(name string) (invoice.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultProfile, nil
	}
	return invoice.ParseProfile(name)
}

// Process OCRs the upload and extracts invoice fields with profile.
func (s *InvoiceService) Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, opts ocr.Options, profile invoice.Profile) (InvoiceResult, error) {
	res, err := s.ocr.Process(ctx, file, header, opts)
	if err != nil {
		return InvoiceResult{}, err
	}
	rec := s.ExtractLines(res.Lines, profile)
	s.logger.Debug("invoice extracted",
		zap.String("filename", header.Filename),
		zap.String("engine", res.Engine),
		zap.String("profile", profile.String()),
		zap.Int("lines", len(res.Lines)),
	)
	return InvoiceResult{Profile: profile, OCR: res, Record: rec}, nil
}

// ExtractLines runs extraction over lines that were recognized elsewhere.
func (s *InvoiceService) ExtractLines(lines []string, profile invoice.Profile) invoice.Record {
	return invoice.Extract(lines, profile)
}
