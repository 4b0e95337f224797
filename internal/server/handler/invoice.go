package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/khemrajubaledeloitte/ocr-test/internal/invoice"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
	"github.com/khemrajubaledeloitte/ocr-test/internal/server/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceService defines the extraction behavior consumed by the handler.
type InvoiceService interface {
	ResolveProfile(name string) (invoice.Profile, error)
	Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, opts ocr.Options, profile invoice.Profile) (service.InvoiceResult, error)
	ExtractLines(lines []string, profile invoice.Profile) invoice.Record
}

// InvoiceResponse is the payload returned for an uploaded invoice image.
type InvoiceResponse struct {
	Filename      string         `json:"filename"`
	Profile       string         `json:"profile"`
	ExtractedText string         `json:"extracted_text"`
	Invoice       invoice.Record `json:"invoice"`
}

// LinesRequest carries lines recognized by an external OCR engine.
type LinesRequest struct {
	Lines   []string `json:"lines"`
	Profile string   `json:"profile"`
}

// InvoiceHandler manages invoice extraction HTTP interactions.
type InvoiceHandler struct {
	service  InvoiceService
	maxBytes int64
	logger   *zap.Logger
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(svc InvoiceService, maxBytes int64, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{service: svc, maxBytes: maxBytes, logger: logger}
}

// HandleImage runs OCR on an uploaded image and extracts invoice fields.
func (h *InvoiceHandler) HandleImage(c *gin.Context) {
	upload, ok := readUpload(c, h.maxBytes)
	if !ok {
		return
	}
	defer upload.file.Close()

	profile, err := h.service.ResolveProfile(c.Request.FormValue("profile"))
	if err != nil {
		abortProfile(c, err)
		return
	}

	res, err := h.service.Process(c.Request.Context(), upload.file, upload.header, upload.opts, profile)
	if err != nil {
		abortOCR(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, InvoiceResponse{
		Filename:      upload.header.Filename,
		Profile:       res.Profile.String(),
		ExtractedText: res.OCR.Text,
		Invoice:       res.Record,
	})
}

// HandleLines extracts invoice fields from a JSON list of lines.
func (h *InvoiceHandler) HandleLines(c *gin.Context) {
	var req LinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid json payload",
		})
		return
	}

	profile, err := h.service.ResolveProfile(req.Profile)
	if err != nil {
		abortProfile(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.ExtractLines(req.Lines, profile))
}

// HandleSchema serves the JSON Schema of the invoice record.
func (h *InvoiceHandler) HandleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, invoice.Schema())
}

func abortProfile(c *gin.Context, err error) {
	if errors.Is(err, invoice.ErrUnknownProfile) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "internal error",
	})
}
