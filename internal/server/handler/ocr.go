package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
	"github.com/khemrajubaledeloitte/ocr-test/internal/server/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OCRService defines the behavior consumed by the handler.
type OCRService interface {
	Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, opts ocr.Options) (ocr.Result, error)
}

// OCRResponse is the payload returned for a plain text extraction.
type OCRResponse struct {
	Filename      string   `json:"filename"`
	ExtractedText string   `json:"extracted_text"`
	Lines         []string `json:"lines"`
}

// OCRHandler manages OCR HTTP interactions.
type OCRHandler struct {
	service  OCRService
	maxBytes int64
	logger   *zap.Logger
}

// NewOCRHandler builds the handler.
func NewOCRHandler(svc OCRService, maxBytes int64, logger *zap.Logger) *OCRHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCRHandler{service: svc, maxBytes: maxBytes, logger: logger}
}

// HandleOCR extracts the raw text of an uploaded image.
func (h *OCRHandler) HandleOCR(c *gin.Context) {
	upload, ok := readUpload(c, h.maxBytes)
	if !ok {
		return
	}
	defer upload.file.Close()

	res, err := h.service.Process(c.Request.Context(), upload.file, upload.header, upload.opts)
	if err != nil {
		abortOCR(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, OCRResponse{
		Filename:      upload.header.Filename,
		ExtractedText: res.Text,
		Lines:         res.Lines,
	})
}

// LegacyResponse is the payload of the original single-endpoint service.
type LegacyResponse struct {
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text"`
}

// HandleLegacy serves /extract-text/ with the status codes and error bodies
// existing clients of that path expect: 422 for a missing or unreadable
// form, 500 with the error text for any processing failure.
func (h *OCRHandler) HandleLegacy(c *gin.Context) {
	upload, err := parseUpload(c, h.maxBytes)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			abortUpload(c, err)
			return
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"detail": []gin.H{{
				"loc":  []string{"body", "file"},
				"msg":  "field required",
				"type": "value_error.missing",
			}},
			"body": nil,
		})
		return
	}
	defer upload.file.Close()

	res, err := h.service.Process(c.Request.Context(), upload.file, upload.header, upload.opts)
	if err != nil {
		h.logger.Error("ocr error", zap.Error(err), zap.String("request_id", c.GetString(middleware.RequestIDKey)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, LegacyResponse{
		Filename:      upload.header.Filename,
		ExtractedText: res.Text,
	})
}

type upload struct {
	file   multipart.File
	header *multipart.FileHeader
	opts   ocr.Options
}

var (
	errUploadTooLarge = errors.New("upload too large")
	errBadMultipart   = errors.New("invalid multipart payload")
	errMissingFile    = errors.New("missing file")
)

// parseUpload reads the multipart form, bounded by maxBytes when positive.
func parseUpload(c *gin.Context, maxBytes int64) (upload, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload{}, errUploadTooLarge
		}
		return upload{}, errBadMultipart
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return upload{}, errMissingFile
	}

	// Unset values fall back to the configured defaults in the service.
	opts := ocr.Options{Language: c.Request.FormValue("lang")}
	if psm, err := strconv.Atoi(c.Request.FormValue("psm")); err == nil && psm > 0 {
		opts.PSM = psm
	}

	return upload{file: file, header: header, opts: opts}, nil
}

// readUpload is parseUpload that writes the error response itself.
func readUpload(c *gin.Context, maxBytes int64) (upload, bool) {
	u, err := parseUpload(c, maxBytes)
	if err != nil {
		abortUpload(c, err)
		return upload{}, false
	}
	return u, true
}

func abortUpload(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, errUploadTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
	})
}

func abortOCR(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, ocr.ErrImageTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "image too large",
		})
		return
	case errors.Is(err, ocr.ErrInvalidImage):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "unsupported image",
		})
		return
	}
	logger.Error("ocr error", zap.Error(err), zap.String("request_id", c.GetString(middleware.RequestIDKey)))
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
		"error": "ocr error",
	})
}
