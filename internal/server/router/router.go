package router

import (
	"net/http"
	"time"

	"github.com/khemrajubaledeloitte/ocr-test/internal/server/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OCRHandler defines the interface for the OCR handler.
type OCRHandler interface {
	HandleOCR(c *gin.Context)
	HandleLegacy(c *gin.Context)
}

// InvoiceHandler defines the interface for the invoice handler.
type InvoiceHandler interface {
	HandleImage(c *gin.Context)
	HandleLines(c *gin.Context)
	HandleSchema(c *gin.Context)
}

// Config carries the router-level settings.
type Config struct {
	APIKey       string
	AllowOrigins []string
	Logger       *zap.Logger
}

// New wires up handlers to the Gin engine.
func New(cfg Config, ocrHandler OCRHandler, invoiceHandler InvoiceHandler) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(logger), middleware.Recovery(logger))
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	// Health check endpoint (no auth)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	auth := middleware.WithAPIKey(cfg.APIKey)

	// Legacy single-endpoint path.
	r.POST("/extract-text/", auth, ocrHandler.HandleLegacy)

	v1 := r.Group("/api/v1", auth)
	{
		ocr := v1.Group("/ocr")
		ocr.POST("/image", ocrHandler.HandleOCR)

		inv := v1.Group("/invoice")
		inv.POST("/image", invoiceHandler.HandleImage)
		inv.POST("/lines", invoiceHandler.HandleLines)
		inv.GET("/schema", invoiceHandler.HandleSchema)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
