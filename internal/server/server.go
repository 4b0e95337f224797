package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/khemrajubaledeloitte/ocr-test/internal/config"
	"github.com/khemrajubaledeloitte/ocr-test/internal/logging"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
	"github.com/khemrajubaledeloitte/ocr-test/internal/server/handler"
	"github.com/khemrajubaledeloitte/ocr-test/internal/server/router"
	"github.com/khemrajubaledeloitte/ocr-test/internal/server/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Server.Mode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if strings.EqualFold(cfg.OCR.Engine, ocr.EngineTesseract) {
		if err := ocr.EnsureBinary(cfg.OCR.Binary); err != nil {
			return err
		}
	}

	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r, err := NewRouter(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("ocr_engine", cfg.OCR.Engine), zap.String("profile", cfg.Profile().String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewRouter builds the dependency chain described by cfg.
func NewRouter(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	processor, err := ocr.New(cfg.Engine())
	if err != nil {
		return nil, err
	}
	return newRouter(cfg, processor, logger), nil
}

func newRouter(cfg *config.Config, processor service.Processor, logger *zap.Logger) *gin.Engine {
	ocrService := service.NewOCRService(processor, cfg.Options(), cfg.OCR.MaxPixels)
	invoiceService := service.NewInvoiceService(ocrService, cfg.Profile(), logger)

	ocrHandler := handler.NewOCRHandler(ocrService, cfg.Server.MaxUploadBytes, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, cfg.Server.MaxUploadBytes, logger)

	return router.New(router.Config{
		APIKey:       cfg.Server.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	}, ocrHandler, invoiceHandler)
}
