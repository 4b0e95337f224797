// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/khemrajubaledeloitte/ocr-test/internal/invoice"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	OCR     OCRConfig
	Invoice InvoiceConfig
}

// ServerConfig holds HTTP-related settings.
type ServerConfig struct {
	Port            string
	Mode            string
	APIKey          string
	AllowOrigins    []string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR engine settings.
type OCRConfig struct {
	Engine        string
	Binary        string
	Language      string
	PSM           int
	Timeout       time.Duration
	AzureEndpoint string
	AzureKey      string
	MaxPixels     int64
}

// InvoiceConfig holds extraction defaults.
type InvoiceConfig struct {
	Profile string
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment take precedence.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Mode:            getEnv("MODE", "dev"),
			APIKey:          os.Getenv("API_KEY"),
			AllowOrigins:    getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 50)) << 20,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Engine:        getEnv("OCR_ENGINE", ocr.EngineTesseract),
			Binary:        getEnv("TESSERACT_BIN", "tesseract"),
			Language:      getEnv("OCR_LANG", "eng"),
			PSM:           getEnvAsInt("OCR_PSM", 0),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
			AzureEndpoint: os.Getenv("AZURE_CV_ENDPOINT"),
			AzureKey:      os.Getenv("AZURE_CV_KEY"),
			MaxPixels:     int64(getEnvAsInt("MAX_IMAGE_PIXELS", int(ocr.DefaultMaxPixels))),
		},
		Invoice: InvoiceConfig{
			Profile: getEnv("INVOICE_PROFILE", string(invoice.ProfileFull)),
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("%w: PORT is required", ErrInvalidConfig)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_MB must be positive", ErrInvalidConfig)
	}
	if c.OCR.MaxPixels <= 0 {
		return fmt.Errorf("%w: MAX_IMAGE_PIXELS must be positive", ErrInvalidConfig)
	}
	if _, err := invoice.ParseProfile(c.Invoice.Profile); err != nil {
		return fmt.Errorf("%w: INVOICE_PROFILE: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.OCR.Engine) {
	case ocr.EngineTesseract, ocr.EngineGosseract:
	case ocr.EngineAzure:
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return fmt.Errorf("%w: AZURE_CV_ENDPOINT and AZURE_CV_KEY are required for the azure engine", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: OCR_ENGINE %q is not supported", ErrInvalidConfig, c.OCR.Engine)
	}
	return nil
}

// Profile returns the configured default extraction profile.
func (c *Config) Profile() invoice.Profile {
	p, err := invoice.ParseProfile(c.Invoice.Profile)
	if err != nil {
		return invoice.ProfileFull
	}
	return p
}

// Engine returns the OCR engine settings in the form ocr.New expects.
func (c *Config) Engine() ocr.Config {
	return ocr.Config{
		Engine:        c.OCR.Engine,
		Binary:        c.OCR.Binary,
		Timeout:       c.OCR.Timeout,
		AzureEndpoint: c.OCR.AzureEndpoint,
		AzureKey:      c.OCR.AzureKey,
	}
}

// Options returns the per-call OCR options.
func (c *Config) Options() ocr.Options {
	return ocr.Options{Language: c.OCR.Language, PSM: c.OCR.PSM}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
