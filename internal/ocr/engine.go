package ocr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Engine names accepted by New.
const (
	EngineTesseract = "tesseract"
	EngineAzure     = "azure"
	EngineGosseract = "gosseract"
)

// ErrUnknownEngine is returned by New for names with no registered engine.
var ErrUnknownEngine = errors.New("unknown ocr engine")

// Config selects and parameterizes an OCR engine.
type Config struct {
	Engine        string
	Binary        string
	Timeout       time.Duration
	AzureEndpoint string
	AzureKey      string
}

type factory func(Config) (Engine, error)

var engines = map[string]factory{
	EngineTesseract: func(cfg Config) (Engine, error) {
		p := NewProcessor()
		if cfg.Binary != "" {
			p.Binary = cfg.Binary
		}
		if cfg.Timeout > 0 {
			p.Timeout = cfg.Timeout
		}
		return p, nil
	},
	EngineAzure: func(cfg Config) (Engine, error) {
		if cfg.AzureEndpoint == "" || cfg.AzureKey == "" {
			return nil, errors.New("azure engine requires an endpoint and key")
		}
		p := NewAzureProcessor(cfg.AzureEndpoint, cfg.AzureKey)
		if cfg.Timeout > 0 {
			p.Timeout = cfg.Timeout
		}
		return p, nil
	},
}

func registerEngine(name string, f factory) { engines[name] = f }

// New builds the engine named by cfg.Engine; empty means tesseract.
func New(cfg Config) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Engine))
	if name == "" {
		name = EngineTesseract
	}
	f, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownEngine, cfg.Engine, strings.Join(Engines(), ", "))
	}
	return f(cfg)
}

// Engines lists the registered engine names.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
