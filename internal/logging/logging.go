package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger for mode "prod" and a
// human-readable development logger otherwise.
func New(mode string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if mode == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
