package pkg

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Output formats accepted by Print.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Print writes v to w as indented JSON or YAML.
func Print(w io.Writer, v any, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("marshal %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
