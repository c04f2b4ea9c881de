package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// Formatter is the interface for output formatters.
// Types implementing this interface can output in text, JSON or YAML format.
type Formatter interface {
	FormatText() string
	FormatJSON() ([]byte, error)
	FormatYAML() ([]byte, error)
}

// ParseFormat converts a --output flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatOutput renders f in the given format.
func FormatOutput(f Formatter, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := f.FormatJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		data, err := f.FormatYAML()
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	default:
		return f.FormatText(), nil
	}
}
