package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Format is a machine-readable output format.
type Format string

const (
	FormatPretty Format = ""
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat accepts "", "pretty", "json" and "yaml".
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatPretty, "pretty", "text":
		return FormatPretty, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return FormatPretty, fmt.Errorf("printers: unknown output format %q", raw)
	}
}

// Write encodes v to w in format f. Pretty is not a structured format and is
// rejected.
func Write(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("printers: %q is not a structured format", f)
	}
}

// ConfigureColor turns colour off when out is not a terminal, or when
// NO_COLOR is set.
func ConfigureColor(out *os.File) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.NoColor = true
		return
	}
	fd := out.Fd()
	color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
