package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/leodido/watermarks"
	"github.com/leodido/watermarks/style"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap/zapcore"
)

// Format is how results are printed.
type Format enumflag.Flag

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

var formatIds = map[Format][]string{
	FormatText: {"text"},
	FormatJSON: {"json"},
	FormatYAML: {"yaml", "yml"},
}

var logLevelIds = map[zapcore.Level][]string{
	zapcore.DebugLevel: {"debug"},
	zapcore.InfoLevel:  {"info"},
	zapcore.WarnLevel:  {"warn"},
	zapcore.ErrorLevel: {"error"},
}

// decisionOutput is the printable form of a decision.
type decisionOutput struct {
	File string `json:"file"`
	Kind string `json:"kind"`
	watermarks.Decision
	Style *style.Rendered `json:"style,omitempty"`
}

// settingsOutput is the printable form of the effective settings.
type settingsOutput struct {
	watermarks.Record
	Fingerprint int32                `json:"fingerprint"`
	Projects    []watermarks.Project `json:"projects,omitempty"`
}

func printStructured(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("couldn't marshal to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))

		return err
	default:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("couldn't marshal to YAML: %w", err)
		}
		_, err = w.Write(out)

		return err
	}
}

func printDecision(w io.Writer, f Format, out decisionOutput) error {
	if f != FormatText {
		return printStructured(w, f, out)
	}

	var err error
	switch out.Decision.Kind {
	case watermarks.ShowText:
		_, err = fmt.Fprintf(w, "text: %s\n", out.Text)
	case watermarks.ShowImage:
		_, err = fmt.Fprintf(w, "image: %s (%s %dx%d)\n", out.ImagePath, out.Image.Format, out.Image.Width, out.Image.Height)
	default:
		_, err = fmt.Fprintln(w, "hide")
	}

	return err
}

// printSettings prints the settings as YAML unless JSON is asked.
func printSettings(w io.Writer, f Format, out settingsOutput) error {
	if f == FormatJSON {
		return printStructured(w, FormatJSON, out)
	}

	return printStructured(w, FormatYAML, out)
}
