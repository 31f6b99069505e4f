package envmanager

import (
	"encoding/json"
	"fmt"
	"io"
)

// redacted replaces secret values in dumps and snapshots.
const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withSources bool   // Include source attribution for each variable
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each variable in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs variables as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// Dump writes the staged variables of m, sorted by name, including those Save
// would drop. Secret values are redacted as "***redacted***".
func Dump(w io.Writer, m *EnvManager, opts ...DumpOption) error {
	if m == nil {
		return ErrNilManager
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, m, config)
	}
	return dumpAsText(w, m, config)
}

// dumpAsText outputs one `NAME: "value"` line per variable.
func dumpAsText(w io.Writer, m *EnvManager, config dumpConfig) error {
	for _, p := range m.Provenances() {
		line := fmt.Sprintf("%s: %s", p.Name, displayValue(m, p))
		if config.withSources && p.SourceName != "" {
			line += fmt.Sprintf(" (source: %s)", p.SourceName)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return nil
}

type jsonVariable struct {
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
}

// dumpAsJSON outputs an object keyed by variable name.
func dumpAsJSON(w io.Writer, m *EnvManager, config dumpConfig) error {
	var result any
	if config.withSources {
		withSources := make(map[string]jsonVariable)
		for _, p := range m.Provenances() {
			withSources[p.Name] = jsonVariable{Value: flatValue(m, p), Source: p.SourceName}
		}
		result = withSources
	} else {
		result = flattenVariables(m)
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// flattenVariables returns name -> value with secrets redacted.
func flattenVariables(m *EnvManager) map[string]string {
	result := make(map[string]string, len(m.variables))
	for _, p := range m.Provenances() {
		result[p.Name] = flatValue(m, p)
	}
	return result
}

func flatValue(m *EnvManager, p VariableProvenance) string {
	if p.Secret {
		return redacted
	}
	return m.variables[p.Name]
}

func displayValue(m *EnvManager, p VariableProvenance) string {
	if p.Secret {
		return redacted
	}
	return fmt.Sprintf("%q", m.variables[p.Name])
}
