package envmanager

import (
	"sort"
	"strings"
)

// Source names recorded for variables that did not come from a file or an import.
const (
	SourceSet       = "set"
	SourceGenerated = "generated"
)

// VariableProvenance describes where a variable's current value came from.
type VariableProvenance struct {
	Name       string `json:"name"`
	SourceName string `json:"source"` // e.g., "file:/app/.env", "set", "env:APP_"
	Secret     bool   `json:"secret"`
}

var secretSuffixes = []string{"_KEY", "_SECRET", "_PASSWORD", "_TOKEN"}

// Provenance returns provenance metadata for name.
func (m *EnvManager) Provenance(name string) (VariableProvenance, bool) {
	if _, ok := m.variables[name]; !ok {
		return VariableProvenance{}, false
	}

	return VariableProvenance{
		Name:       name,
		SourceName: m.sources[name],
		Secret:     m.isSecret(name),
	}, true
}

// Provenances returns provenance metadata for every variable, sorted by name.
func (m *EnvManager) Provenances() []VariableProvenance {
	names := m.Names()
	result := make([]VariableProvenance, 0, len(names))
	for _, name := range names {
		p, _ := m.Provenance(name)
		result = append(result, p)
	}
	return result
}

func (m *EnvManager) isSecret(name string) bool {
	upper := strings.ToUpper(trim(name))
	for _, s := range m.opts.secretNames {
		if strings.EqualFold(s, upper) {
			return true
		}
	}
	for _, suffix := range secretSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

func (m *EnvManager) record(name, source string) {
	m.sources[name] = source
}

func sortedKeys[V any](data map[string]V) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
