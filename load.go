package envmanager

import (
	"gopkg.in/ini.v1"
)

// iniOptions makes ini.v1 behave as a raw KEY=value scanner: "=" is the only
// delimiter, values are never interpolated or continued, inline comments need
// a leading space, and `\"` inside double quotes is unescaped so that files
// written by Save read back to the same values.
var iniOptions = ini.LoadOptions{
	KeyValueDelimiters:        "=",
	IgnoreContinuation:        true,
	SpaceBeforeInlineComment:  true,
	UnescapeValueDoubleQuotes: true,
}

// parseFile reads path and returns its variables. Sections are flattened;
// later keys override earlier ones.
func parseFile(path string) (map[string]string, []string, error) {
	f, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return nil, nil, err
	}

	vars := make(map[string]string)
	var order []string
	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			name := key.Name()
			if _, seen := vars[name]; !seen {
				order = append(order, name)
			}
			// Value, not String: String expands %(name)s references.
			vars[name] = key.Value()
		}
	}

	return vars, order, nil
}
