package normalize

import (
	"strings"
)

// ToEnvKey converts a dot-separated configuration path to an environment variable name.
// Dots become double underscores (level separators), dashes and spaces become single
// underscores, and the result is upper-cased.
// Examples:
//   - "database.host" → "DATABASE__HOST"
//   - "db_max_connections" → "DB_MAX_CONNECTIONS"
//   - "api.rate-limit" → "API__RATE_LIMIT"
func ToEnvKey(path string) string {
	replacer := strings.NewReplacer(".", "__", "-", "_", " ", "_")
	return strings.ToUpper(replacer.Replace(path))
}

// ApplyPrefix prepends prefix to an environment variable name.
// An underscore is inserted unless prefix already ends with one.
// Examples:
//   - ApplyPrefix("APP_", "NAME") → "APP_NAME"
//   - ApplyPrefix("APP", "NAME") → "APP_NAME"
//   - ApplyPrefix("", "NAME") → "NAME"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	if strings.HasSuffix(prefix, "_") {
		return prefix + key
	}
	return prefix + "_" + key
}

// CutPrefix removes prefix from key and reports whether it was present.
// When caseSensitive is false, APP_ matches app_, App_, etc.
func CutPrefix(key, prefix string, caseSensitive bool) (string, bool) {
	if prefix == "" {
		return key, true
	}

	if caseSensitive {
		return strings.CutPrefix(key, prefix)
	}

	if len(key) < len(prefix) || !strings.EqualFold(key[:len(prefix)], prefix) {
		return key, false
	}
	return key[len(prefix):], true
}
