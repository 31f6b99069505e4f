// Package sourcefile imports variables from YAML, JSON, TOML or dotenv files.
//
// Format is auto-detected from the file name (.yaml, .json, .toml, .env, .env.*).
// Nested keys become double-underscore names: database.host → DATABASE__HOST.
// Dotenv files are parsed with variable expansion (${VAR}).
//
// Example:
//
//	source := sourcefile.New("defaults.yaml", sourcefile.Options{Required: true})
//	err := manager.Import(ctx, source)
package sourcefile
