// Package envmanager reads, edits and writes a single .env file.
//
// Quick Start:
//
//	m, err := envmanager.New("/app/.env", "AES-256-CBC")
//	if err != nil {
//	    return err
//	}
//	m.Set("APP_NAME", "Example")
//	if err := m.WithNewAppKey(); err != nil {
//	    return err
//	}
//	err = m.Save()
//
// File format: one KEY=value line per variable, sorted, newline terminated.
// Keys must match ^[A-Z][A-Z0-9_]+$; values with anything other than ASCII
// letters and digits are double-quoted with embedded quotes escaped.
//
// Set never validates. Save trims names and values and silently drops names
// that are not valid keys; use Validate to see what would be dropped.
// Save always writes to the root file passed to New, even after SetFilePath
// or NewFromPath.
//
// See example_test.go for detailed usage.
package envmanager
