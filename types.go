package envmanager

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
)

// Manager is the capability exposed to code that reads or edits an environment file.
// *EnvManager is the implementation; depend on Manager to keep callers testable.
type Manager interface {
	// FilePath returns the file currently in scope.
	FilePath() string
	// SetFilePath points the manager at another file without reloading it.
	SetFilePath(path string)
	// ResetFilePath points the manager back at the root file.
	ResetFilePath()
	// FileExists reports whether a regular file exists at FilePath.
	FileExists() bool

	Has(name string) bool
	Get(name, def string) string
	Lookup(name string) (string, bool)
	Set(name, value string)
	SetMany(data map[string]string)

	// Save writes the valid variables to the root file.
	Save() error
	// NewFromPath discards all variables and reloads them from path.
	NewFromPath(path string) error
	// WithNewAppKey sets APP_KEY to a freshly generated key.
	WithNewAppKey() error
}

var _ Manager = (*EnvManager)(nil)

// Source provides variables to import into a manager (process env, YAML/JSON/TOML files, ...).
// Keys are returned as environment variable names (e.g., "DATABASE__HOST").
type Source interface {
	// Load returns variables as a flat map. Missing optional sources should return empty map.
	Load(ctx context.Context) (map[string]string, error)

	// Name identifies the source in provenance (e.g., "env", "file:config.yaml").
	Name() string
}

// Option configures an EnvManager.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	random      io.Reader
	fileMode    os.FileMode
	secretNames []string
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRandom sets the source of random bytes for WithNewAppKey. Default: crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.random = r
		}
	}
}

// WithFileMode sets the permissions used when Save creates the file. Default: 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithSecretNames marks additional variable names as secret for Dump and snapshots.
func WithSecretNames(names ...string) Option {
	return func(o *options) {
		o.secretNames = append(o.secretNames, names...)
	}
}
