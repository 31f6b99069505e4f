package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/envmanager"
	"github.com/Azhovan/envmanager/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped unless KeepPrefix is set).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	CaseSensitive bool

	// KeepPrefix keeps the prefix in the returned names (default: false).
	KeepPrefix bool
}

type envSource struct {
	opts    Options
	environ func() []string
}

// New creates a source that reads the process environment.
func New(opts Options) envmanager.Source {
	return &envSource{opts: opts, environ: os.Environ}
}

// Load scans environment variables and filters them by prefix. Names are
// returned as they appear in the environment, minus the prefix.
func (e *envSource) Load(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)

	for _, env := range e.environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		stripped, hasPrefix := normalize.CutPrefix(key, e.opts.Prefix, e.opts.CaseSensitive)
		if !hasPrefix {
			continue
		}
		if !e.opts.KeepPrefix {
			key = stripped
		}

		if key == "" {
			continue
		}

		result[key] = value
	}

	return result, nil
}

// Name returns "env" or "env:<prefix>".
func (e *envSource) Name() string {
	if e.opts.Prefix == "" {
		return "env"
	}
	return "env:" + e.opts.Prefix
}
