package envmanager

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Decode parses the staged variables of m into a new T using `env` struct tags
// (see github.com/caarlos0/env). Values are used as staged and the
// process environment is never consulted.
//
//	type App struct {
//	    Name  string `env:"APP_NAME"`
//	    Debug bool   `env:"APP_DEBUG" envDefault:"false"`
//	}
//	app, err := envmanager.Decode[App](m)
func Decode[T any](m *EnvManager) (*T, error) {
	if m == nil {
		return nil, ErrNilManager
	}

	cfg, err := env.ParseAsWithOptions[T](env.Options{
		Environment: m.Variables(),
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.FilePath(), err)
	}
	return &cfg, nil
}
