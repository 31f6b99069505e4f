// Command envmanager reads and edits .env files from the command line.
//
//	envmanager get APP_NAME
//	envmanager set APP_NAME=Example APP_LOCALE=ru
//	envmanager new-from .env.example --with-app-key
//	envmanager dump --sources
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/caarlos0/env/v11"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := newRootCmd(env.ToMap(os.Environ()), buildLogger)
	err := cmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		os.Exit(1)
	}
}
