package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Azhovan/envmanager"
)

// app carries state shared by every subcommand. The manager is built once per
// invocation, after flags and environment defaults are resolved.
type app struct {
	environ   map[string]string
	newLogger loggerFactory

	file   string
	cipher string

	logger  *zap.Logger
	manager *envmanager.EnvManager
}

func newRootCmd(environ map[string]string, newLogger loggerFactory) *cobra.Command {
	a := &app{
		environ:   environ,
		newLogger: newLogger,
	}

	root := &cobra.Command{
		Use:               "envmanager",
		Short:             "Read and edit .env files",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", "", "environment file (default $ENVMANAGER_FILE or .env)")
	flags.StringVar(&a.cipher, "cipher", "", "cipher used to size application keys (default $ENVMANAGER_CIPHER or AES-256-CBC)")

	root.AddCommand(
		a.getCmd(),
		a.hasCmd(),
		a.setCmd(),
		a.keyGenerateCmd(),
		a.newFromCmd(),
		a.validateCmd(),
		a.dumpCmd(),
		a.importCmd(),
		a.snapshotCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.environ)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("file") {
		a.file = cfg.File
	}
	if !cmd.Flags().Changed("cipher") {
		a.cipher = cfg.Cipher
	}

	logger, err := a.newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("file", a.file))

	m, err := envmanager.New(a.file, a.cipher, envmanager.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.manager = m
	return nil
}
