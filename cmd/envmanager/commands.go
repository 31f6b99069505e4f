package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Azhovan/envmanager"
	"github.com/Azhovan/envmanager/sourceenv"
	"github.com/Azhovan/envmanager/sourcefile"
)

func (a *app) getCmd() *cobra.Command {
	var def string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print the value of a variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !a.manager.Has(name) && !cmd.Flags().Changed("default") {
				return fmt.Errorf("variable %s is not set in %s", name, a.manager.FilePath())
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.manager.Get(name, def))
			return nil
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "value printed when the variable is not set")
	return cmd
}

func (a *app) hasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "has NAME",
		Short: "Report whether a variable is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.manager.Has(args[0]))
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME=VALUE...",
		Short: "Set variables and save the file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := make(map[string]string, len(args))
			for _, arg := range args {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q: expected NAME=VALUE", arg)
				}
				data[name] = value
			}

			a.manager.SetMany(data)
			a.warnInvalid(cmd)
			return a.save()
		},
	}
}

func (a *app) keyGenerateCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "key:generate",
		Short: "Set APP_KEY to a new random key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.manager.WithNewAppKey(); err != nil {
				return err
			}
			if show {
				fmt.Fprintln(cmd.OutOrStdout(), a.manager.Get(envmanager.AppKeyName, ""))
				return nil
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Application key set successfully.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the key instead of saving it")
	return cmd
}

func (a *app) newFromCmd() *cobra.Command {
	var withAppKey bool

	cmd := &cobra.Command{
		Use:   "new-from PATH",
		Short: "Replace the environment file with the variables of another file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
				return fmt.Errorf("template %s: %w", path, os.ErrNotExist)
			}

			if err := a.manager.NewFromPath(path); err != nil {
				return err
			}
			if withAppKey {
				if err := a.manager.WithNewAppKey(); err != nil {
					return err
				}
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s from %s\n", a.manager.FilePath(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withAppKey, "with-app-key", false, "generate APP_KEY before saving")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "List variables that would not be saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.manager.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func (a *app) dumpCmd() *cobra.Command {
	var asJSON, withSources bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every variable with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []envmanager.DumpOption
			if asJSON {
				opts = append(opts, envmanager.AsJSON())
			}
			if withSources {
				opts = append(opts, envmanager.WithSources())
			}
			return envmanager.Dump(cmd.OutOrStdout(), a.manager, opts...)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&withSources, "sources", false, "include where each value came from")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var (
		envPrefix string
		format    string
		prefix    string
	)

	cmd := &cobra.Command{
		Use:   "import [PATH]",
		Short: "Import variables from a YAML, JSON, TOML or dotenv file, or from the process environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromEnv := cmd.Flags().Changed("env")

			var src envmanager.Source
			switch {
			case fromEnv && len(args) == 0:
				src = sourceenv.New(sourceenv.Options{Prefix: envPrefix})
			case !fromEnv && len(args) == 1:
				src = sourcefile.New(args[0], sourcefile.Options{Format: format, Required: true, Prefix: prefix})
			default:
				return errors.New("import needs either a PATH or --env")
			}

			before := len(a.manager.Names())
			if err := a.manager.Import(cmd.Context(), src); err != nil {
				return err
			}
			a.warnInvalid(cmd)
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported from %s (%d new)\n", src.Name(), len(a.manager.Names())-before)
			return nil
		},
	}
	cmd.Flags().StringVar(&envPrefix, "env", "", "import process environment variables with this prefix (stripped)")
	cmd.Flags().StringVar(&format, "format", "", "file format: yaml, json, toml or dotenv (default from extension)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix added to every imported file variable")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "snapshot PATH",
		Short: "Write a JSON snapshot of the variables; {{timestamp}} in PATH is expanded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := envmanager.CreateSnapshot(a.manager, envmanager.WithExcludeNames(exclude...))
			if err != nil {
				return err
			}
			if err := envmanager.WriteSnapshot(snap, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), envmanager.ExpandPathWithTime(args[0], snap.Timestamp))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "variable names left out of the snapshot")
	return cmd
}

func (a *app) save() error {
	if err := a.manager.Save(); err != nil {
		if errors.Is(err, envmanager.ErrNothingToSave) {
			a.logger.Warn("nothing to save", zap.Error(err))
		}
		return err
	}
	return nil
}

// warnInvalid prints what Save is about to drop.
func (a *app) warnInvalid(cmd *cobra.Command) {
	if err := a.manager.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
}
