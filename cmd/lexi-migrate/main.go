package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gamma-omg/lexi-cards/internal/pkg/dbmigrate"
	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
	"github.com/gamma-omg/lexi-cards/internal/pkg/logging"
	"github.com/spf13/cobra"
)

type options struct {
	dsn    string
	folder string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "lexi-migrate",
		Short:         "Apply or roll back the SQL migrations of a lexi service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.dsn == "" {
				opts.dsn = os.Getenv("DB_DSN")
			}
			if opts.dsn == "" {
				return fmt.Errorf("--dsn or DB_DSN is required")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "postgres connection URL (defaults to $DB_DSN)")
	root.PersistentFlags().StringVar(&opts.folder, "folder", "db/migrations", "folder with migration files")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(opts, func(mg *dbmigrate.Migrator) error {
					if err := mg.Up(); err != nil {
						return err
					}
					return printVersion(cmd, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(opts, func(mg *dbmigrate.Migrator) error {
					if err := mg.Down(); err != nil {
						return err
					}
					return printVersion(cmd, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(opts, func(mg *dbmigrate.Migrator) error {
					return printVersion(cmd, mg)
				})
			},
		},
	)

	return root
}

func withMigrator(opts *options, fn func(mg *dbmigrate.Migrator) error) error {
	mg, err := dbmigrate.New(opts.dsn, opts.folder)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			slog.Warn("close migrator", "error", err)
		}
	}()

	return fn(mg)
}

func printVersion(cmd *cobra.Command, mg *dbmigrate.Migrator) error {
	version, dirty, ok, err := mg.Version()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !ok:
		_, err = fmt.Fprintln(out, "no migrations applied")
	case dirty:
		_, err = fmt.Fprintf(out, "version %d (dirty)\n", version)
	default:
		_, err = fmt.Fprintf(out, "version %d\n", version)
	}

	return err
}

func main() {
	if err := env.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stderr, logging.Config{
		Format: env.String("LOG_FORMAT", "text"),
		Level:  env.String("LOG_LEVEL", "warn"),
	}))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
