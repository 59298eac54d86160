package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/msp993/backlog-zenith-project/internal/config"
	"github.com/msp993/backlog-zenith-project/internal/logger"
	"go.uber.org/zap"
)

// migrateLogger forwards golang-migrate progress output to zap.
type migrateLogger struct {
	log     *zap.SugaredLogger
	verbose bool
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.verbose
}

type options struct {
	path    string
	command string
	steps   int
	version int
	verbose bool
}

func main() {
	var opts options

	flag.StringVar(&opts.path, "path", "./migrations", "Path to migrations files")
	flag.StringVar(&opts.command, "command", "up", "Migrations command: up, down, steps, force or version")
	flag.IntVar(&opts.steps, "n", 1, "Number of migrations for the steps command, negative to revert")
	flag.IntVar(&opts.version, "v", -1, "Version for the force command")
	flag.BoolVar(&opts.verbose, "verbose", false, "Log every applied migration")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg.PostgresCfg.DSN(), opts, log); err != nil {
		log.Error("migration failed", zap.String("command", opts.command), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(dsn string, opts options, log *zap.Logger) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", opts.path), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log: log.Sugar(), verbose: opts.verbose}

	switch opts.command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(opts.steps)
	case "force":
		if opts.version < 0 {
			return errors.New("force requires -v")
		}
		err = m.Force(opts.version)
	case "version":
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migrations applied", zap.String("command", opts.command))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	log.Info("migrations done",
		zap.String("command", opts.command),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)

	return nil
}
