// Command migrate applies the SQL migrations under db/migrations.
//
// Usage: migrate [up|down|steps N|force V|version]
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/config"
	"gstdesk/internal/logging"
)

const (
	sourceURL = "file://db/migrations"
	usage     = "usage: migrate [up|down|steps N|force V|version]"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	log := logging.New(cfg.Log)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	m, err := migrate.New(sourceURL, cfg.DB.DSN())
	if err != nil {
		log.WithError(err).Fatal("creating migrate instance")
	}
	defer func() { _, _ = m.Close() }()

	if err := run(m, os.Args[1:], log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
}

func run(m *migrate.Migrate, args []string, log *logrus.Logger) error {
	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return err
		}
	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return err
		}
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return err
		}
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.WithFields(logrus.Fields{"command": args[0], "version": version, "dirty": dirty}).Info("done")
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a number argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s argument: %w", args[0], err)
	}
	return n, nil
}
