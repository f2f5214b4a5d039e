// Package cli wires configuration into a ready ledger service for the
// spendwatch subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GustavoCaso/spendwatch/internal/category"
	"github.com/GustavoCaso/spendwatch/internal/config"
	"github.com/GustavoCaso/spendwatch/internal/identifier"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/notify"
	notifyamqp "github.com/GustavoCaso/spendwatch/internal/notify/amqp"
	notifysns "github.com/GustavoCaso/spendwatch/internal/notify/sns"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/storage/dynamo"
	"github.com/GustavoCaso/spendwatch/internal/storage/jsonfile"
	"github.com/GustavoCaso/spendwatch/internal/storage/memory"
	"github.com/GustavoCaso/spendwatch/internal/storage/sqlite"
)

// Env is what every subcommand runs against. Subcommands receive it when the
// command tree is built; the root command fills it in before any of them run.
type Env struct {
	Config  *config.Config
	Logger  *logger.Logger
	Service *ledger.Service
	Matcher *category.Matcher

	closers []io.Closer
}

// Setup builds the storage backend, the notification channel and the ledger
// service described by conf. Notifications printed to the console go to out.
func (e *Env) Setup(ctx context.Context, conf *config.Config, out io.Writer) error {
	e.Config = conf
	e.Logger = logger.New(conf.Logger)

	matcher, err := category.NewMatcher(conf.Categories)
	if err != nil {
		return fmt.Errorf("failed to load category patterns: %w", err)
	}
	e.Matcher = matcher

	backend, err := newBackend(ctx, conf.Storage, e.Logger)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", conf.Storage.Backend, err)
	}
	store := storage.New(backend, e.Logger)
	e.closers = append(e.closers, store)

	channel, err := newChannel(ctx, conf.Notify, e.Logger, out)
	if err != nil {
		e.Close()
		return fmt.Errorf("failed to set up %s notifications: %w", conf.Notify.Channel, err)
	}
	if c, ok := channel.(io.Closer); ok {
		e.closers = append(e.closers, c)
	}

	ids := identifier.NewFast()
	dispatcher := notify.NewDispatcher(store, channel, ids, e.Logger)
	e.Service = ledger.New(store, dispatcher, ids, e.Logger, ledger.Config{
		WarningThreshold: conf.Budget.WarningThreshold,
		Currency:         conf.Budget.Currency,
		RecentExpenses:   conf.Budget.RecentExpenses,
	})

	e.Logger.Debug("Environment ready",
		"storage", conf.Storage.Backend,
		"notify", conf.Notify.Channel,
	)
	return nil
}

func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func newBackend(ctx context.Context, conf config.StorageConfig, logger *logger.Logger) (storage.Backend, error) {
	switch conf.Backend {
	case "memory":
		return memory.New(), nil
	case "json":
		return jsonfile.New(conf.Path)
	case "sqlite":
		if err := ensureParentDir(conf.SQLite.Source); err != nil {
			return nil, err
		}
		backend, err := sqlite.New(conf.SQLite)
		if err != nil {
			return nil, err
		}
		if err = backend.ApplyMigrations(ctx, logger); err != nil {
			backend.Close()
			return nil, err
		}
		return backend, nil
	case "dynamo":
		client, err := dynamo.NewClient(ctx, conf.Dynamo)
		if err != nil {
			return nil, err
		}
		if err = dynamo.Bootstrap(ctx, client, conf.Dynamo.Table, logger); err != nil {
			return nil, err
		}
		return dynamo.New(client, conf.Dynamo.Table), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.Backend)
	}
}

func ensureParentDir(source string) error {
	if source == ":memory:" || strings.HasPrefix(source, "file:") {
		return nil
	}
	dir := filepath.Dir(source)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o700)
}

func newChannel(ctx context.Context, conf config.NotifyConfig, logger *logger.Logger, out io.Writer) (notify.Channel, error) {
	switch conf.Channel {
	case "console":
		return notify.NewConsoleChannel(out), nil
	case "log":
		return notify.NewLogChannel(logger), nil
	case "amqp":
		c, err := notifyamqp.New(conf.AMQP, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "sns":
		c, err := notifysns.New(ctx, conf.SNS)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "none":
		return notify.Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown notification channel %q", conf.Channel)
	}
}
