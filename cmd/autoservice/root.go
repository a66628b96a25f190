package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/autoservice/internal/config"
	"github.com/ukydev/autoservice/internal/db"
)

const connectTimeout = 10 * time.Second

// app is what every subcommand shares once the root command has run.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "autoservice",
		Short:         "Auto repair shop records service",
		Long:          `Keeps owners, cars, service requests, repairs, spare parts and staff of an auto repair shop, and serves them over an HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./autoservice.yaml or /etc/autoservice/autoservice.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format text|json, overrides LOG_FORMAT")

	cmd.AddCommand(newServeCmd(a), newPurgeCmd(a), newCreateUserCmd(a))
	return cmd
}

func (a *app) init(out io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	log, err := newLogger(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

func newLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}

// openStore connects the configured backend. The memory backend keeps
// nothing between runs.
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	if a.cfg.StoreBackend == config.BackendMemory {
		a.log.Warn("Using the in-memory store, records are lost on exit")
		return db.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := db.ConnectMongo(ctx, a.cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	store := db.NewMongoStore(client, a.cfg.MongoDB)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	a.log.WithField("database", a.cfg.MongoDB).Info("Connected to MongoDB")
	return store, nil
}
