// Package servecmder provides the serve command for running the switchboard
// API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/api"
	"github.com/switchboardco/switchboard/pkg/config"
	"github.com/switchboardco/switchboard/pkg/engine"
	"github.com/switchboardco/switchboard/pkg/eventstream"
	"github.com/switchboardco/switchboard/pkg/eventstream/kafka"
	"github.com/switchboardco/switchboard/pkg/eventstream/nop"
	"github.com/switchboardco/switchboard/pkg/handler"
	"github.com/switchboardco/switchboard/pkg/logger"
	"github.com/switchboardco/switchboard/pkg/provider/openai"
	"github.com/switchboardco/switchboard/pkg/stats"
	"github.com/switchboardco/switchboard/pkg/storage"
	"github.com/switchboardco/switchboard/pkg/storage/inmemory"
	"github.com/switchboardco/switchboard/pkg/storage/postgres"
	"github.com/switchboardco/switchboard/pkg/storage/sqlite"
)

type serveCommander struct {
	listen        string
	storageDriver string
	sqlitePath    string
	postgresURL   string
	providerURL   string
	model         string
	contextWindow int
	debug         bool

	v      *viper.Viper
	logger *zap.Logger
}

const serveLongDesc string = `Run the switchboard API server.

The server classifies every incoming query as arithmetic or conversational,
routes it to the calculator or the model provider, records the exchange in
the session store, and serves history and statistics endpoints.

Storage drivers: memory (default), sqlite, postgres.

Examples:
  switchboard serve
  switchboard serve --storage sqlite --sqlite ./switchboard.db
  switchboard serve --listen :9000 --model gpt-4o`

const serveShortDesc string = "Run the switchboard API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagAPIListen,
				config.FlagStorageDriver,
				config.FlagSQLite,
				config.FlagPostgres,
				config.FlagProviderURL,
				config.FlagProviderModel,
				config.FlagContextWindow,
			})

			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagStorageDriver, &cmder.storageDriver)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagProviderURL, &cmder.providerURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagProviderModel, &cmder.model)
	config.AddIntFlag(cmd, config.Flags, config.FlagContextWindow, &cmder.contextWindow)

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close()

	providerClient := openai.New(openai.Config{
		BaseURL:      c.v.GetString("provider.base_url"),
		APIKey:       c.v.GetString("provider.api_key"),
		Model:        c.v.GetString("provider.model"),
		Temperature:  c.v.GetFloat64("provider.temperature"),
		MaxTokens:    c.v.GetInt("provider.max_tokens"),
		SystemPrompt: c.v.GetString("provider.system_prompt"),
	})

	callTimeout := time.Duration(c.v.GetInt("provider.call_timeout_seconds")) * time.Second

	calc := handler.NewCalculator()
	conv := handler.NewConversation(providerClient, c.logger,
		handler.WithContextWindow(c.v.GetInt("engine.context_window")),
		handler.WithCallTimeout(callTimeout),
	)

	events, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer events.Close()

	aggregator := stats.NewAggregator(store,
		stats.WithRecentLimit(c.v.GetInt("engine.recent_sessions")),
	)

	eng := engine.New(store, calc, conv, events, aggregator, c.logger)

	apiConfig := api.Config{
		ListenAddr: c.v.GetString("api.listen"),
	}
	server := api.NewServer(apiConfig, eng, c.logger)

	c.logger.Info("starting API server",
		zap.String("listen", apiConfig.ListenAddr),
		zap.String("storage", store.Name()),
		zap.String("model", c.v.GetString("provider.model")),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *serveCommander) newStore() (storage.Store, error) {
	driver := c.v.GetString("storage.driver")

	switch driver {
	case "sqlite":
		path := c.v.GetString("storage.sqlite_path")
		if path == "" {
			return nil, fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
		store, err := sqlite.NewDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", path))
		return store, nil

	case "postgres":
		url := c.v.GetString("storage.postgres_url")
		if url == "" {
			return nil, fmt.Errorf("storage.postgres_url is required for the postgres driver")
		}
		store, err := postgres.NewDriver(context.Background(), url)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return store, nil

	case "", "memory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %q (expected memory, sqlite, or postgres)", driver)
	}
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	switch provider := c.v.GetString("events.provider"); provider {
	case "kafka":
		brokers := c.v.GetStringSlice("events.brokers")
		if len(brokers) == 0 {
			return nil, fmt.Errorf("events.brokers is required for the kafka publisher")
		}
		topic := c.v.GetString("events.topic")
		c.logger.Info("publishing turn events to Kafka",
			zap.Strings("brokers", brokers),
			zap.String("topic", topic),
		)
		return kafka.NewPublisher(kafka.Config{
			Brokers: brokers,
			Topic:   topic,
		}), nil

	case "", "none":
		return nop.NewPublisher(), nil

	default:
		return nil, fmt.Errorf("unknown events provider: %q (expected none or kafka)", provider)
	}
}
