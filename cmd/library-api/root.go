package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shelfkeep/library-api/internal/infrastructure/db/postgres"
	"github.com/shelfkeep/library-api/internal/pkg/config"
	"github.com/shelfkeep/library-api/pkg/logger"
)

const serviceName = "library-api"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Library book registry HTTP API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap loads configuration and initialises the logger, the shared
// prelude of every subcommand.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   logger.LevelForEnv(cfg.Env, cfg.LogLevel),
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	return cfg, log, nil
}

func postgresConfig(c config.PostgresConfig) postgres.Config {
	return postgres.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Database:        c.Database,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
	}
}
