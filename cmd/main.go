// Package main runs the ledger API that registers users and moves money between them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HeitorAzevedoBelo/desafio-backend/cmd/httpserver"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/middleware"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/configpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource, dbpkg.PoolConfig{
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: config.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	if config.MigrationURL != "" {
		if err := dbpkg.Migrate(db, config.MigrationURL); err != nil {
			logger.Fatal().Err(err).Msg("cannot migrate database")
		}

		logger.Info().Str("source", config.MigrationURL).Msg("database migrated")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("LEDGER API SERVER HAS STARTED")

	srv := &http.Server{
		Addr:    config.ServerAddress,
		Handler: server,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("cannot start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	// in-flight transfer notifications
	server.Wait()

	if err := db.Close(); err != nil {
		logger.Error().Err(err).Msg("cannot close database")
	}
}
