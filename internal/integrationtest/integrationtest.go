// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/HeitorAzevedoBelo/desafio-backend/cmd/httpserver"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/middleware"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/configpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"

	_ "github.com/lib/pq"
)

// Paths are relative to a package two levels below the module root.
const (
	configPath   = "../../configs"
	migrationURL = "file://../../configs/db/migration"
)

// LoadConfig loads the test configuration.
func LoadConfig(t *testing.T) configpkg.Config {
	t.Helper()

	config, err := configpkg.Load(configPath)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, configPath, err)
	}

	return config
}

// SetupServer returns test server that cleans up database after each integration test.
//
// Options may adjust the loaded config, e.g. to point the external services at test doubles.
func SetupServer(t *testing.T, opts ...func(*configpkg.Config)) *httpserver.Server {
	t.Helper()

	config := LoadConfig(t)
	for _, opt := range opts {
		opt(&config)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush empties all application tables without dropping them.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables sql.NullString

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name <> 'schema_migrations';`

	if err := db.QueryRow(query).Scan(&tables); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if !tables.Valid {
		return
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables.String + ` RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

func open(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source, dbpkg.PoolConfig{})
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	if err := dbpkg.Migrate(db, migrationURL); err != nil {
		t.Fatalf("dbpkg.Migrate(db, %q) failed: %v", migrationURL, err)
	}

	return db
}

// SetupDB sets up a migrated connection with database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db := open(t, driver, source)

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	db := open(t, driver, source)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}
