package database

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

func init() {
	sqlx.BindDriver("libsql", sqlx.QUESTION)
}

// InitDB opens the league database and applies pending migrations.
//
// An empty databaseURL opens dbName as a local SQLite file. A postgres:// URL
// connects to Postgres; any other URL is treated as a libsql (Turso) primary.
func InitDB(dbName, databaseURL, authToken string) (*sqlx.DB, error) {
	driver, dialect, dsn := resolve(dbName, databaseURL, authToken)
	if databaseURL == "" {
		log.Info("Initializing local SQLite database", "path", dbName)
	} else {
		log.Info("Initializing remote database", "driver", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// one connection keeps :memory: databases and file locks consistent
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if err = migrate(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func resolve(dbName, databaseURL, authToken string) (driver, dialect, dsn string) {
	switch {
	case databaseURL == "":
		return "sqlite3", "sqlite3", dbName
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres", "postgres", databaseURL
	default:
		dsn = databaseURL
		if authToken != "" {
			dsn += "?authToken=" + authToken
		}
		return "libsql", "sqlite3", dsn
	}
}

func migrate(db *sqlx.DB, dialect string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return err
	}
	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return err
	}
	log.Info("Database initialized successfully", "version", version)
	return nil
}
