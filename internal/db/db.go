package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mintly/mintly-api/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Open connects to the database selected by conf.Driver.
func Open(conf *config.PostgresConfig) (*gorm.DB, error) {
	switch conf.Driver {
	case "", DriverPostgres:
		return OpenPostgres(conf)
	case DriverSQLite:
		return OpenSQLite(conf.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresURL(conf.DSN(), conf)
}

// OpenPostgresURL connects to url, e.g. DATABASE_URL, with the pool settings
// of conf.
func OpenPostgresURL(url string, conf *config.PostgresConfig) (*gorm.DB, error) {
	db, err := OpenPostgresWithURL(url)
	if err != nil {
		return nil, err
	}

	if err = configurePool(db, conf); err != nil {
		return nil, err
	}

	return db, nil
}

func configurePool(db *gorm.DB, conf *config.PostgresConfig) error {
	if conf == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db.DB -> %w", err)
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	if conf.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)
	}

	return nil
}

func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

// OpenSQLite opens an embedded database. SQLite has a single writer, so the
// pool is pinned to one connection and ledger transactions queue on it.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys -> %w", err)
	}

	return db, nil
}
