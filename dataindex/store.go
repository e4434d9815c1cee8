package dataindex

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects and migrates every data index table.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := OpenQueryDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenQueryDB connects without touching the schema.
// Use it against a shared archive database owned by another deployment.
func OpenQueryDB(cfg DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
}

func dialectorFor(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		if dsn == "" {
			return nil, ErrConfig.New("database.path is required for sqlite")
		}
		return sqlite.Open(sqliteDSN(dsn)), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, ErrConfig.New("database.dsn is required for postgres")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, ErrConfig.New("unknown database driver %q", cfg.Driver)
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off per
// connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
