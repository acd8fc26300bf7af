package db

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"repairshop-backend/config"
	"repairshop-backend/internal/model"
)

// Init opens the database, configures the pool and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{entry: log.WithField("component", "gorm")}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		// unique and foreign key violations come back as gorm.ErrDuplicatedKey
		// and gorm.ErrForeignKeyViolated on both dialects
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.WithField("driver", driverName(cfg)).Info("database initialization complete")
	return db, nil
}

// gormWriter sends gorm's log lines to logrus. Lines carrying an error or a
// slow-query marker are warnings; constraint violations land here too and are
// handled by the store, so they are not errors. Plain SQL traces, enabled with
// log_sql, are debug output.
type gormWriter struct {
	entry *log.Entry
}

func (w gormWriter) Printf(format string, args ...any) {
	w.entry.Logf(gormLineLevel(args), format, args...)
}

func gormLineLevel(args []any) log.Level {
	for _, a := range args {
		switch v := a.(type) {
		case error:
			return log.WarnLevel
		case string:
			if strings.HasPrefix(v, "SLOW SQL") {
				return log.WarnLevel
			}
		}
	}
	return log.DebugLevel
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	log.Debug("running database migrations")
	if err := db.AutoMigrate(
		&model.Client{},
		&model.Device{},
		&model.Repair{},
		&model.Invoice{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// Dialector picks the gorm dialect for cfg.
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case "sqlite":
		return sqlite.Open(SQLiteDSN(cfg.DSN)), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func driverName(cfg *config.DatabaseConfig) string {
	if cfg.Driver != "" {
		return cfg.Driver
	}
	return config.DriverFromDSN(cfg.DSN)
}

// SQLiteDSN turns on foreign key enforcement, which sqlite leaves off by
// default, so the ON DELETE rules of the schema apply.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
