package database

import (
	"fmt"
	"time"

	"meddata/internal/config"
	"meddata/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. DSNs of the form sqlite://path
// select sqlite; anything else goes to postgres. gorm output goes through log.
func Open(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.IsSQLite() {
		dialector = sqlite.Open(cfg.SQLitePath())
	} else {
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.IsSQLite() {
		// One connection keeps shared-cache sqlite from reporting table locks.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	log.WithField("sqlite", cfg.IsSQLite()).Info("Database connection established")
	return db, nil
}

// newGormLogger writes gorm's SQL, slow-query and error lines into log. Lookups
// that find nothing are expected and not reported.
func newGormLogger(log *logrus.Logger) logger.Interface {
	level, writer := logger.Warn, gormWriter(log.Warnf)
	switch {
	case log.IsLevelEnabled(logrus.DebugLevel):
		level, writer = logger.Info, gormWriter(log.Debugf)
	case !log.IsLevelEnabled(logrus.WarnLevel):
		level = logger.Silent
	}
	return logger.New(writer, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter func(format string, args ...interface{})

func (w gormWriter) Printf(format string, args ...interface{}) { w(format, args...) }

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Allergy{},
		&models.ChronicDisease{},
		&models.Profile{},
		&models.TreatmentCourse{},
		&models.Record{},
		&models.Complaint{},
		&models.VitalsRecord{},
		&models.Reminder{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
