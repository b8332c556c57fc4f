package gorm

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB struct
type DB struct {
	Postgres *gorm.DB
}

// Options struct - PostgreSQL connection and pool settings
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the libpq connection string
func (o Options) DSN() string {
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v connect_timeout=10",
		o.Host, o.Username, o.Password, o.DBName, o.Port, o.sslMode())
}

// String returns the connection string with the password masked
func (o Options) String() string {
	return fmt.Sprintf("host=%v user=%v password=*** dbname=%v port=%v sslmode=%v",
		o.Host, o.Username, o.DBName, o.Port, o.sslMode())
}

func (o Options) sslMode() string {
	if o.SSLMode {
		return "require"
	}
	return "disable"
}

// ConnectToPostgreSQL func
func ConnectToPostgreSQL(opts Options) (*DB, error) {
	if opts.Host == "" && opts.Port == "" && opts.DBName == "" {
		return nil, errors.New("cannot estabished the connection")
	}

	pg, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
		DryRun: false,
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	sqlDB, err := pg.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	logrus.Info("Connected to postgres: ", opts)
	return &DB{Postgres: pg}, nil
}

// DisconnectPostgres func
func DisconnectPostgres(db *gorm.DB) {
	sqlDb, err := db.DB()
	if err != nil {
		logrus.Error(err)
		return
	}
	err = sqlDb.Close()
	if err != nil {
		logrus.Error(err)
	}
	logrus.Println("Connected with postgres has closed")
}
