package configs

import (
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLDSN builds the go-sql-driver DSN. Times are read and written in UTC so
// that expiry comparisons do not depend on the server's zone.
func MySQLDSN(env ENV) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = env.DBUser
	cfg.Passwd = env.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
	cfg.DBName = env.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func PostgresDSN(env ENV) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		env.DBHost, env.DBPort, env.DBUser, env.DBPassword, env.DBName, env.DBSSLMode)
}

func Dialector(env ENV) (gorm.Dialector, error) {
	switch env.DBDriver {
	case "", "mysql":
		return mysql.Open(MySQLDSN(env)), nil
	case "postgres":
		return postgres.New(postgres.Config{
			DSN:                  PostgresDSN(env),
			PreferSimpleProtocol: true,
		}), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}

func GormConfig(env ENV) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(env.DBLogLevel)),
		TranslateError: true,
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// OpenConnection connects to the configured database, retrying while it comes
// up, and applies the pool settings.
func OpenConnection(env ENV, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	retries := env.DBConnectRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		log.Info("Attempting to connect to database",
			zap.String("driver", env.DBDriver),
			zap.String("host", env.DBHost),
			zap.String("name", env.DBName),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", retries))

		db, err := gorm.Open(dialector, GormConfig(env))
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
			}
			if pingErr == nil {
				sqlDB.SetMaxOpenConns(env.DBMaxOpenConns)
				sqlDB.SetMaxIdleConns(env.DBMaxIdleConns)
				sqlDB.SetConnMaxLifetime(env.DBConnMaxLifetime)
				log.Info("Database connection successful")
				return db, nil
			}
			err = pingErr
		}

		lastErr = err
		log.Warn("Database not reachable, retrying", zap.Error(err), zap.Duration("delay", env.DBRetryDelay))
		if i < retries-1 {
			time.Sleep(env.DBRetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts: %w", retries, lastErr)
}
