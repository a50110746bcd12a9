package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver          string
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnectRetries  int
	DBRetryDelay      time.Duration
	DBLogLevel        string
	Port              string
	APP_ENV           string
	ServiceName       string
	LogLevel          string
	MetricsPrefix     string
	SaleMaxAttempts   int
	CurrencySymbol    string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "afronectar"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBSSLMode:         getEnv("DB_SSL_MODE", "disable"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnectRetries:  getEnvAsInt("DB_CONNECT_RETRIES", 10),
		DBRetryDelay:      getEnvAsDuration("DB_RETRY_DELAY", 5*time.Second),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		Port:              getEnv("APP_PORT", ":8080"),
		APP_ENV:           getEnv("APP_ENV", "development"),
		ServiceName:       getEnv("SERVICE_NAME", "afronectar"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		MetricsPrefix:     getEnv("METRICS_PREFIX", "afronectar"),
		SaleMaxAttempts:   getEnvAsInt("SALE_MAX_ATTEMPTS", 5),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "$"),
	}

}

var LoadENV = LoadEnv()

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
