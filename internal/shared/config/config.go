package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	KurrentDB KurrentDBConfig
	Auth      AuthConfig
	Tunables  TunablesConfig
}

type ServerConfig struct {
	Port           int
	Env            string
	RateLimitRPS   int
	RateLimitBurst int
}

// DatabaseConfig configures the Postgres-backed read-store substitution.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Database +
		" sslmode=" + d.SSLMode
}

// KurrentDBConfig configures the KurrentDB-backed event log substitution.
type KurrentDBConfig struct {
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

// AuthConfig configures JWT verification for caller-identity assertion
// (spec §6: the caller asserts identity, the system does not authorize).
type AuthConfig struct {
	JWTSecret string
}

// TunablesConfig configures the projection constants (spec §3/§4.4).
type TunablesConfig struct {
	CelebrityThreshold int
	MaxTimeline        int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("SERVER_PORT", 8080),
			Env:            getEnv("ENV", "development"),
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 50),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "timelinecore"),
			Password: getEnv("DB_PASSWORD", "timelinecore"),
			Database: getEnv("DB_NAME", "timelinecore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KurrentDB: KurrentDBConfig{
			Host:     getEnv("KURRENTDB_HOST", "localhost"),
			Port:     getEnvInt("KURRENTDB_PORT", 2113),
			Insecure: getEnvBool("KURRENTDB_INSECURE", true),
			Username: getEnv("KURRENTDB_USERNAME", ""),
			Password: getEnv("KURRENTDB_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
		},
		Tunables: TunablesConfig{
			CelebrityThreshold: getEnvInt("CELEBRITY_THRESHOLD", 1000),
			MaxTimeline:        getEnvInt("MAX_TIMELINE", 800),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
