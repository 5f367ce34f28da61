package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Security   SecurityConfig
	Fees       FeeConfig
	Rates      RateConfig
	Widget     WidgetConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BlockchainConfig holds provider settings. RPCURL has no default: the
// service refuses to start without one.
type BlockchainConfig struct {
	RPCURL         string
	RequestTimeout time.Duration
	BlockWindow    uint64
	// TreasuryAddress receives on-chain settlement for bank and
	// mobile-money payouts, which leave the chain at the treasury.
	TreasuryAddress string
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// FeeConfig holds the transfer fee policy as fractional rates of the
// source amount.
type FeeConfig struct {
	NetworkRate string
	ServiceRate string
}

// RateConfig holds the exchange-rate table file and refresh cadence.
type RateConfig struct {
	TablePath       string
	RefreshInterval time.Duration
}

// WidgetConfig carries the third-party deposit widget settings handed to
// the front-end. The widget itself runs client-side.
type WidgetConfig struct {
	PublicKey   string
	Environment string
}

// ErrMissingRPCURL aborts startup when no blockchain provider is configured.
var ErrMissingRPCURL = errors.New("BLOCKCHAIN_RPC_URL is required")

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "remittease"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:          os.Getenv("BLOCKCHAIN_RPC_URL"),
			RequestTimeout:  getEnvAsDuration("BLOCKCHAIN_REQUEST_TIMEOUT", 15*time.Second),
			BlockWindow:     uint64(getEnvAsInt("BLOCKCHAIN_HISTORY_BLOCKS", 250)),
			TreasuryAddress: getEnv("PAYOUT_TREASURY_ADDRESS", ""),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Fees: FeeConfig{
			NetworkRate: getEnv("FEE_NETWORK_RATE", "0.001"),
			ServiceRate: getEnv("FEE_SERVICE_RATE", "0.005"),
		},
		Rates: RateConfig{
			TablePath:       getEnv("RATE_TABLE_PATH", "configs/rates.yaml"),
			RefreshInterval: getEnvAsDuration("RATE_REFRESH_INTERVAL", 5*time.Minute),
		},
		Widget: WidgetConfig{
			PublicKey:   getEnv("DEPOSIT_WIDGET_PUBLIC_KEY", ""),
			Environment: getEnv("DEPOSIT_WIDGET_ENV", "sandbox"),
		},
	}

	if cfg.Blockchain.RPCURL == "" {
		return nil, ErrMissingRPCURL
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
