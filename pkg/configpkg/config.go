// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DataDir              string        `mapstructure:"DATA_DIR"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	DefaultBaseCurrency  string        `mapstructure:"DEFAULT_BASE_CURRENCY"`
	StartingBalance      float64       `mapstructure:"STARTING_BALANCE"`
	RatesTTL             time.Duration `mapstructure:"RATES_TTL"`
	UpdateInterval       time.Duration `mapstructure:"UPDATE_INTERVAL"`
	SourceTimeout        time.Duration `mapstructure:"SOURCE_TIMEOUT"`
	SourceRetries        int           `mapstructure:"SOURCE_RETRIES"`
	SourceRetryDelay     time.Duration `mapstructure:"SOURCE_RETRY_DELAY"`
	ExchangeRateAPIKey   string        `mapstructure:"EXCHANGERATE_API_KEY"`
	TokenSymmetricKey    string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	Environement         string        `mapstructure:"GO_ENV"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	viper.SetDefault("STARTING_BALANCE", 10000.0)
	viper.SetDefault("RATES_TTL", "300s")
	viper.SetDefault("UPDATE_INTERVAL", "5m")
	viper.SetDefault("SOURCE_TIMEOUT", "30s")
	viper.SetDefault("SOURCE_RETRIES", 3)
	viper.SetDefault("SOURCE_RETRY_DELAY", "1s")
	viper.SetDefault("ACCESS_TOKEN_DURATION", "15m")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
