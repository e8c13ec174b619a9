// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file and environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/webindex/webindex/internal/logging"
)

// InitConfig initializes the application's configuration using Viper. It is
// designed to be called once at startup, before any component reads
// configuration. When cfgFile is non-empty it takes precedence over the
// search paths.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/webindex/")
		viper.AddConfigPath("$HOME/.webindex")
	}

	viper.SetDefault("crawler.user_agent", "webindex/1.0 (+https://github.com/webindex/webindex)")
	viper.SetDefault("crawler.seed_urls", []string{})
	viper.SetDefault("crawler.max_depth", 2)
	viper.SetDefault("crawler.concurrency", 8)
	viper.SetDefault("crawler.request_timeout", "10s")
	viper.SetDefault("crawler.stop_words", []string{})

	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_conns", 8)
	viper.SetDefault("database.min_conns", 0)
	viper.SetDefault("database.max_conn_lifetime", "1h")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("log.development", false)

	viper.SetEnvPrefix("WEBINDEX") // e.g., WEBINDEX_DATABASE_DSN=postgres://...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
