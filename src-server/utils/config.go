package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port       string
	sqlitePath string

	staticWebClientDir string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		sqlitePath: func() string {
			sqlitePath := os.Getenv("SQLITE_PATH")
			if sqlitePath == "" {
				sqlitePath = "./sqlite.db"
			}
			slog.Debug("env", "SQLITE_PATH", sqlitePath)
			return sqlitePath
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, using ./static-web-client")
				staticWebClientDir = "./static-web-client"
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "dir", staticWebClientDir)
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),

		metricCollectionInterval: func() time.Duration {
			intervalStr := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if intervalStr == "" {
				intervalStr = "1m"
			}
			duration, err := time.ParseDuration(intervalStr)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", intervalStr, "duration", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get SQLITE_PATH env, default to ./sqlite.db
func (c *Config) GetSqlitePath() string {
	return c.sqlitePath
}

// Get STATIC_WEB_CLIENT_DIR env, default to ./static-web-client
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get METRIC_COLLECTION_INTERVAL env, default to 1m
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
