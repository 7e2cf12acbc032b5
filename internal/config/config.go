// Package config loads runtime configuration from the environment, with
// optional .env overrides for local development. Values here are the
// fallback layer; a saved connection profile can override the PingOne
// credentials per invocation.
package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pingone-tools/p1admin/internal/apilog"
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first call.
func Use() *Configuration {
	return singleton()
}

// LoadEnv loads whichever of the given dotenv files exist and reports how
// many were found. Missing files are not an error.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

type PingOneOptions struct {
	APIBase       string        `env:"P1_API_BASE" envDefault:"https://api.pingone.com/v1"`
	AuthBase      string        `env:"P1_AUTH_BASE" envDefault:"https://auth.pingone.com"`
	EnvironmentID string        `env:"P1_ENVIRONMENT_ID"`
	ClientID      string        `env:"P1_CLIENT_ID"`
	ClientSecret  string        `env:"P1_CLIENT_SECRET"`
	Timeout       time.Duration `env:"P1_REQUEST_TIMEOUT" envDefault:"10s"`
	PageLimit     int           `env:"P1_PAGE_LIMIT" envDefault:"100"`
}

type LoggingOptions struct {
	Dir         string `env:"P1_LOG_DIR" envDefault:"."`
	APICalls    bool   `env:"P1_API_LOGGING" envDefault:"false"`
	Credentials bool   `env:"P1_CREDENTIALS_LOGGING" envDefault:"true"`
	LiveCapture bool   `env:"P1_LIVE_CAPTURE" envDefault:"false"`
}

type KeeperOptions struct {
	ConfigBase64 string `env:"KSM_CONFIG_BASE64"`
	RecordUID    string `env:"KSM_RECORD_UID"`
}

type Configuration struct {
	PingOne PingOneOptions
	Logging LoggingOptions
	Keeper  KeeperOptions

	ProfilesPath string `env:"P1_PROFILES_PATH" envDefault:"profiles.json"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"error"`

	logger *logrus.Logger
}

// Logger returns the process logger, configured at LogLevel and writing
// to stderr.
func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// LogOptions maps the logging section onto recorder options.
func (c *Configuration) LogOptions() apilog.Options {
	return apilog.Options{
		Dir:         c.Logging.Dir,
		APILogging:  c.Logging.APICalls,
		Credentials: c.Logging.Credentials,
		LiveCapture: c.Logging.LiveCapture,
	}
}

func (c *Configuration) load(envFiles []string) error {
	if _, err := LoadEnv(envFiles); err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	c.PingOne.APIBase = strings.TrimRight(c.PingOne.APIBase, "/")
	c.PingOne.AuthBase = strings.TrimRight(c.PingOne.AuthBase, "/")
	if c.PingOne.PageLimit <= 0 {
		c.PingOne.PageLimit = 100
	}

	c.logger = logrus.New()
	c.logger.SetOutput(os.Stderr)
	c.logger.SetLevel(c.LogrusLogLevel())
	return nil
}
