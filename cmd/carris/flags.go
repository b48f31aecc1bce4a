package main

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/carris-ui/carris/internal/app"
	"github.com/carris-ui/carris/internal/appconf"
	"github.com/carris-ui/carris/internal/carris"
	"github.com/carris-ui/carris/internal/logging"
)

func globalFlags() []cli.Flag {
	def := app.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Carris Metropolitana API base URL",
			Value:   carris.DefaultBaseURL,
			EnvVars: []string{"CARRIS_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "backend",
			Usage:   "API client backend (std|embedded)",
			Value:   string(def.Backend),
			EnvVars: []string{"CARRIS_BACKEND"},
		},
		&cli.IntFlag{
			Name:    "rx-buffer",
			Usage:   "embedded backend: receive buffer size in bytes",
			Value:   def.RxBufferSize,
			EnvVars: []string{"CARRIS_RX_BUFFER"},
		},
		&cli.IntFlag{
			Name:    "body-buffer",
			Usage:   "embedded backend: response body buffer size in bytes",
			Value:   def.BodyBufferSize,
			EnvVars: []string{"CARRIS_BODY_BUFFER"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "timeout for live arrivals requests (0 disables)",
			Value:   def.RequestTimeout,
			EnvVars: []string{"CARRIS_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "Environment (development|test|production)",
			Value:   def.Env.String(),
			EnvVars: []string{"CARRIS_ENV"},
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "directory holding all_stops.json (default: XDG cache home)",
			EnvVars: []string{"CARRIS_CACHE_DIR"},
		},
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "directory holding config.toml (default: XDG config home)",
			EnvVars: []string{"CARRIS_CONFIG_DIR"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "SQLite stop index path",
			Value:   def.DBPath,
			EnvVars: []string{"CARRIS_DB"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log format (text|json)",
			Value:   "text",
			EnvVars: []string{"CARRIS_LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "verbose logging",
			EnvVars: []string{"CARRIS_DEBUG"},
		},
	}
}

func configFromContext(c *cli.Context) (app.Config, error) {
	cfg := app.DefaultConfig()

	env, err := appconf.EnvFlagToEnvironment(c.String("env"))
	if err != nil {
		return cfg, err
	}
	backend, err := app.ParseBackend(c.String("backend"))
	if err != nil {
		return cfg, err
	}

	cfg.Env = env
	cfg.Backend = backend
	cfg.BaseURL = c.String("base-url")
	cfg.RxBufferSize = c.Int("rx-buffer")
	cfg.BodyBufferSize = c.Int("body-buffer")
	cfg.RequestTimeout = c.Duration("timeout")
	cfg.CacheDir = c.String("cache-dir")
	cfg.ConfigDir = c.String("config-dir")
	cfg.DBPath = c.String("db")
	cfg.Verbose = c.Bool("debug")

	return cfg, nil
}

func loggerFromContext(c *cli.Context) (*slog.Logger, error) {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	var w io.Writer = c.App.ErrWriter
	return logging.NewLogger(w, level, c.String("log-format"))
}

// withApplication builds the Application from the global flags, lets
// configure adjust the config first, runs fn and closes the Application.
func withApplication(c *cli.Context, configure func(*app.Config), fn func(*app.Application) error) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if configure != nil {
		configure(&cfg)
	}

	logger, err := loggerFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	slog.SetDefault(logger)

	application, err := app.New(cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer logging.SafeCloseWithLogging(application, logger, "application")

	return fn(application)
}
