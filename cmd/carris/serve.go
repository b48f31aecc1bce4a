package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/urfave/cli/v2"

	"github.com/carris-ui/carris/internal/app"
	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/restapi"
	"github.com/carris-ui/carris/internal/webui"
)

func serveCommand() *cli.Command {
	def := app.DefaultConfig()
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the arrivals board and stop index over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: def.Port, Usage: "API server port", EnvVars: []string{"CARRIS_PORT"}},
			&cli.IntFlag{Name: "rate-limit", Value: def.RateLimit, Usage: "requests per second per client IP (0 disables)", EnvVars: []string{"CARRIS_RATE_LIMIT"}},
		},
		Action: func(c *cli.Context) error {
			configure := func(cfg *app.Config) {
				cfg.Port = c.Int("port")
				cfg.RateLimit = c.Int("rate-limit")
			}
			return withApplication(c, configure, func(application *app.Application) error {
				ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return serve(ctx, application)
			})
		},
	}
}

// serve runs the HTTP server until ctx is done. A stop catalogue that cannot
// be loaded leaves the stop endpoints empty but arrivals still work.
func serve(ctx context.Context, application *app.Application) error {
	logger := application.Logger

	if _, err := application.LoadStops(ctx); err != nil {
		logging.LogError(logger, loadStopsFailed, err, slog.String("component", "server"))
	}

	api := restapi.NewRestAPI(application)
	defer api.Close()

	router := httprouter.New()
	api.SetRoutes(router)
	webui.New(application).SetWebUIRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      api.Handler(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: application.Config.RequestTimeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", application.Config.Env.String(),
			"backend", string(application.Config.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
