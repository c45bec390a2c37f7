// ABOUTME: CLI command for starting the HTTP JSON API.
// ABOUTME: Serves the gin router until interrupted, then shuts down gracefully.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	Long: `Serve exercises, routines, and sessions as a JSON API.

The listen address comes from --addr, FITNESS_HTTP_ADDR, or the config file,
defaulting to 127.0.0.1:8080.

ROUTES:

  GET/POST              /exercises            (?q=, ?category=)
  GET/PATCH/DELETE      /exercises/:id
  GET/POST              /routines             (?q=)
  GET/PATCH/DELETE      /routines/:id
  PUT                   /routines/:id/exercises
  GET/POST              /sessions             (?from=, ?to=)
  GET                   /sessions/active      (?day=)
  GET/PATCH/DELETE      /sessions/:id
  POST                  /sessions/:id/finish
  POST                  /sessions/:id/sets
  PATCH/DELETE          /sessions/:id/sets/:exercise_id/:set_number`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.GetHTTPAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		gin.SetMode(gin.ReleaseMode)
		router := api.New(prov.Exercises(), prov.Routines(), prov.Sessions(), logger).Router()
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serving HTTP", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config or 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
