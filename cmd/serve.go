package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/server"
)

var serve server.Config

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the audit HTTP API",
	Long: `Start an HTTP server exposing the audit as a POST /audit endpoint.
Requests are rate limited per client IP and the number of concurrent
audits is capped so one caller cannot starve the rest.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serve.Addr, "addr", ":8080", "listen address")
	f.IntVar(&serve.RatePerMinute, "rate", 30, "requests per minute per client IP")
	f.Int64Var(&serve.MaxConcurrent, "max-concurrent", 4, "audits running at once")
	f.IntVar(&serve.MaxBatch, "max-batch", 500, "URLs per request")
	f.IntVar(&serve.MaxWorkers, "max-workers", 50, "worker ceiling a request may ask for")
	f.DurationVar(&serve.MaxTimeout, "max-timeout", 30*time.Second, "per-request timeout ceiling")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(serve)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("listening", "addr", serve.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
