package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devaloi/hypechat/internal/config"
	"github.com/devaloi/hypechat/internal/handler"
	"github.com/devaloi/hypechat/internal/hub"
	"github.com/devaloi/hypechat/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the message log server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "listen port (overrides PORT)")
	serveCmd.Flags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}

	logger := newLogger(cfg.Level())

	h := hub.New(logger, cfg.MaxConversations)
	go h.Run()
	defer h.Stop()

	mux := handler.NewMux(h, cfg.SendBuffer, logger)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.Logging(logger, middleware.CORS(mux)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("hypechat listening",
			"addr", srv.Addr,
			"max_conversations", cfg.MaxConversations,
		)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown timed out", "timeout", shutdownTimeout.String(), "error", err)
		return nil
	}
	logger.Info("shutdown complete")
	return nil
}
