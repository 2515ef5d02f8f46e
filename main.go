// Package main our entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/johndosdos/anonchat/internal/config"
	"github.com/johndosdos/anonchat/internal/handler"
	"github.com/johndosdos/anonchat/internal/logging"
	"github.com/johndosdos/anonchat/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting application...")

	// The store lives for the whole process; restarting clears the chat.
	messages := store.New(
		store.WithCapacity(cfg.MaxMessages),
		store.WithMaxTextLength(cfg.MaxTextLength),
	)

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.NewRouter(messages, handler.Options{
			PollInterval:  cfg.PollInterval,
			MaxTextLength: cfg.MaxTextLength,
			SanitizeHTML:  cfg.SanitizeHTML,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			slog.String("addr", server.Addr),
			slog.Int("max_messages", messages.Capacity()),
			slog.Bool("sanitize_html", cfg.SanitizeHTML))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	slog.Info("server stopped", slog.Int("messages_held", messages.Len()))
}
