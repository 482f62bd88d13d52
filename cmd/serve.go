package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"github.com/tierlab/tierboard/internal/board"
	"github.com/tierlab/tierboard/internal/catalog"
	"github.com/tierlab/tierboard/internal/handlers"
	"github.com/tierlab/tierboard/internal/mutation"
	"github.com/tierlab/tierboard/internal/notify"
)

type serveConfig struct {
	Port       string `env:"TIERBOARD_PORT" envDefault:"8888"`
	Catalog    string `env:"TIERBOARD_CATALOG" envDefault:"catalog.yaml"`
	ImageRoot  string `env:"TIERBOARD_IMAGE_ROOT" envDefault:"images"`
	UploadsDir string `env:"TIERBOARD_UPLOADS_DIR"`
}

func newServeCmd() *cobra.Command {
	var port, catalogPath, imageRoot, uploadsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ranking board server",
		Long: `Starts the Tierboard API on the specified port.

The server loads the catalog once at startup, derives the item set
menu from it, and exposes the board, upload, and notification
endpoints. Flags override TIERBOARD_* environment variables.`,
		Example: `  # Start server on default port 8888
  tierboard serve --catalog catalog.yaml

  # Start server on custom port with a dedicated image root
  tierboard serve --port 3000 --catalog packs.yaml --image-root ./images`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg serveConfig
			if err := env.Parse(&cfg); err != nil {
				return fmt.Errorf("failed to parse environment: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("catalog") {
				cfg.Catalog = catalogPath
			}
			if cmd.Flags().Changed("image-root") {
				cfg.ImageRoot = imageRoot
			}
			if cmd.Flags().Changed("uploads-dir") {
				cfg.UploadsDir = uploadsDir
			}

			cat, err := catalog.Load(cfg.Catalog)
			if err != nil {
				return err
			}
			slog.Info("Catalog loaded", "path", cfg.Catalog, "packages", len(cat.Packages))

			store := board.New()
			bus := notify.NewBus()
			handler := handlers.New(handlers.Config{
				Catalog:    cat,
				Board:      store,
				Protocol:   mutation.New(store, bus),
				Bus:        bus,
				ImageRoot:  cfg.ImageRoot,
				UploadsDir: cfg.UploadsDir,
			})

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/itemsets", handler.HandleItemSets)
			mux.HandleFunc("/api/board", handler.HandleBoard)
			mux.HandleFunc("/api/board/items", handler.HandleCreateItems)
			mux.HandleFunc("/api/board/items/", handler.HandleItemPlacement)
			mux.HandleFunc("/api/board/reset", handler.HandleReset)
			mux.HandleFunc("/api/board/clear", handler.HandleClear)
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/api/notifications", handler.HandleNotifications)
			mux.HandleFunc("/api/notifications/stream", handler.HandleNotificationStream)
			mux.HandleFunc("/api/notifications/", handler.HandleNotificationDetail)
			mux.HandleFunc("/images/", handler.HandleImages)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Tierboard available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&catalogPath, "catalog", "catalog.yaml", "Path to the catalog file (YAML or JSON)")
	cmd.Flags().StringVar(&imageRoot, "image-root", "images", "Directory served under /images/")
	cmd.Flags().StringVar(&uploadsDir, "uploads-dir", "", "Directory for uploaded images (default <image-root>/uploads)")

	return cmd
}
