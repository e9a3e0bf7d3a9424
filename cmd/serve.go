package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsphweid/mellowchord/db"
	"github.com/jsphweid/mellowchord/server"
)

const shutdownGrace = 5 * time.Second

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the chord graph and saved progressions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), store)
	},
}

func openStore() (db.Store, error) {
	switch cfg.Store.Backend {
	case "dynamodb":
		client, err := db.NewClient(cfg.Store.Endpoint, cfg.Store.Region)
		if err != nil {
			return nil, err
		}
		logger.Info("Using DynamoDB store", "table", cfg.Store.Table, "endpoint", cfg.Store.Endpoint)
		return db.NewDynamoStore(client, cfg.Store.Table), nil
	case "memory":
		return db.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func newServer(store db.Store) *server.Server {
	return server.New(store, server.Options{
		PageSize:       cfg.Server.PageSize,
		MaxLength:      cfg.Server.MaxLength,
		IdleTimeout:    cfg.Server.SessionIdleTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Midi:           midiOptions(),
	}, logger)
}

// serve runs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, store db.Store) error {
	srv := newServer(store)
	defer srv.Close()
	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("Listening", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("Shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
