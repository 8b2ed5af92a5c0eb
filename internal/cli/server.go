package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quiz-arena/internal/config"
	pgstore "quiz-arena/internal/infra/postgres"
	transport "quiz-arena/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"serve"},
		Short:   "Start the websocket game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.port, "port", os.Getenv("PORT"), "port to listen on (defaults to server.port)")
	return cmd
}

func runServer(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	d, err := opts.setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer d.close()
	log := d.log

	if d.cfg.Postgres.URL != "" {
		if _, err := pgstore.Migrate(ctx, d.cfg.Postgres.URL); err != nil {
			return err
		}
	}
	if err := d.loadQuestions(); err != nil {
		return err
	}

	finalPort := opts.port
	if finalPort == "" {
		finalPort = d.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	tick := config.Duration(d.cfg.Game.TickInterval, time.Second) / 10
	profiles := d.profiles(ctx)
	if c, ok := profiles.(interface{ Close() }); ok {
		defer c.Close()
	}
	wsHandler := transport.NewWSHandler(profiles, tick, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz arena", "port", finalPort, "store", d.cfg.Store.Engine)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
