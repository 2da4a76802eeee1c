package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizgenius/internal/config"
	"quizgenius/internal/scheduler"
	transport "quizgenius/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	jobs := scheduler.New(b.sweeper, b.sweepEvery)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAPI(b.service).Register(mux)
	mux.HandleFunc("GET /ws", transport.NewWSHandler(b.service).ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// generation requests can take a while
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		log.Printf("starting quizgenius on :%s (storage=%s)", finalPort, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
