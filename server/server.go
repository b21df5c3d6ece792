package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glossd/fetch"
	"github.com/glossd/slotlab/common"
)

// NewMux registers the routes. Unknown paths and methods get the ServeMux defaults.
func NewMux(c common.Config, now func() time.Time) *http.ServeMux {
	if now == nil {
		now = time.Now
	}
	h := handlers{config: c, now: now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", fetch.ToHandlerFunc(h.Health))
	mux.HandleFunc("GET /api/info", fetch.ToHandlerFunc(h.Info))
	// {$} keeps the landing page from matching every path.
	mux.HandleFunc("GET /{$}", h.Index)
	return mux
}

// Run blocks until SIGINT, SIGTERM or Stop. It returns an error if the port can't be bound.
func Run(c common.Config) error {
	return RunWithOutput(os.Stdout, c)
}

// RunWithOutput is Run with the log written to w.
func RunWithOutput(w io.Writer, c common.Config) error {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags) // adds time to the log
	setHandlerConfig()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", c.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on %d: %w", c.Port, err)
	}
	srv := &http.Server{
		Handler:           NewMux(c, time.Now),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runWithGracefulShutDown(srv, lis, c)
}

// fetch keeps its handler config process-wide.
func setHandlerConfig() {
	fetch.SetHandlerConfig(fetch.HandlerConfig{
		ErrorHook: func(err error) {
			log.Println("fetch.Handler error", err)
		},
	})
}

var quit = make(chan os.Signal, 1)

// https://github.com/gin-gonic/examples/blob/master/graceful-shutdown/graceful-shutdown/server.go
func runWithGracefulShutDown(srv *http.Server, lis net.Listener, c common.Config) error {
	go func() {
		if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to serve: %s\n", err)
		}
	}()

	log.Printf("Server listening on port %d\n", c.Port)
	log.Printf("Slot: %s\n", c.SlotName)
	log.Printf("Feature Toggle: %t\n", c.FeatureToggle)

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be catch, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

func Stop() {
	quit <- syscall.SIGTERM
}
