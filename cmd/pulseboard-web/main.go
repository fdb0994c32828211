package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/internal/config"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("pulseboard-web: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	dashboard := pulseboard.NewDashboard(cfg)

	// The first fetch is fatal: without figures and headlines there is
	// nothing to serve.
	loadCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := dashboard.Load(loadCtx); err != nil {
		cancel()
		log.Fatalf("pulseboard-web: initial load: %v", err)
	}
	cancel()

	mux := newRouter(dashboard, cfg)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      logging(recovery(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("pulseboard-web: listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("pulseboard-web: %v", err)
		}
	}()

	<-done
	log.Println("pulseboard-web: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("pulseboard-web: shutdown error: %v", err)
	}
	log.Println("pulseboard-web: stopped")
}
