package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"FlowScope/internal/alerter"
	"FlowScope/internal/config"
	"FlowScope/internal/engine"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	eng := engine.New(cfg)
	alerts, err := alerter.New(cfg.Alerts)
	if err != nil {
		log.Fatalf("Failed to set up alerting: %v", err)
	}
	eng.AttachAlerter(alerts)

	handler := newAPIHandler(eng)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/load", handler.load).Methods("POST")
	r.HandleFunc("/api/v1/index", handler.buildIndex).Methods("POST")
	r.HandleFunc("/api/v1/filter", handler.setFilter).Methods("POST")
	r.HandleFunc("/api/v1/query", handler.query).Methods("POST")
	r.HandleFunc("/api/v1/top-talkers", handler.topTalkers).Methods("POST")
	r.HandleFunc("/api/v1/timeline", handler.timeline).Methods("POST")
	r.HandleFunc("/api/v1/detect/syn-scan", handler.detectSynScan).Methods("POST")
	r.HandleFunc("/api/v1/detect/exfil", handler.detectExfil).Methods("POST")
	r.HandleFunc("/api/v1/dns/rare", handler.dnsRare).Methods("POST")
	r.HandleFunc("/api/v1/graph", handler.graph).Methods("POST")
	r.HandleFunc("/api/v1/export", handler.export).Methods("POST")
	r.HandleFunc("/api/v1/note", handler.note).Methods("POST")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}
