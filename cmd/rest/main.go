package main

import (
	"context"
	"log"

	"agri-assistant-be/internal/bootstrap"
	"agri-assistant-be/internal/config"
	"agri-assistant-be/internal/server"
	"agri-assistant-be/internal/tracer"
)

func main() {
	// 1. Initialize tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load configuration
	cfg := config.Load()

	// 3. Bootstrap dependencies. Deployments with an attached speech stack
	// can fill in the handles here; the default is text-only.
	container := bootstrap.NewContainer(cfg, bootstrap.SpeechHandles{})

	// 4. Start background services
	go container.HealthMonitor.Start(context.Background())

	go func() {
		log.Println("Background: starting ingestion consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	// 5. Run server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
