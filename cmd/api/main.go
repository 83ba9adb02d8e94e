package main

import (
	"log"

	"github.com/ilhaam43/hr-copilot-sub001/internal/bootstrap"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/config"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
