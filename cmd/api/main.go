package main

import (
	"log"

	"careercoach-backend/internal/bootstrap"
	"careercoach-backend/internal/shared/config"
	"careercoach-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app := bootstrap.Build(cfg)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting career coach API on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
