package main

import (
	"os"

	"github.com/kasirhub/pos-backend/internal/app"
	config "github.com/kasirhub/pos-backend/internal/cfg"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.LoadCatalog(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.RunCatalog(cfg, log); err != nil {
		os.Exit(1)
	}
}
