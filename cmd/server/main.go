package main

import (
	"fmt"
	"log"

	"invex/internal/config"
	"invex/internal/docint"
	"invex/internal/handler"
	"invex/internal/port"
	"invex/internal/router"
	"invex/internal/service"
	s3storage "invex/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize optional archive storage
	var archive port.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = s3storage.NewArchiveStore(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize archive storage: %w", err)
		}
	}

	// Initialize analysis client and services
	analyzer := docint.NewClient(&cfg.DocInt)
	extractionSvc := service.NewExtractionService(analyzer, archive, &cfg.Archive)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(extractionSvc, &cfg.DocInt)
	healthH := handler.NewHealthHandler(&cfg.DocInt)

	// Setup router
	r := router.Setup(invoiceH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
