package main

import (
	"log"

	"github.com/stargen/stargen-backend-go/internal/api"
	"github.com/stargen/stargen-backend-go/internal/config"
	"github.com/stargen/stargen-backend-go/internal/database"
	"github.com/stargen/stargen-backend-go/internal/repository"
	"github.com/stargen/stargen-backend-go/internal/service"
	"github.com/stargen/stargen-backend-go/internal/store"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	// Load the artifacts the ingestion step produced: the filtered sample
	// table and the serialized pairwise distance matrix.
	sampleRepo := repository.NewSampleRepository(db)
	samples, err := sampleRepo.GetAllSamples()
	if err != nil {
		log.Fatal("Failed to load samples:", err)
	}

	matrix, err := store.ReadMatrixFile(cfg.MatrixPath)
	if err != nil {
		log.Fatal("Failed to load distance matrix:", err)
	}

	sampleStore, err := store.NewSampleStore(samples, matrix)
	if err != nil {
		log.Fatal("Sample table and distance matrix do not match:", err)
	}
	log.Printf("Loaded %d samples with %dx%d distance matrix",
		sampleStore.Len(), matrix.Len(), matrix.Len())

	runRepo := repository.NewRunRepository(db)
	analysisService := service.NewAnalysisService(sampleStore, runRepo)

	router := api.SetupRouter(cfg, analysisService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
