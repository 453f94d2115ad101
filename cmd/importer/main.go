package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/database"
	"github.com/octobees/servicefinder/internal/repository"
	"github.com/octobees/servicefinder/internal/service"
)

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, errHelp) {
			return
		}
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	catalogRepo := repository.NewPGXCatalogRepository(pool)
	importer := service.NewImportService(repository.NewPGXListingsRepository(pool), catalogRepo, opts.Region)

	if opts.CSV != "" {
		file, err := os.Open(opts.CSV)
		if err != nil {
			log.Fatalf("failed to open csv: %v", err)
		}
		summary, err := importer.ImportListingsCSV(ctx, file)
		file.Close()
		if err != nil {
			log.Fatalf("import failed file=%s err=%v", opts.CSV, err)
		}
		log.Printf("import_done file=%s inserted=%d updated=%d total=%d", opts.CSV, summary.Inserted, summary.Updated, summary.Total)
	} else {
		summary, err := importer.ImportExport(ctx, opts.ExportDir)
		if err != nil {
			log.Fatalf("import failed dir=%s err=%v", opts.ExportDir, err)
		}
		log.Printf("import_done dir=%s states=%d cities=%d inserted=%d updated=%d total=%d",
			opts.ExportDir, summary.States, summary.Cities, summary.Listings.Inserted, summary.Listings.Updated, summary.Listings.Total)
	}

	// Only a shared cache outlives this process, so a local one is never cleared.
	if opts.RedisURL == "" {
		return
	}
	contentCache, err := cache.New(cache.Options{RedisURL: opts.RedisURL})
	if err != nil {
		log.Printf("cache_error err=%v", err)
		return
	}
	defer contentCache.Close()
	if err := service.NewCatalogService(catalogRepo, nil, contentCache, 0).InvalidateAll(ctx); err != nil {
		log.Printf("cache_error err=%v", err)
	}
}
