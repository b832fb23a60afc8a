package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"asperro-contact-backend/config"
	"asperro-contact-backend/internal/repository/postgres"
	"asperro-contact-backend/internal/usecase"
	"asperro-contact-backend/pkg/database"
	"asperro-contact-backend/pkg/logger"
)

// Dumps the submission archive to an XLSX or CSV file for the studio.
func main() {
	format := flag.String("format", "xlsx", "output format: xlsx or csv")
	limit := flag.Int("limit", 500, "maximum number of submissions, newest first")
	outDir := flag.String("out", ".", "directory to write the file into")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWriter(os.Stderr, cfg.LogLevel)

	if cfg.DBUrl == "" {
		log.Fatal("DATABASE_URL is required to export submissions")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	exportUC := usecase.NewSubmissionExportUsecase(postgres.NewSubmissionRepository(dbPool))
	data, filename, err := exportUC.Export(ctx, *format, *limit)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(*outDir, filename)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	logger.Log.Info("Submissions exported", "path", path, "bytes", len(data))
}
