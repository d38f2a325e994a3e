package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/veracomply/veracomply-backend/internal/db"
	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/seed"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "seeds/templates.yaml", "path to the YAML seed file")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.Open(path)
	if err != nil {
		log.Fatal("Open seed file failed", "path", path, "error", err)
	}
	defer f.Close()

	parsed, err := seed.Parse(f)
	if err != nil {
		log.Fatal("Parse seed file failed", "path", path, "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres automigrate failed", "error", err)
	}
	theDB := pg.DB()

	loader := seed.NewLoader(log,
		repos.NewTemplateRepo(theDB, log),
		repos.NewVendorRepo(theDB, log),
	)
	if err := loader.Load(context.Background(), parsed); err != nil {
		log.Fatal("Seed failed", "error", err)
	}
	log.Info("Seed complete", "templates", len(parsed.Templates), "vendors", len(parsed.Vendors))
}
