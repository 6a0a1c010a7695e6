package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/arkdex/arkdex/backend/go-services/internal/archive"
	"github.com/arkdex/arkdex/backend/go-services/internal/config"
	"github.com/arkdex/arkdex/backend/go-services/internal/database"
	"github.com/arkdex/arkdex/backend/go-services/internal/export"
	"github.com/arkdex/arkdex/backend/go-services/internal/scrape"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/service"
	"github.com/arkdex/arkdex/backend/go-services/pkg/logger"
)

// Scraper CLI: fetch operator trivia from the wiki and write it to
// files/<operator>/Trivia.json, optionally persisting to MongoDB.
//
//	scraper Ling              scrape one operator
//	scraper Ling "Ch'en"      scrape several
//	scraper -all              scrape the full 5/6-star roster
func main() {
	all := flag.Bool("all", false, "scrape every operator from the wiki roster")
	browser := flag.Bool("browser", false, "resolve the roster with headless Chrome instead of plain HTTP")
	outDir := flag.String("out", "files", "directory for exported Trivia.json files")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	operators := flag.Args()
	if !*all && len(operators) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scraper [-all] [-browser] [-out dir] [operator ...]")
		os.Exit(2)
	}

	ctx := context.Background()

	// Raw-page archive is optional: enabled when MINIO_ENDPOINT is set
	var archiver scrape.Archiver
	if mcfg := archive.LoadMinIOConfig(); mcfg.Endpoint != "" {
		store, err := archive.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO archive: %v", err)
		} else {
			archiver = store
		}
	}

	scraper := scrape.New(scrape.Config{
		BaseURL:   cfg.Scrape.BaseURL,
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   cfg.Scrape.Timeout,
	}, archiver)

	if *all {
		operators, err = resolveRoster(ctx, scraper, cfg, *browser)
		if err != nil {
			logger.Fatalf("failed to resolve operator roster: %v", err)
		}
		logger.Infof("roster resolved: %d operators", len(operators))
	}

	// Optional Mongo persistence alongside the JSON export
	var svc service.Service
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v) — export only", err)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			col := client.Database(cfg.MongoDB.Database).Collection("trivia")
			svc = service.NewMongoService(col)
		}
	}

	exporter := export.New(*outDir)

	start := time.Now()
	results := scraper.ScrapeAll(ctx, operators, cfg.Scrape.Concurrency)

	var ok, failed int
	for _, res := range results {
		job := scrape.NewJob(res.Operator)
		if res.Err != nil {
			failed++
			job.Fail(res.Err)
			logger.Warnf("%s: %v", res.Operator, res.Err)
		} else {
			ok++
			job.Succeed(res.Record)
			persist(svc, exporter, res.Record)
		}
		if err := scrape.SaveJob(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, job); err != nil {
			logger.Warnf("could not persist job for %s: %v", res.Operator, err)
		}
	}

	logger.Infof("done: %d scraped, %d failed in %s", ok, failed, time.Since(start).Round(time.Millisecond))
	if ok == 0 {
		os.Exit(1)
	}
}

// resolveRoster prefers the browser-driven roster (matches what a reader
// sees on the rendered operator tables) and falls back to parsing the
// static list page over HTTP.
func resolveRoster(ctx context.Context, scraper *scrape.Scraper, cfg *config.Config, useBrowser bool) ([]string, error) {
	if useBrowser {
		roster := scrape.NewBrowserRoster(cfg.Scrape.BaseURL)
		names, err := roster.OperatorNames(ctx)
		if err == nil {
			return names, nil
		}
		logger.Warnf("browser roster failed (%v) — falling back to HTTP", err)
	}
	return scraper.OperatorList(ctx)
}

func persist(svc service.Service, exporter *export.Exporter, rec *trivia.Record) {
	path, err := exporter.Write(&rec.Document)
	if err != nil {
		logger.Warnf("could not export %s: %v", rec.Document.Name, err)
	} else {
		logger.Infof("%s: %d items -> %s", rec.Document.Name, len(rec.Document.TriviaItems), path)
	}
	if svc != nil {
		if err := svc.Save(rec); err != nil {
			logger.Warnf("could not store %s: %v", rec.Document.Name, err)
		}
	}
}
