package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go-jobharvest-automation/internal/config"
	"go-jobharvest-automation/internal/ingest"
	"go-jobharvest-automation/internal/models"
	"go-jobharvest-automation/internal/reporter"
	"go-jobharvest-automation/internal/runner"
	"go-jobharvest-automation/internal/scraper"
	"go-jobharvest-automation/internal/scraper/careerbuilder"
	"go-jobharvest-automation/internal/scraper/dice"
	"go-jobharvest-automation/internal/scraper/indeed"
	"go-jobharvest-automation/internal/scraper/monster"
	"go-jobharvest-automation/internal/scraper/snagajob"
	"go-jobharvest-automation/internal/scraper/teksystems"
	"go-jobharvest-automation/internal/scraper/ziprecruiter"
	"go-jobharvest-automation/internal/skills"
	"go-jobharvest-automation/internal/store"
)

func adapters() []scraper.Adapter {
	return []scraper.Adapter{
		indeed.New(),
		careerbuilder.New(),
		dice.New(),
		monster.New(),
		ziprecruiter.New(),
		snagajob.New(),
		teksystems.New(),
	}
}

func main() {
	site := flag.String("site", "all", "site to crawl, or 'all'")
	headless := flag.Bool("headless", true, "run the browser headless")
	flag.Parse()

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v", cfg.Keywords)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Println("🚀 Starting JobHarvest crawl...")

	repo, err := store.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	matrix, err := skills.LoadMatrix(cfg.SkillsPath)
	if err != nil {
		log.Printf("⚠️ Could not load skill matrix: %v. Jobs will be untagged.", err)
	}

	run := runner.New(cfg, adapters(), ingest.New(repo), matrix)

	if cfg.TelegramToken != "" {
		rep, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			log.Printf("⚠️ Telegram reporter unavailable: %v", err)
		} else {
			run.WithReporter(rep)
			log.Println("🤖 Telegram reporter initialized.")
		}
	}

	req := models.RunRequest{Headless: *headless}

	var results []models.RunResult
	if *site == "all" {
		results = run.RunAll(ctx, req)
	} else {
		results = []models.RunResult{run.Run(ctx, *site, req)}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatalf("❌ Failed to print results: %v", err)
	}
}
