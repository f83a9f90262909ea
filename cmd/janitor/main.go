package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"go-jobharvest-automation/internal/config"
	"go-jobharvest-automation/internal/janitor"
	"go-jobharvest-automation/internal/store"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	repo, err := store.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	probe := janitor.NewHTTPProber(cfg.ExpiredPhrases, 1)
	sweep := janitor.New(repo, probe, janitor.Options{
		RetentionDays:   cfg.RetentionDays,
		VerifyAfterDays: cfg.VerifyAfterDays,
		VerifyBatch:     cfg.VerifyBatch,
	})

	runOnce := func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if report, err := sweep.Run(sweepCtx); err != nil {
			log.Printf("⚠️ Sweep finished with errors: %v (%s)", err, report)
		}
	}

	//run immediately on start, then nightly
	runOnce()

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", runOnce); err != nil {
		log.Fatalf("❌ Failed to schedule sweep: %v", err)
	}
	c.Start()
	log.Println("🕒 Retention sweep scheduled for 03:00 daily.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down janitor...")
	<-c.Stop().Done()
}
