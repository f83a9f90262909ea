package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

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
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Load()

	ctx := context.Background()
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
		if rep, err := reporter.NewTelegramReporter(cfg); err == nil {
			run.WithReporter(rep)
		} else {
			log.Printf("⚠️ Telegram reporter unavailable: %v", err)
		}
	}
	tracker := runner.NewTracker()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "JobHarvest API is running!",
			"status":  "healthy",
		})
	})

	//kick one site asynchronously, return the run id immediately
	r.POST("/scrapers/:site/run", func(c *gin.Context) {
		site := c.Param("site")
		var req models.RunRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := tracker.Start(site)
		go func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			tracker.Finish(id, run.Run(runCtx, site, req))
		}()

		c.JSON(http.StatusAccepted, gin.H{"run_id": id, "site": site})
	})

	r.POST("/scrapers/all/run", func(c *gin.Context) {
		var req models.RunRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := tracker.Start("all")
		go func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
			defer cancel()
			tracker.Finish(id, run.RunAll(runCtx, req)...)
		}()

		c.JSON(http.StatusAccepted, gin.H{"run_id": id, "site": "all"})
	})

	r.GET("/runs/:id", func(c *gin.Context) {
		state, ok := tracker.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, state)
	})

	r.GET("/jobs", func(c *gin.Context) {
		url := c.Query("url")
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url query param is required"})
			return
		}
		job, err := repo.GetJobByURL(c.Request.Context(), url)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, job)
	})

	r.GET("/scrapers/status", func(c *gin.Context) {
		counts, err := repo.CountBySite(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sites":        run.Sites(),
			"active_runs":  tracker.Active(),
			"jobs_by_site": counts,
		})
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
