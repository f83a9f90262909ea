// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	//Search criteria
	Keywords   []string `yaml:"keywords"`
	Location   string   `yaml:"location"`
	Days       int      `yaml:"days"`
	MaxPages   int      `yaml:"max_pages"`
	MaxResults int      `yaml:"max_results"`
	//Browser behavior
	Headless      bool `yaml:"headless"`
	SkipChallenge bool `yaml:"skip_challenge"`
	PageDelayMin  int  `yaml:"page_delay_min_ms"`
	PageDelayMax  int  `yaml:"page_delay_max_ms"`
	//Retention policy
	RetentionDays   int      `yaml:"retention_days"`
	VerifyAfterDays int      `yaml:"verify_after_days"`
	VerifyBatch     int      `yaml:"verify_batch"`
	ExpiredPhrases  []string `yaml:"expired_phrases"`
	//Paths
	SkillsPath   string `yaml:"skills_path"`
	CookiesPath  string `yaml:"cookies_path"`
	OutputFolder string `yaml:"output_folder"`
	//Reporting (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}

	//Override with env vars
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values so a sparse YAML file still yields a
// runnable config.
func (cfg *Config) ApplyDefaults() {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = []string{"software developer"}
	}
	if cfg.Location == "" {
		cfg.Location = "remote"
	}
	if cfg.Days <= 0 {
		cfg.Days = 15
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 100
	}
	if cfg.PageDelayMin <= 0 {
		cfg.PageDelayMin = 1500
	}
	if cfg.PageDelayMax <= cfg.PageDelayMin {
		cfg.PageDelayMax = cfg.PageDelayMin + 2000
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 15
	}
	if cfg.VerifyAfterDays <= 0 {
		cfg.VerifyAfterDays = 7
	}
	if cfg.VerifyBatch <= 0 {
		cfg.VerifyBatch = 100
	}
	if len(cfg.ExpiredPhrases) == 0 {
		cfg.ExpiredPhrases = []string{
			"this job has expired",
			"not accepting applications",
			"position has been filled",
			"no longer accepting applications",
			"we're sorry",
		}
	}
	if cfg.SkillsPath == "" {
		cfg.SkillsPath = "configs/skills.yaml"
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = "job_data"
	}
}
