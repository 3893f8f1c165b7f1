package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"VentureScanner/internal/cache"
)

const (
	configPathEnv     = "VENTURE_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	searchEndpointEnv = "SEARCH_API_ENDPOINT"
	searchAPIKeyEnv   = "SEARCH_API_KEY"
	cacheDirEnv       = "VENTURE_SCANNER_CACHE_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the optional Postgres snapshot store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// CacheConfig selects the cache backend and per-domain expiry windows.
type CacheConfig struct {
	Backend               string `yaml:"backend"` // memory, file, badger
	Dir                   string `yaml:"dir"`
	PageTTLHours          int    `yaml:"pageTtlHours"`
	ExtractionTTLHours    int    `yaml:"extractionTtlHours"`
	ConsolidationTTLHours int    `yaml:"consolidationTtlHours"`
}

// TTLs resolves the configured hours into per-domain durations.
func (c CacheConfig) TTLs() cache.TTLConfig {
	ttls := cache.TTLConfig{}
	if c.PageTTLHours > 0 {
		ttls[cache.DomainPages] = time.Duration(c.PageTTLHours) * time.Hour
	}
	if c.ExtractionTTLHours > 0 {
		ttls[cache.DomainExtraction] = time.Duration(c.ExtractionTTLHours) * time.Hour
	}
	if c.ConsolidationTTLHours > 0 {
		ttls[cache.DomainConsolidation] = time.Duration(c.ConsolidationTTLHours) * time.Hour
	}
	return ttls
}

// SearchConfig defines how to contact the external search API.
type SearchConfig struct {
	Endpoint           string `yaml:"endpoint"`
	APIKey             string `yaml:"apiKey"`
	MaxResultsPerQuery int    `yaml:"maxResultsPerQuery"`
}

// ScrapeConfig bounds the scrape worker pool and its retry behavior.
type ScrapeConfig struct {
	MaxParallel       int    `yaml:"maxParallel"`
	TimeoutSeconds    int    `yaml:"timeoutSeconds"`
	Retries           int    `yaml:"retries"`
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"`
	MinPages          int    `yaml:"minPages"`
	UserAgent         string `yaml:"userAgent"`
}

// AnalysisConfig carries the heuristic thresholds shared by the analyzers
// and the orchestrator's degrade policy.
type AnalysisConfig struct {
	MinSuccessful       int     `yaml:"minSuccessful"`
	HealthyRunwayMonths float64 `yaml:"healthyRunwayMonths"`
	StrongGrowthPct     float64 `yaml:"strongGrowthPct"`
	HighViability       float64 `yaml:"highViability"`
	LowViability        float64 `yaml:"lowViability"`
	CompetitorLowMax    int     `yaml:"competitorLowMax"`
	CompetitorMediumMax int     `yaml:"competitorMediumMax"`
}

// ReportConfig controls where rendered artifacts land.
type ReportConfig struct {
	OutputDir    string `yaml:"outputDir"`
	GenerateDoc  bool   `yaml:"generateDoc"`
	GenerateDeck bool   `yaml:"generateDeck"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(searchEndpointEnv); v != "" {
		c.Search.Endpoint = v
	}
	if v := os.Getenv(searchAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(cacheDirEnv); v != "" {
		c.Cache.Dir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Cache.Backend != "" {
		base.Cache.Backend = override.Cache.Backend
	}
	if override.Cache.Dir != "" {
		base.Cache.Dir = override.Cache.Dir
	}
	if override.Cache.PageTTLHours > 0 {
		base.Cache.PageTTLHours = override.Cache.PageTTLHours
	}
	if override.Cache.ExtractionTTLHours > 0 {
		base.Cache.ExtractionTTLHours = override.Cache.ExtractionTTLHours
	}
	if override.Cache.ConsolidationTTLHours > 0 {
		base.Cache.ConsolidationTTLHours = override.Cache.ConsolidationTTLHours
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if override.Search.MaxResultsPerQuery > 0 {
		base.Search.MaxResultsPerQuery = override.Search.MaxResultsPerQuery
	}

	if override.Scrape.MaxParallel > 0 {
		base.Scrape.MaxParallel = override.Scrape.MaxParallel
	}
	if override.Scrape.TimeoutSeconds > 0 {
		base.Scrape.TimeoutSeconds = override.Scrape.TimeoutSeconds
	}
	if override.Scrape.Retries > 0 {
		base.Scrape.Retries = override.Scrape.Retries
	}
	if override.Scrape.RetryDelaySeconds > 0 {
		base.Scrape.RetryDelaySeconds = override.Scrape.RetryDelaySeconds
	}
	if override.Scrape.MinPages > 0 {
		base.Scrape.MinPages = override.Scrape.MinPages
	}
	if override.Scrape.UserAgent != "" {
		base.Scrape.UserAgent = override.Scrape.UserAgent
	}

	if override.Analysis.MinSuccessful > 0 {
		base.Analysis.MinSuccessful = override.Analysis.MinSuccessful
	}
	if override.Analysis.HealthyRunwayMonths > 0 {
		base.Analysis.HealthyRunwayMonths = override.Analysis.HealthyRunwayMonths
	}
	if override.Analysis.StrongGrowthPct > 0 {
		base.Analysis.StrongGrowthPct = override.Analysis.StrongGrowthPct
	}
	if override.Analysis.HighViability > 0 {
		base.Analysis.HighViability = override.Analysis.HighViability
	}
	if override.Analysis.LowViability > 0 {
		base.Analysis.LowViability = override.Analysis.LowViability
	}
	if override.Analysis.CompetitorLowMax > 0 {
		base.Analysis.CompetitorLowMax = override.Analysis.CompetitorLowMax
	}
	if override.Analysis.CompetitorMediumMax > 0 {
		base.Analysis.CompetitorMediumMax = override.Analysis.CompetitorMediumMax
	}

	if override.Report.OutputDir != "" {
		base.Report = override.Report
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{DSN: ""},
		Cache: CacheConfig{
			Backend:               "file",
			Dir:                   "data/cache",
			PageTTLHours:          24,
			ExtractionTTLHours:    24,
			ConsolidationTTLHours: 24,
		},
		Search: SearchConfig{
			Endpoint:           "https://search.example.org",
			APIKey:             "",
			MaxResultsPerQuery: 5,
		},
		Scrape: ScrapeConfig{
			MaxParallel:       5,
			TimeoutSeconds:    10,
			Retries:           3,
			RetryDelaySeconds: 2,
			MinPages:          3,
			UserAgent:         "VentureScanner/1.0",
		},
		Analysis: AnalysisConfig{
			MinSuccessful:       1,
			HealthyRunwayMonths: 12,
			StrongGrowthPct:     10,
			HighViability:       0.7,
			LowViability:        0.5,
			CompetitorLowMax:    5,
			CompetitorMediumMax: 15,
		},
		Report: ReportConfig{
			OutputDir:    "reports",
			GenerateDoc:  true,
			GenerateDeck: true,
		},
	}
}
