package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dirs       DirConfig        `yaml:"dirs"`
	Weights    WeightsConfig    `yaml:"weights"`
	Objectives ObjectivesConfig `yaml:"objectives"`
	Thresholds ThresholdConfig  `yaml:"thresholds"`
	Anomalies  AnomalyConfig    `yaml:"anomalies"`
	Storage    StorageConfig    `yaml:"storage"`
	History    HistoryConfig    `yaml:"history"`
	Cache      CacheConfig      `yaml:"cache"`
	Reports    ReportConfig     `yaml:"reports"`
}

// ServerConfig holds dashboard API server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DirConfig holds the on-disk layout for raw exports and generated reports.
type DirConfig struct {
	RawDir     string `yaml:"raw_dir"`
	CleanDir   string `yaml:"clean_dir"`
	ReportsDir string `yaml:"reports_dir"`
	SchemaDir  string `yaml:"schema_dir"`
}

// WeightsConfig maps each raw action counter to its conversion weight.
// Unconfigured actions weigh 0.
type WeightsConfig map[string]float64

// Weight returns the configured weight for an action, or fallback when
// the action is unconfigured.
func (w WeightsConfig) Weight(action string, fallback float64) float64 {
	if v, ok := w[action]; ok {
		return v
	}
	return fallback
}

// ObjectivesConfig maps each campaign objective to its metric weight
// profile. Weights need not sum to 1.
type ObjectivesConfig map[string]map[string]float64

// Profile returns the weight profile for an objective, falling back to
// the general profile when the objective is unknown.
func (o ObjectivesConfig) Profile(objective string) map[string]float64 {
	if p, ok := o[objective]; ok {
		return p
	}
	return o["general"]
}

// ThresholdConfig holds every decision boundary used by the enrichment
// and recommendation engines.
type ThresholdConfig struct {
	// Duplicate/scale candidates.
	DuplicateScoreMin    float64 `yaml:"duplicate_score_min"`
	DuplicateCPARatioMax float64 `yaml:"duplicate_cpa_ratio_max"`

	// Pause/review actions.
	PauseSpendMin float64 `yaml:"pause_spend_min"`
	PauseCPARatio float64 `yaml:"pause_cpa_ratio"`

	// Efficiency bands (CPA as a ratio of the account median).
	EfficiencyVeryGood float64 `yaml:"efficiency_very_good"`
	EfficiencyGood     float64 `yaml:"efficiency_good"`
	EfficiencyNormal   float64 `yaml:"efficiency_normal"`

	// Minimum weighted conversions for the efficiency ranking.
	MinConversionsRanking float64 `yaml:"min_conversions_ranking"`

	// Trend bands (7d daily rate over 30d daily rate).
	TrendAscending float64 `yaml:"trend_ascending"`
	TrendDeclining float64 `yaml:"trend_declining"`
	TrendCritical  float64 `yaml:"trend_critical"`

	// Normalized score bands for classification.
	ScoreHero    float64 `yaml:"score_hero"`
	ScoreHealthy float64 `yaml:"score_healthy"`
	ScoreAlert   float64 `yaml:"score_alert"`
}

// AnomalyConfig holds the anomaly detection parameters.
type AnomalyConfig struct {
	FrequencyHigh      float64 `yaml:"frequency_high"`
	FrequencyVeryHigh  float64 `yaml:"frequency_very_high"`
	CTRLow             float64 `yaml:"ctr_low"`
	CTRVeryLow         float64 `yaml:"ctr_very_low"`
	MinImpressions     float64 `yaml:"min_impressions"`
	ClickVisitRatioMax float64 `yaml:"click_visit_ratio_max"`
}

// StorageConfig holds report persistence configuration.
type StorageConfig struct {
	Type       string `yaml:"type"` // "local" or "s3"
	LocalPath  string `yaml:"local_path"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSRegion  string `yaml:"aws_region"`
	AWSProfile string `yaml:"aws_profile"` // empty uses the default credential chain
}

// GetAWSProfile returns the AWS profile, with environment override.
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// HistoryConfig holds the optional Postgres report-history settings.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// CacheConfig holds the optional Redis latest-report cache settings.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ReportConfig controls which report formats the batch run emits.
type ReportConfig struct {
	Text bool `yaml:"text"`
	JSON bool `yaml:"json"`
	PDF  bool `yaml:"pdf"`
}

// Load reads and parses the configuration file, applying defaults for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every default applied, for runs
// without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}

	if cfg.Dirs.RawDir == "" {
		cfg.Dirs.RawDir = "raw"
	}
	if cfg.Dirs.CleanDir == "" {
		cfg.Dirs.CleanDir = "clean"
	}
	if cfg.Dirs.ReportsDir == "" {
		cfg.Dirs.ReportsDir = "reports"
	}
	if cfg.Dirs.SchemaDir == "" {
		cfg.Dirs.SchemaDir = "schema"
	}

	if len(cfg.Weights) == 0 {
		cfg.Weights = DefaultWeights()
	}
	if len(cfg.Objectives) == 0 {
		cfg.Objectives = DefaultObjectives()
	}

	t := &cfg.Thresholds
	if t.DuplicateScoreMin == 0 {
		t.DuplicateScoreMin = 10
	}
	if t.DuplicateCPARatioMax == 0 {
		t.DuplicateCPARatioMax = 1.2
	}
	if t.PauseSpendMin == 0 {
		t.PauseSpendMin = 4000
	}
	if t.PauseCPARatio == 0 {
		t.PauseCPARatio = 2.0
	}
	if t.EfficiencyVeryGood == 0 {
		t.EfficiencyVeryGood = 0.7
	}
	if t.EfficiencyGood == 0 {
		t.EfficiencyGood = 1.0
	}
	if t.EfficiencyNormal == 0 {
		t.EfficiencyNormal = 1.5
	}
	if t.MinConversionsRanking == 0 {
		t.MinConversionsRanking = 1.0
	}
	if t.TrendAscending == 0 {
		t.TrendAscending = 1.2
	}
	if t.TrendDeclining == 0 {
		t.TrendDeclining = 0.8
	}
	if t.TrendCritical == 0 {
		t.TrendCritical = 0.5
	}
	if t.ScoreHero == 0 {
		t.ScoreHero = 90
	}
	if t.ScoreHealthy == 0 {
		t.ScoreHealthy = 70
	}
	if t.ScoreAlert == 0 {
		t.ScoreAlert = 40
	}

	a := &cfg.Anomalies
	if a.FrequencyHigh == 0 {
		a.FrequencyHigh = 3.0
	}
	if a.FrequencyVeryHigh == 0 {
		a.FrequencyVeryHigh = 5.0
	}
	if a.CTRLow == 0 {
		a.CTRLow = 0.5
	}
	if a.CTRVeryLow == 0 {
		a.CTRVeryLow = 0.2
	}
	if a.MinImpressions == 0 {
		a.MinImpressions = 1000
	}
	if a.ClickVisitRatioMax == 0 {
		a.ClickVisitRatioMax = 5.0
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data"
	}
	if cfg.Storage.S3Prefix == "" {
		cfg.Storage.S3Prefix = "reports"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-west-2"
	}

	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = "localhost:6379"
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 360
	}

	// All report formats default on when the reports block is absent.
	if !cfg.Reports.Text && !cfg.Reports.JSON && !cfg.Reports.PDF {
		cfg.Reports.Text = true
		cfg.Reports.JSON = true
		cfg.Reports.PDF = true
	}
}

// DefaultWeights returns the per-action conversion weights tuned for the
// accounts this system was built around.
func DefaultWeights() WeightsConfig {
	return WeightsConfig{
		"results":      1.0,
		"msg_init":     1.0,
		"msg_contacts": 1.0,
		"link_clicks":  0.15,
		"ig_profile":   0.3,
		"leads":        1.0,
		"purchases":    2.0,
		"interactions": 0.1,
		"video_views":  0.05,
		"thruplay":     0.1,
	}
}

// DefaultObjectives returns the per-objective metric weight profiles.
// Cost metrics (cpc, cpl) are inverted by the normalized score engine.
func DefaultObjectives() ObjectivesConfig {
	return ObjectivesConfig{
		"messaging": {
			"msg_init":     0.35,
			"msg_contacts": 0.35,
			"results":      0.20,
			"link_clicks":  0.05,
			"ig_profile":   0.05,
		},
		"traffic": {
			"link_clicks": 0.40,
			"ctr":         0.25,
			"cpc":         0.20,
			"ig_profile":  0.10,
			"results":     0.05,
		},
		"engagement": {
			"interactions": 0.35,
			"video_views":  0.20,
			"thruplay":     0.15,
			"ig_profile":   0.15,
			"results":      0.15,
		},
		"leads": {
			"leads":       0.50,
			"results":     0.30,
			"link_clicks": 0.10,
			"cpl":         0.10,
		},
		"sales": {
			"purchases":        0.40,
			"roas":             0.30,
			"results":          0.20,
			"conversion_value": 0.10,
		},
		"general": {
			"results":      0.30,
			"msg_init":     0.25,
			"msg_contacts": 0.25,
			"link_clicks":  0.10,
			"ig_profile":   0.10,
		},
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars on the host.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.History.DatabaseURL = dbURL
		if !cfg.History.Enabled {
			cfg.History.Enabled = true
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Cache.Password = pw
	}
	if bucket := os.Getenv("REPORTS_S3_BUCKET"); bucket != "" {
		cfg.Storage.S3Bucket = bucket
		cfg.Storage.Type = "s3"
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Storage.AWSRegion = region
	}
	if raw := os.Getenv("RAW_DIR"); raw != "" {
		cfg.Dirs.RawDir = raw
	}
	if reports := os.Getenv("REPORTS_DIR"); reports != "" {
		cfg.Dirs.ReportsDir = reports
	}

	return cfg, nil
}
