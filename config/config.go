package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
type AppConfig struct {
	AppPort string

	// Gin framework configuration
	GinMode string
	GinPath string

	// Gallery storage
	ImagesDir    string // directory holding documents and binaries
	ImagesPrefix string // public URL prefix the binaries are served under
	StoreBackend string // flatfile | badger | preview
	BadgerPath   string
	PreviewMode  bool // design-time rendering: placeholder data, no I/O

	// Upload limits and derived sizes
	MaxUploadMB    int
	ModalBound     int
	ThumbnailBound int

	// Orphan binary sweep
	SweepEnabled      bool
	SweepIntervalMins int
	SweepGraceMins    int

	RateLimitPerMinute int
	AllowedOrigins     []string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config file: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Intended for tests.
func Set(c AppConfig) {
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// loadJSONConfig reads a JSON file into out if present. Returns an error
// only for invalid JSON; a missing file is silently ignored.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(out)
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "public/images"
	}
	if c.ImagesPrefix == "" {
		c.ImagesPrefix = "/images"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = "flatfile"
	}
	if c.BadgerPath == "" {
		c.BadgerPath = "data/metadata_badger"
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 5
	}
	if c.ModalBound == 0 {
		c.ModalBound = 800
	}
	if c.ThumbnailBound == 0 {
		c.ThumbnailBound = 280
	}
	if c.SweepIntervalMins == 0 {
		c.SweepIntervalMins = 15
	}
	if c.SweepGraceMins == 0 {
		c.SweepGraceMins = 60
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("IMAGES_DIR", ""); v != "" {
		c.ImagesDir = v
	}
	if v := getEnv("IMAGES_PREFIX", ""); v != "" {
		c.ImagesPrefix = v
	}
	if v := getEnv("STORE_BACKEND", ""); v != "" {
		c.StoreBackend = v
	}
	if v := getEnv("BADGER_PATH", ""); v != "" {
		c.BadgerPath = v
	}
	if v := getEnv("PREVIEW_MODE", ""); v != "" {
		c.PreviewMode = v == "true"
	}
	if v := getEnv("MAX_UPLOAD_MB", ""); v != "" {
		c.MaxUploadMB = mustParseInt(v)
	}
	if v := getEnv("MODAL_BOUND", ""); v != "" {
		c.ModalBound = mustParseInt(v)
	}
	if v := getEnv("THUMBNAIL_BOUND", ""); v != "" {
		c.ThumbnailBound = mustParseInt(v)
	}
	if v := getEnv("SWEEP_ENABLED", ""); v != "" {
		c.SweepEnabled = v == "true"
	}
	if v := getEnv("SWEEP_INTERVAL_MINUTES", ""); v != "" {
		c.SweepIntervalMins = mustParseInt(v)
	}
	if v := getEnv("SWEEP_GRACE_MINUTES", ""); v != "" {
		c.SweepGraceMins = mustParseInt(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
