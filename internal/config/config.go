package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/octobees/servicefinder/internal/entity"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	Port               string
	RedisURL           string
	CacheDisabled      bool
	CacheTTL           time.Duration
	SiteTimezone       *time.Location
	SiteConfigFile     string
	ContentFallbackDir string
	DefaultPhoneRegion string
	CityListingsLimit  int
	RateLimitContact   RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               getEnv("PORT", "8080"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CacheDisabled:      parseBool(getEnv("CACHE_DISABLED", "false")),
		CacheTTL:           parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute),
		SiteConfigFile:     os.Getenv("SITE_CONFIG_FILE"),
		ContentFallbackDir: getEnv("CONTENT_FALLBACK_DIR", "json_files"),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "BR")),
		CityListingsLimit:  parseInt(getEnv("CITY_LISTINGS_LIMIT", "50"), 50),
	}

	tz := getEnv("SITE_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid SITE_TIMEZONE value: %w", err)
	}
	cfg.SiteTimezone = loc

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CONTACT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CONTACT value: %w", err)
	}
	cfg.RateLimitContact = rl

	return cfg, nil
}

// LoadTheme reads site branding defaults from a YAML file. Missing keys keep
// the values of base.
func LoadTheme(path string, base entity.Theme) (entity.Theme, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read site config: %w", err)
	}

	var file struct {
		Theme entity.Theme `yaml:"theme"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return base, fmt.Errorf("parse site config: %w", err)
	}

	theme := base
	if v := strings.TrimSpace(file.Theme.SiteName); v != "" {
		theme.SiteName = v
	}
	if v := strings.TrimSpace(file.Theme.PrimaryColor); v != "" {
		theme.PrimaryColor = v
	}
	if v := strings.TrimSpace(file.Theme.SecondaryColor); v != "" {
		theme.SecondaryColor = v
	}
	return theme, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}
