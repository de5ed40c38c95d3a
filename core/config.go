package core

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the web client process.
type Config struct {
	Port           string        // HTTP listen port (e.g., "3000")
	BackendURL     string        // banking backend base URL
	RequestTimeout time.Duration // per-call timeout for data requests
	ProbeTimeout   time.Duration // timeout for the lightweight connectivity probe
	SessionKey     string        // cookie signing/encryption key
	CookieSecure   bool          // whether to set Secure flag on session cookie
	CookieSameSite string        // SameSite policy: Strict/Lax/None
	LogDir         string        // directory to write application logs
	RedisURL       string        // optional telemetry store; empty disables it
	AllowedOrigins []string      // allowed origins for CORS/CSRF origin check
}

// fileConfig mirrors the optional YAML config file. Zero values mean
// "not set"; environment variables override whatever the file provides.
type fileConfig struct {
	Port                  string   `yaml:"port"`
	BackendURL            string   `yaml:"backend_url"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	ProbeTimeoutSeconds   int      `yaml:"probe_timeout_seconds"`
	SessionKey            string   `yaml:"session_key"`
	CookieSecure          *bool    `yaml:"cookie_secure"`
	CookieSameSite        string   `yaml:"cookie_samesite"`
	LogDir                string   `yaml:"log_dir"`
	RedisURL              string   `yaml:"redis_url"`
	AllowedOrigins        []string `yaml:"allowed_origins"`
}

// Load populates Config from an optional YAML file (CONFIG_FILE) overlaid
// with environment variables; env wins, then file, then defaults.
func Load() Config {
	cfg := Config{
		Port:           "3000",
		BackendURL:     "http://localhost:8080",
		RequestTimeout: 10 * time.Second,
		ProbeTimeout:   5 * time.Second,
		SessionKey:     "change-this-session-key",
		CookieSecure:   false,
		CookieSameSite: "Strict",
		LogDir:         "/var/log/bankweb",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		applyConfigFile(&cfg, path)
	}

	cfg.Port = firstNonEmpty(os.Getenv("PORT"), cfg.Port)
	cfg.BackendURL = firstNonEmpty(os.Getenv("BACKEND_URL"), cfg.BackendURL)
	if secs := intFromEnv("REQUEST_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
	if secs := intFromEnv("PROBE_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.ProbeTimeout = time.Duration(secs) * time.Second
	}
	cfg.SessionKey = firstNonEmpty(os.Getenv("SESSION_KEY"), cfg.SessionKey)
	cfg.CookieSecure = boolFromEnv("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieSameSite = firstNonEmpty(os.Getenv("COOKIE_SAMESITE"), cfg.CookieSameSite)
	cfg.LogDir = firstNonEmpty(os.Getenv("LOG_DIR"), cfg.LogDir)
	cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), cfg.RedisURL)
	if origins := parseCSV(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}

	return cfg
}

// applyConfigFile overlays non-empty file values onto cfg. A missing or
// malformed file is ignored so a bad mount cannot keep the process down.
func applyConfigFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}
	cfg.Port = firstNonEmpty(fc.Port, cfg.Port)
	cfg.BackendURL = firstNonEmpty(fc.BackendURL, cfg.BackendURL)
	if fc.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
	}
	if fc.ProbeTimeoutSeconds > 0 {
		cfg.ProbeTimeout = time.Duration(fc.ProbeTimeoutSeconds) * time.Second
	}
	cfg.SessionKey = firstNonEmpty(fc.SessionKey, cfg.SessionKey)
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	cfg.CookieSameSite = firstNonEmpty(fc.CookieSameSite, cfg.CookieSameSite)
	cfg.LogDir = firstNonEmpty(fc.LogDir, cfg.LogDir)
	cfg.RedisURL = firstNonEmpty(fc.RedisURL, cfg.RedisURL)
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// boolFromEnv reads a boolean from env var name, falling back to defaultVal when empty or invalid.
func boolFromEnv(name string, defaultVal bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// intFromEnv reads an int from env var name, falling back to defaultVal when empty or invalid.
func intFromEnv(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// parseCSV splits comma-separated list and trims spaces; empty entries are skipped.
func parseCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
