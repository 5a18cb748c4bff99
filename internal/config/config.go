package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode   `yaml:"mode"`
	HTTPAddr string `yaml:"http_addr"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	AuthSecret string        `yaml:"auth_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`

	CORSOriginsOnline  []string `yaml:"cors_origins_online"`
	CORSOriginsOffline []string `yaml:"cors_origins_offline"`

	// Session lifecycle.
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepSchedule string        `yaml:"sweep_schedule"` // cron spec
	SweepGrace    time.Duration `yaml:"sweep_grace"`

	// Question banks.
	RemoteBankURL string `yaml:"remote_bank_url"` // empty disables the remote source
	MixedCount    int    `yaml:"mixed_count"`

	RequireAnswerToAdvance bool `yaml:"require_answer_to_advance"`
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		AuthSecret:         envOr("AUTH_SECRET", "dev-secret-change-me"),
		TokenTTL:           envDuration("TOKEN_TTL", 8*time.Hour),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://quizdrill.app"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		SessionTTL:    envDuration("SESSION_TTL", 2*time.Hour),
		SweepSchedule: envOr("SWEEP_SCHEDULE", "@every 5m"),
		SweepGrace:    envDuration("SWEEP_GRACE", 10*time.Minute),

		RemoteBankURL: os.Getenv("REMOTE_BANK_URL"),
		MixedCount:    envInt("MIXED_COUNT", 60),

		RequireAnswerToAdvance: envBool("REQUIRE_ANSWER_TO_ADVANCE", true),
	}
}

// Load builds the config from the environment, then overlays values from
// the YAML file at path when it is non-empty. File values win over env so
// a deployment can pin its settings in one place.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
