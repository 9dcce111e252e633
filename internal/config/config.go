package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
//
// Values are resolved in order: built-in defaults, the optional JSON file
// named by RELAY_CONFIG_FILE, then environment variables (including those
// loaded from .env). Secrets are only read from the environment.
type Config struct {
	// Port and Bind set the HTTP listen address.
	Port int    `json:"port,omitempty" env:"PORT"`
	Bind string `json:"bind,omitempty" env:"BIND"`

	FirefliesAPIKey string `json:"-" env:"FIREFLY_API_KEY"`
	FirefliesAPIURL string `json:"fireflies_api_url,omitempty" env:"FIREFLIES_API_URL"`

	NotionKey     string `json:"-" env:"NOTION_KEY"`
	NotionAPIURL  string `json:"notion_api_url,omitempty" env:"NOTION_API_URL"`
	NotionVersion string `json:"notion_version,omitempty" env:"NOTION_VERSION"`

	// Workspace database identifiers.
	ProjectsDatabaseID string `json:"projects_database_id,omitempty" env:"NOTION_PROJECTS_DATABASE_ID"`
	TasksDatabaseID    string `json:"tasks_database_id,omitempty" env:"NOTION_TASKS_DATABASE_ID"`
	NotesDatabaseID    string `json:"notes_database_id,omitempty" env:"NOTION_NOTES_DATABASE_ID"`

	// WebhookSecret enables signature verification when non-empty.
	WebhookSecret string `json:"-" env:"FIREFLY_WEBHOOK_SECRET"`

	// AgentURL is the base URL of the summarization agent.
	AgentURL string `json:"agent_url,omitempty" env:"CLAUDE_AGENT_URL"`

	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`
	LogJSON  bool   `json:"log_json,omitempty" env:"LOG_JSON"`

	// LedgerPath enables the publish ledger when set. Empty disables it.
	LedgerPath string `json:"ledger_path,omitempty" env:"LEDGER_PATH"`

	// HTTPTimeoutSeconds bounds outbound calls to the workspace and
	// transcription APIs.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds,omitempty" env:"HTTP_TIMEOUT_SECONDS"`

	// AgentTimeoutSeconds bounds the call to the summarization agent.
	AgentTimeoutSeconds int `json:"agent_timeout_seconds,omitempty" env:"AGENT_TIMEOUT_SECONDS"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty" env:"DISABLED_TOOLS" envSeparator:","`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:                3000,
		Bind:                "0.0.0.0",
		FirefliesAPIURL:     "https://api.fireflies.ai/graphql",
		NotionAPIURL:        "https://api.notion.com/v1",
		NotionVersion:       "2022-06-28",
		AgentURL:            "http://localhost:8080",
		LogLevel:            "info",
		HTTPTimeoutSeconds:  30,
		AgentTimeoutSeconds: 30,
	}
}

// Load resolves configuration. envFile, if non-empty and present, is loaded
// into the process environment without overriding variables already set.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	file, err := loadFileRaw(os.Getenv("RELAY_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), file)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DisabledTools = mergeStringSlice(cfg.DisabledTools, nil)
	return cfg, nil
}

// loadFileRaw loads configuration from a JSON file.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := *base

	// Scalars: overlay wins if non-zero, else base
	if overlay.Port != 0 {
		result.Port = overlay.Port
	}
	if overlay.HTTPTimeoutSeconds != 0 {
		result.HTTPTimeoutSeconds = overlay.HTTPTimeoutSeconds
	}
	if overlay.AgentTimeoutSeconds != 0 {
		result.AgentTimeoutSeconds = overlay.AgentTimeoutSeconds
	}
	overlayString(&result.Bind, overlay.Bind)
	overlayString(&result.FirefliesAPIKey, overlay.FirefliesAPIKey)
	overlayString(&result.FirefliesAPIURL, overlay.FirefliesAPIURL)
	overlayString(&result.NotionKey, overlay.NotionKey)
	overlayString(&result.NotionAPIURL, overlay.NotionAPIURL)
	overlayString(&result.NotionVersion, overlay.NotionVersion)
	overlayString(&result.ProjectsDatabaseID, overlay.ProjectsDatabaseID)
	overlayString(&result.TasksDatabaseID, overlay.TasksDatabaseID)
	overlayString(&result.NotesDatabaseID, overlay.NotesDatabaseID)
	overlayString(&result.WebhookSecret, overlay.WebhookSecret)
	overlayString(&result.AgentURL, overlay.AgentURL)
	overlayString(&result.LogLevel, overlay.LogLevel)
	overlayString(&result.LedgerPath, overlay.LedgerPath)

	// Booleans: overlay wins if true, else base
	result.LogJSON = base.LogJSON || overlay.LogJSON

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return &result
}

func overlayString(dst *string, src string) {
	if s := strings.TrimSpace(src); s != "" {
		*dst = s
	}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// HTTPTimeout returns the timeout for workspace and transcription calls.
func (c *Config) HTTPTimeout() time.Duration {
	return secondsOr(c.HTTPTimeoutSeconds, 30)
}

// AgentTimeout returns the timeout for the summarization agent call.
func (c *Config) AgentTimeout() time.Duration {
	return secondsOr(c.AgentTimeoutSeconds, 30)
}

func secondsOr(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// Validate returns human-readable warnings about settings that will make
// some endpoints fail. It never rejects a configuration: missing values
// surface as errors from the workspace or transcription API instead.
func (c *Config) Validate() []string {
	var warnings []string
	if c.NotionKey == "" {
		warnings = append(warnings, "NOTION_KEY is not set; workspace calls will be rejected")
	}
	if c.FirefliesAPIKey == "" {
		warnings = append(warnings, "FIREFLY_API_KEY is not set; transcript fetches will fail")
	}
	for _, db := range []struct{ name, id string }{
		{"NOTION_PROJECTS_DATABASE_ID", c.ProjectsDatabaseID},
		{"NOTION_TASKS_DATABASE_ID", c.TasksDatabaseID},
		{"NOTION_NOTES_DATABASE_ID", c.NotesDatabaseID},
	} {
		if db.id == "" {
			warnings = append(warnings, db.name+" is not set")
			continue
		}
		if _, err := uuid.Parse(db.id); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %q does not look like a database id", db.name, db.id))
		}
	}
	return warnings
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
