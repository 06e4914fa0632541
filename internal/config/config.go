package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Sheets    SheetsConfig
	Slack     SlackConfig
	Monday    MondayConfig
	Reporting ReportingConfig
	Cache     CacheConfig
	Redis     RedisConfig
	MongoDB   MongoDBConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// SheetsConfig contains configuration required to read the Google Sheets workbook.
// Credentials come from a service account file or its inline JSON.
type SheetsConfig struct {
	CredentialsPath string
	CredentialsJSON string
	SpreadsheetID   string
	Ranges          SheetRanges
}

// SheetRanges are the A1 ranges of each source tab, header row included.
type SheetRanges struct {
	Performance        string
	FinancialResources string
	Invoices           string
	Payroll            string
	NetworkTerms       string
	Transactions       string
}

// Configured reports whether both credentials and a spreadsheet id are present.
func (c SheetsConfig) Configured() bool {
	return c.SpreadsheetID != "" && (c.CredentialsPath != "" || c.CredentialsJSON != "")
}

// Missing names the environment variables still needed to read sheets.
func (c SheetsConfig) Missing() []string {
	var out []string
	if c.CredentialsPath == "" && c.CredentialsJSON == "" {
		out = append(out, "GOOGLE_SHEETS_CREDENTIALS_PATH or GOOGLE_SHEETS_CREDENTIALS_JSON")
	}
	if c.SpreadsheetID == "" {
		out = append(out, "GOOGLE_SHEET_ID")
	}
	return out
}

// SlackConfig holds incoming webhook URLs. Webhooks maps a channel name to its URL.
type SlackConfig struct {
	WebhookURL string
	Webhooks   map[string]string
}

// MondayConfig contains the Monday.com GraphQL credentials and board column ids.
type MondayConfig struct {
	APIToken       string
	APIURL         string
	APIVersion     string
	BoardID        string
	StatusColumn   string
	OwnerColumn    string
	DueColumn      string
	PriorityColumn string
	RatePerMinute  int
}

// ReportingConfig holds scheduler and projection settings.
type ReportingConfig struct {
	CronSchedule    string
	Timezone        string
	Channel         string
	ProjectionDays  int
	ExcludeWeekends bool
}

// CacheConfig controls the upstream response cache.
type CacheConfig struct {
	TTL time.Duration
}

// RedisConfig selects the shared Redis cache. An empty Addr keeps the cache in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MongoDBConfig holds settings for the summary archive. An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// CORSConfig lists the dashboard origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when the environment is already populated.
		_ = godotenv.Load()
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv builds a Config from the current process environment without validating it.
func FromEnv() (*Config, error) {
	ttl, err := getenvInt("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	projectionDays, err := getenvInt("PROJECTION_DAYS", 14)
	if err != nil {
		return nil, err
	}
	rate, err := getenvInt("MONDAY_RATE_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}
	redisDB, err := getenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	excludeWeekends, err := strconv.ParseBool(getenvWithDefault("SPEND_EXCLUDE_WEEKENDS", "true"))
	if err != nil {
		return nil, fmt.Errorf("SPEND_EXCLUDE_WEEKENDS: %w", err)
	}
	webhooks, err := parseWebhooks(os.Getenv("SLACK_WEBHOOKS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			CredentialsJSON: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			Ranges: SheetRanges{
				Performance:        getenvWithDefault("SHEET_RANGE_PERFORMANCE", "Performance!A:K"),
				FinancialResources: getenvWithDefault("SHEET_RANGE_FINANCIAL", "Financial Resources!A:D"),
				Invoices:           getenvWithDefault("SHEET_RANGE_INVOICES", "Invoices!A:F"),
				Payroll:            getenvWithDefault("SHEET_RANGE_PAYROLL", "Payroll!A:D"),
				NetworkTerms:       getenvWithDefault("SHEET_RANGE_NETWORK_TERMS", "Network Terms!A:I"),
				Transactions:       getenvWithDefault("SHEET_RANGE_TRANSACTIONS", "Transactions!A:E"),
			},
		},
		Slack: SlackConfig{
			WebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
			Webhooks:   webhooks,
		},
		Monday: MondayConfig{
			APIToken:       os.Getenv("MONDAY_API_TOKEN"),
			APIURL:         getenvWithDefault("MONDAY_API_URL", "https://api.monday.com/v2"),
			APIVersion:     getenvWithDefault("MONDAY_API_VERSION", "2024-01"),
			BoardID:        os.Getenv("MONDAY_BOARD_ID"),
			StatusColumn:   getenvWithDefault("MONDAY_STATUS_COLUMN", "status"),
			OwnerColumn:    getenvWithDefault("MONDAY_OWNER_COLUMN", "person"),
			DueColumn:      getenvWithDefault("MONDAY_DUE_COLUMN", "date4"),
			PriorityColumn: getenvWithDefault("MONDAY_PRIORITY_COLUMN", "priority"),
			RatePerMinute:  rate,
		},
		Reporting: ReportingConfig{
			CronSchedule:    getenvWithDefault("REPORT_CRON_SCHEDULE", "0 9 * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "America/New_York"),
			Channel:         getenvWithDefault("REPORT_SLACK_CHANNEL", "general"),
			ProjectionDays:  projectionDays,
			ExcludeWeekends: excludeWeekends,
		},
		Cache: CacheConfig{
			TTL: time.Duration(ttl) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "perfdash"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}, nil
}

// Validate rejects malformed values. Missing credentials are allowed: the
// dependent component stays unconfigured and reports it at request time.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("APP_PORT %q is not a valid port", c.Server.Port)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE %q: %w", c.Reporting.CronSchedule, err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Reporting.ProjectionDays <= 0 || c.Reporting.ProjectionDays > 365 {
		return fmt.Errorf("PROJECTION_DAYS must be between 1 and 365, got %d", c.Reporting.ProjectionDays)
	}

	if c.Cache.TTL < 0 {
		return errors.New("CACHE_TTL_SECONDS must not be negative")
	}

	if c.Monday.RatePerMinute <= 0 {
		return errors.New("MONDAY_RATE_PER_MINUTE must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

// parseWebhooks reads "name=url,name=url".
func parseWebhooks(raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range splitList(raw) {
		name, url, ok := strings.Cut(pair, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("SLACK_WEBHOOKS entry %q must look like name=url", pair)
		}
		out[strings.ToLower(name)] = url
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
