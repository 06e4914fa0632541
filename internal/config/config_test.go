package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "")
	t.Setenv("SLACK_WEBHOOKS", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("PROJECTION_DAYS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 14, cfg.Reporting.ProjectionDays)
	assert.False(t, cfg.Sheets.Configured())
	assert.Len(t, cfg.Sheets.Missing(), 2)
	assert.Empty(t, cfg.Slack.Webhooks)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_JSON", `{"type":"service_account"}`)
	t.Setenv("GOOGLE_SHEET_ID", "sheet-1")
	t.Setenv("SLACK_WEBHOOKS", "Finance=https://hooks.slack.test/a, ops=https://hooks.slack.test/b")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("SPEND_EXCLUDE_WEEKENDS", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Sheets.Configured())
	assert.Equal(t, "https://hooks.slack.test/a", cfg.Slack.Webhooks["finance"])
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Reporting.ExcludeWeekends)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "five")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "CACHE_TTL_SECONDS")

	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("SLACK_WEBHOOKS", "no-equals-sign")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "SLACK_WEBHOOKS")
}

func TestValidate(t *testing.T) {
	t.Setenv("SLACK_WEBHOOKS", "")
	base, err := FromEnv()
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }, "APP_PORT"},
		{"bad cron", func(c *Config) { c.Reporting.CronSchedule = "every day" }, "REPORT_CRON_SCHEDULE"},
		{"bad timezone", func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"bad projection days", func(c *Config) { c.Reporting.ProjectionDays = 0 }, "PROJECTION_DAYS"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "CACHE_TTL_SECONDS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
