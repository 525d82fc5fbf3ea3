package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntegrityCronDefaultsWhenUnset(t *testing.T) {
	t.Setenv("INTEGRITY_CRON", "placeholder") // register restore
	os.Unsetenv("INTEGRITY_CRON")

	cfg := Load()
	assert.Equal(t, "@hourly", cfg.IntegritySpec)
}

func TestIntegrityCronEmptyDisables(t *testing.T) {
	t.Setenv("INTEGRITY_CRON", "")

	cfg := Load()
	assert.Empty(t, cfg.IntegritySpec, "explicitly empty value must disable the sweep")
}

func TestIntegrityCronExplicitValue(t *testing.T) {
	t.Setenv("INTEGRITY_CRON", "@every 5m")

	cfg := Load()
	assert.Equal(t, "@every 5m", cfg.IntegritySpec)
}

func TestRetrySettings(t *testing.T) {
	t.Setenv("STORE_RETRY_MAX", "7")
	t.Setenv("STORE_RETRY_BACKOFF_MS", "120")

	cfg := Load()
	assert.Equal(t, 7, cfg.RetryMax)
	assert.Equal(t, 120*time.Millisecond, cfg.RetryBackoff)
}
