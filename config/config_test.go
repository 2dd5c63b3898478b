package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-infobot/cbr"
	"go-infobot/newsapi"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("NEWS_API_KEY", "news-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 30*time.Second, cfg.Telegram.UpdateTimeout)
	assert.Equal(t, cbr.DefaultURL, cfg.Rates.URL)
	assert.Equal(t, 5*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, "news-key", cfg.News.APIKey)
	assert.Equal(t, newsapi.DefaultURL, cfg.News.URL)
	assert.Equal(t, newsapi.DefaultQuery, cfg.News.Query)
	assert.Equal(t, newsapi.DefaultLimit, cfg.News.Limit)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("NEWS_QUERY", "Кронштадт")
	t.Setenv("NEWS_LIMIT", "5")
	t.Setenv("RATES_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "Кронштадт", cfg.News.Query)
	assert.Equal(t, 5, cfg.News.Limit)
	assert.Equal(t, 250*time.Millisecond, cfg.Rates.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "")
		require.NoError(t, os.Unsetenv("TELEGRAM_TOKEN"))
		t.Setenv("NEWS_API_KEY", "news-key")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("news key", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "123:abc")
		t.Setenv("NEWS_API_KEY", "")
		require.NoError(t, os.Unsetenv("NEWS_API_KEY"))
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("blank token", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "  ")
		t.Setenv("NEWS_API_KEY", "news-key")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_Invalid(t *testing.T) {
	setRequired(t)

	t.Setenv("NEWS_LIMIT", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NEWS_LIMIT", "3")
	t.Setenv("LOG_LEVEL", "verbose")
	_, err = Load()
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "TELEGRAM_TOKEN")
	assert.Contains(t, usage, "NEWS_API_KEY")
}
