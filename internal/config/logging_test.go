package config

import (
	"path/filepath"
	"testing"

	"github.com/shimmeringbee/logwrap"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, logwrap.Debug, level)

	level, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logwrap.Info, level)

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Run("unknown level is reported", func(t *testing.T) {
		_, err := NewLogger(LoggingConfig{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("file logging is configured from viper", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set(KeyLogFile, filepath.Join(t.TempDir(), "ptzctl.log"))

		cfg := Logging(v)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, 10, cfg.Size)
		assert.Equal(t, 3, cfg.Count)

		_, err := NewLogger(cfg)
		assert.NoError(t, err)
	})
}
