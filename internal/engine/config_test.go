package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, 40.0, cfg.MinimumThreshold)
	assert.Equal(t, 60.0, cfg.DecentThreshold)
	assert.Equal(t, 5, cfg.MinTopics)
	assert.Equal(t, 45*time.Minute, cfg.DurationLimit())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid custom config",
			cfg:  Config{MinimumThreshold: 30, DecentThreshold: 50, MinTopics: 3, DurationLimitMs: 30 * 60 * 1000},
		},
		{
			name:    "decent below minimum",
			cfg:     Config{MinimumThreshold: 70, DecentThreshold: 50, MinTopics: 5, DurationLimitMs: 60_000},
			wantErr: true,
		},
		{
			name:    "threshold above scale",
			cfg:     Config{MinimumThreshold: 40, DecentThreshold: 120, MinTopics: 5, DurationLimitMs: 60_000},
			wantErr: true,
		},
		{
			name:    "duration below one minute",
			cfg:     Config{MinimumThreshold: 40, DecentThreshold: 60, MinTopics: 5, DurationLimitMs: 1000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"minimum_threshold: 35\ndecent_threshold: 55\nmin_topics: 4\n",
	), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 35.0, cfg.MinimumThreshold)
	assert.Equal(t, 55.0, cfg.DecentThreshold)
	assert.Equal(t, 4, cfg.MinTopics)
	// Unset fields fall back to defaults.
	assert.Equal(t, 45*time.Minute, cfg.DurationLimit())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("minimum_threshold: 90\ndecent_threshold: 50\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}
