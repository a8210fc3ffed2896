package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/sietch")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "mock", cfg.DetectorType)
	assert.Equal(t, 512, cfg.EmbeddingDim)
	assert.Equal(t, 0.6, cfg.MatchThreshold)
	assert.Equal(t, 0.5, cfg.SuggestThreshold)
	assert.Equal(t, 0.4, cfg.ClusterEps)
	assert.Equal(t, 2, cfg.ClusterMinSamples)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/sietch")
	t.Setenv("ENV", "production")
	t.Setenv("MATCH_THRESHOLD", "0.75")
	t.Setenv("CLUSTER_EPS", "0.35")
	t.Setenv("DETECTOR_TYPE", "deepface")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.75, cfg.MatchThreshold)
	assert.Equal(t, 0.35, cfg.ClusterEps)
	assert.Equal(t, "deepface", cfg.DetectorType)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "threshold above one",
			mutate:  func(cfg *Config) { cfg.MatchThreshold = 1.5 },
			wantErr: "MATCH_THRESHOLD",
		},
		{
			name:    "threshold below minus one",
			mutate:  func(cfg *Config) { cfg.SuggestThreshold = -2 },
			wantErr: "SUGGEST_THRESHOLD",
		},
		{
			name:    "zero eps",
			mutate:  func(cfg *Config) { cfg.ClusterEps = 0 },
			wantErr: "CLUSTER_EPS",
		},
		{
			name:    "zero min samples",
			mutate:  func(cfg *Config) { cfg.ClusterMinSamples = 0 },
			wantErr: "CLUSTER_MIN_SAMPLES",
		},
		{
			name:    "zero embedding dim",
			mutate:  func(cfg *Config) { cfg.EmbeddingDim = 0 },
			wantErr: "EMBEDDING_DIM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				EmbeddingDim:      512,
				MatchThreshold:    0.6,
				SuggestThreshold:  0.5,
				ClusterEps:        0.4,
				ClusterMinSamples: 2,
				SearchLimit:       20,
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
