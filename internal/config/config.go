package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detector
	DetectorType string `envconfig:"DETECTOR_TYPE" default:"mock"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Recognition tuning. The thresholds are model-specific cutoffs over
	// cosine similarity; the cluster knobs feed DBSCAN directly.
	EmbeddingDim      int     `envconfig:"EMBEDDING_DIM" default:"512"`
	MatchThreshold    float64 `envconfig:"MATCH_THRESHOLD" default:"0.6"`
	SuggestThreshold  float64 `envconfig:"SUGGEST_THRESHOLD" default:"0.5"`
	ClusterEps        float64 `envconfig:"CLUSTER_EPS" default:"0.4"`
	ClusterMinSamples int     `envconfig:"CLUSTER_MIN_SAMPLES" default:"2"`
	SearchLimit       int     `envconfig:"SEARCH_LIMIT" default:"20"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.MatchThreshold < -1 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be in [-1, 1], got %g", c.MatchThreshold)
	}
	if c.SuggestThreshold < -1 || c.SuggestThreshold > 1 {
		return fmt.Errorf("SUGGEST_THRESHOLD must be in [-1, 1], got %g", c.SuggestThreshold)
	}
	if c.ClusterEps <= 0 {
		return fmt.Errorf("CLUSTER_EPS must be positive, got %g", c.ClusterEps)
	}
	if c.ClusterMinSamples < 1 {
		return fmt.Errorf("CLUSTER_MIN_SAMPLES must be at least 1, got %d", c.ClusterMinSamples)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("SEARCH_LIMIT must be at least 1, got %d", c.SearchLimit)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
