package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_ThresholdOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.SimilarityThreshold = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for similarity threshold > 1")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.Store.EmbedRatePerSec != 5 {
		t.Errorf("embed rate default = %v, want 5", cfg.Store.EmbedRatePerSec)
	}
	if cfg.Store.EmbedTimeoutSec != 30 {
		t.Errorf("embed timeout default = %d, want 30", cfg.Store.EmbedTimeoutSec)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("model default = %q", cfg.Embedding.Model)
	}
	if cfg.Search.SimilarityThreshold != 0.2 {
		t.Errorf("similarity threshold default = %v, want 0.2", cfg.Search.SimilarityThreshold)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("UNIDEX_TEST_KEY", "secret")
	defer os.Unsetenv("UNIDEX_TEST_KEY")

	tests := []struct {
		in   string
		want string
	}{
		{"api_key: ${UNIDEX_TEST_KEY}", "api_key: secret"},
		{"port: ${UNIDEX_TEST_MISSING:-8080}", "port: 8080"},
		{"plain: value", "plain: value"},
	}

	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
