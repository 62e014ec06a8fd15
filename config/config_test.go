package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("Server.AllowedOrigins = %v, want localhost and capacitor wildcards", cfg.Server.AllowedOrigins)
	}
	if cfg.Recommender.WebhookURL != "http://localhost:5678/webhook/scancook" {
		t.Errorf("Recommender.WebhookURL = %q, want local webhook default", cfg.Recommender.WebhookURL)
	}
	if cfg.Recommender.Timeout != 30*time.Second {
		t.Errorf("Recommender.Timeout = %s, want 30s", cfg.Recommender.Timeout)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %s, want 2h", cfg.Session.TTL)
	}
	if cfg.Fixtures.SimulatedLatency != 800*time.Millisecond {
		t.Errorf("Fixtures.SimulatedLatency = %s, want 800ms", cfg.Fixtures.SimulatedLatency)
	}
	if cfg.RateLimit.Recommender != 1000 {
		t.Errorf("RateLimit.Recommender = %d, want 1000", cfg.RateLimit.Recommender)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SCANCOOK_SERVER_PORT", "9090")
	t.Setenv("SCANCOOK_RECOMMENDER_WEBHOOK_URL", "https://hooks.example.com/scancook")
	t.Setenv("SCANCOOK_RECOMMENDER_USER_ID", "staging-app")
	t.Setenv("SCANCOOK_SESSION_TTL", "45m")
	t.Setenv("SCANCOOK_FIXTURES_SIMULATED_LATENCY", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Recommender.WebhookURL != "https://hooks.example.com/scancook" {
		t.Errorf("Recommender.WebhookURL = %q, want override", cfg.Recommender.WebhookURL)
	}
	if cfg.Recommender.UserID != "staging-app" {
		t.Errorf("Recommender.UserID = %q, want staging-app", cfg.Recommender.UserID)
	}
	if cfg.Session.TTL != 45*time.Minute {
		t.Errorf("Session.TTL = %s, want 45m", cfg.Session.TTL)
	}
	if cfg.Fixtures.SimulatedLatency != 0 {
		t.Errorf("Fixtures.SimulatedLatency = %s, want 0", cfg.Fixtures.SimulatedLatency)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Recommender: RecommenderConfig{WebhookURL: "http://localhost:5678/webhook/scancook"},
			Session:     SessionConfig{TTL: 2 * time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing webhook url", mutate: func(c *Config) { c.Recommender.WebhookURL = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Session.TTL = -time.Minute }, wantErr: true},
		{name: "negative latency", mutate: func(c *Config) { c.Fixtures.SimulatedLatency = -time.Second }, wantErr: true},
		{name: "zero latency is fine", mutate: func(c *Config) { c.Fixtures.SimulatedLatency = 0 }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := validate(cfg); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
