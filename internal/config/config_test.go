package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TWA_INIT_DATA", "query_id=abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BackendURL != "https://creators-analytic-backend.onrender.com" {
		t.Errorf("unexpected default BackendURL %s", cfg.BackendURL)
	}

	if cfg.InitData != "query_id=abc" {
		t.Errorf("expected InitData to be set, got %s", cfg.InitData)
	}

	if cfg.SyncPollInterval != 3*time.Second {
		t.Errorf("expected default poll interval 3s, got %v", cfg.SyncPollInterval)
	}

	if cfg.SyncWatchdog != 120*time.Second {
		t.Errorf("expected default watchdog 120s, got %v", cfg.SyncWatchdog)
	}

	if cfg.BannerDuration != 3*time.Second {
		t.Errorf("expected default banner duration 3s, got %v", cfg.BannerDuration)
	}

	if cfg.LogFormat != "text" {
		t.Errorf("expected default LogFormat 'text', got %s", cfg.LogFormat)
	}

	if cfg.DevPort != 8090 {
		t.Errorf("expected default DevPort 8090, got %d", cfg.DevPort)
	}

	if len(cfg.DevCORSOrigins) != 1 || cfg.DevCORSOrigins[0] != "https://web.telegram.org" {
		t.Errorf("unexpected default DevCORSOrigins %v", cfg.DevCORSOrigins)
	}

	if cfg.DevSyncStep != 700*time.Millisecond {
		t.Errorf("expected default sync step 700ms, got %v", cfg.DevSyncStep)
	}
}

func TestLoad_CORSOriginsList(t *testing.T) {
	t.Setenv("DEV_CORS_ORIGINS", "https://a.test,https://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cfg.DevCORSOrigins) != 2 || cfg.DevCORSOrigins[1] != "https://b.test" {
		t.Errorf("unexpected origins %v", cfg.DevCORSOrigins)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
}

func TestLoad_InvalidBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "not a url")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid backend url, got nil")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}

	cfg.AppEnv = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction to return false")
	}
}

func TestConfig_GetDevAdminIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{"empty", "", nil},
		{"single", "42", []int64{42}},
		{"spaces", " 1, 2 ,3", []int64{1, 2, 3}},
		{"skips_garbage", "1,abc,2", []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DevAdminIDs: tt.raw}
			got := cfg.GetDevAdminIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: expected %d, got %d", i, tt.want[i], got[i])
				}
			}
		})
	}
}
