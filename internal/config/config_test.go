package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "VITE_API_BASE_URL", "BASE_PATH", "PREDICTION_TIMEOUT",
		"SESSION_BACKEND", "SESSION_TTL", "SERVER_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prediction.PredictURL() != "http://127.0.0.1:8000/predict-agency-mbs-price/" {
		t.Errorf("unexpected predict URL %q", cfg.Prediction.PredictURL())
	}
	if cfg.Server.BasePath != "/agency-mbs-pricing-and-valuation-predictor-ui-service" {
		t.Errorf("unexpected base path %q", cfg.Server.BasePath)
	}
	if cfg.Prediction.RequestTimeout() != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.Prediction.RequestTimeout())
	}
	if cfg.Session.Backend != "memory" {
		t.Errorf("expected memory sessions by default, got %q", cfg.Session.Backend)
	}
	if cfg.Session.SessionTTL() != time.Hour {
		t.Errorf("expected 1h session TTL, got %v", cfg.Session.SessionTTL())
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_APIBaseFallback(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("VITE_API_BASE_URL", "https://pricing.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prediction.PredictURL() != "https://pricing.example.com/predict-agency-mbs-price/" {
		t.Errorf("unexpected predict URL %q", cfg.Prediction.PredictURL())
	}

	t.Setenv("API_BASE_URL", "http://backend:9000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prediction.APIBase != "http://backend:9000" {
		t.Errorf("API_BASE_URL should win over VITE_API_BASE_URL, got %q", cfg.Prediction.APIBase)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Unknown session backend", key: "SESSION_BACKEND", value: "memcached"},
		{name: "Negative timeout", key: "PREDICTION_TIMEOUT", value: "-3"},
		{name: "Zero TTL", key: "SESSION_TTL", value: "0"},
		{name: "No CORS origin", key: "CORS_ALLOWED_ORIGINS", value: " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		"/":          "/",
		"ui":         "/ui",
		"/ui/":       "/ui",
		" /a/b/ ":    "/a/b",
		"//double//": "/double",
	}

	for in, want := range tests {
		if got := NormalizeBasePath(in); got != want {
			t.Errorf("NormalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad_CORSLists(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CORS_ALLOWED_METHODS", "GET,POST,,PUT")
	t.Setenv("CORS_ALLOWED_HEADERS", " Content-Type , X-Request-ID ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	check := func(name string, got, want []string) {
		t.Helper()
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	check("origins", cfg.Server.CORSOrigins(), []string{"https://a.example.com", "https://b.example.com"})
	check("methods", cfg.Server.CORSMethods(), []string{"GET", "POST", "PUT"})
	check("headers", cfg.Server.CORSHeaders(), []string{"Content-Type", "X-Request-ID"})
}
