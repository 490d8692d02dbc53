package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadIncludesTriageDefaults(t *testing.T) {
	for _, key := range []string{
		"WORKSPACE_ROOT", "OCR_LANGUAGES", "NATS_SUBJECT", "API_RATE_LIMIT_RPS",
		"API_RATE_LIMIT_BURST", "RETRY_INITIAL_BACKOFF", "BREAKER_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.WorkspaceRoot != filepath.Join(os.TempDir(), "BCS") {
		t.Fatalf("expected default workspace root under temp dir, got %q", cfg.WorkspaceRoot)
	}
	if cfg.OCRLanguages != "por+eng" {
		t.Fatalf("expected default ocr languages por+eng, got %q", cfg.OCRLanguages)
	}
	if cfg.NATSSubject != "batches.prepared" {
		t.Fatalf("expected default subject batches.prepared, got %q", cfg.NATSSubject)
	}
	if cfg.APIRateLimitRPS != 20 || cfg.APIRateLimitBurst != 40 {
		t.Fatalf("unexpected rate limit defaults rps=%v burst=%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if cfg.RetryInitialBackoff != 100*time.Millisecond {
		t.Fatalf("expected default initial backoff 100ms, got %s", cfg.RetryInitialBackoff)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
	if cfg.ClassifyWorkers <= 0 {
		t.Fatalf("expected positive classify workers, got %d", cfg.ClassifyWorkers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("WORKSPACE_ROOT", "/srv/bcs")
	t.Setenv("CLASSIFY_WORKERS", "3")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("BATCH_PROCESS_TIMEOUT", "90s")
	t.Setenv("BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.WorkspaceRoot != "/srv/bcs" {
		t.Fatalf("expected workspace root override, got %q", cfg.WorkspaceRoot)
	}
	if cfg.ClassifyWorkers != 3 {
		t.Fatalf("expected classify workers 3, got %d", cfg.ClassifyWorkers)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.BatchProcessTimeout != 90*time.Second {
		t.Fatalf("expected batch timeout 90s, got %s", cfg.BatchProcessTimeout)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled by override")
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("CLASSIFY_WORKERS", "many")
	t.Setenv("RETRY_MAX_BACKOFF", "soon")
	t.Setenv("BREAKER_ENABLED", "perhaps")

	cfg := Load()
	if cfg.ClassifyWorkers <= 0 {
		t.Fatalf("expected fallback worker count, got %d", cfg.ClassifyWorkers)
	}
	if cfg.RetryMaxBackoff != 400*time.Millisecond {
		t.Fatalf("expected fallback max backoff, got %s", cfg.RetryMaxBackoff)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("expected fallback breaker enabled")
	}
}
