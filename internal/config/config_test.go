// README: Config default and env-override tests.
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Dispatch.CandidateCount != 4 {
		t.Errorf("CandidateCount = %d, want 4", cfg.Dispatch.CandidateCount)
	}
	if cfg.Dispatch.GlobalTimeout != 30*time.Second {
		t.Errorf("GlobalTimeout = %v, want 30s", cfg.Dispatch.GlobalTimeout)
	}
	if cfg.Dispatch.OfferDelay != 5*time.Second {
		t.Errorf("OfferDelay = %v, want 5s", cfg.Dispatch.OfferDelay)
	}
	if !cfg.Dispatch.ZoneRetryOnEmpty {
		t.Errorf("ZoneRetryOnEmpty should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RYDE_CANDIDATE_COUNT", "6")
	t.Setenv("RYDE_OFFER_DELAY", "2s")
	t.Setenv("RYDE_DISPATCH_TIMEOUT", "45s")
	t.Setenv("RYDE_ZONE_RETRY_ON_EMPTY", "false")
	t.Setenv("RYDE_HTTP_ADDR", ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dispatch.CandidateCount != 6 {
		t.Errorf("CandidateCount = %d, want 6", cfg.Dispatch.CandidateCount)
	}
	if cfg.Dispatch.OfferDelay != 2*time.Second {
		t.Errorf("OfferDelay = %v, want 2s", cfg.Dispatch.OfferDelay)
	}
	if cfg.Dispatch.GlobalTimeout != 45*time.Second {
		t.Errorf("GlobalTimeout = %v, want 45s", cfg.Dispatch.GlobalTimeout)
	}
	if cfg.Dispatch.ZoneRetryOnEmpty {
		t.Errorf("ZoneRetryOnEmpty should be overridden to false")
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %q, want :9999", cfg.HTTP.Addr)
	}
}
