package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Discovery.LocationHint == "" {
		t.Fatalf("keyword queries must ship with a location hint")
	}
	if cfg.Discovery.RadiusMeters != 10000 || cfg.Discovery.TopN != 30 {
		t.Fatalf("unexpected discovery defaults: %+v", cfg.Discovery)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("expected sqlite as the default driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Wiki.APIBaseURL == "" || cfg.Wiki.TimeoutSeconds == 0 {
		t.Fatalf("unexpected wiki defaults: %+v", cfg.Wiki)
	}
}

func TestMergeConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	base := defaultConfig()
	merged := mergeConfig(base, Config{
		Discovery: DiscoveryConfig{TopN: 10},
		Storage:   StorageConfig{Driver: "mongo"},
	})

	if merged.Discovery.TopN != 10 {
		t.Fatalf("override lost: %d", merged.Discovery.TopN)
	}
	if merged.Storage.Driver != "mongo" {
		t.Fatalf("override lost: %q", merged.Storage.Driver)
	}
	// Unset override fields fall back to the defaults.
	if merged.Discovery.LocationHint != base.Discovery.LocationHint {
		t.Fatalf("default hint lost: %q", merged.Discovery.LocationHint)
	}
	if merged.Wiki.APIBaseURL != base.Wiki.APIBaseURL {
		t.Fatalf("default API URL lost: %q", merged.Wiki.APIBaseURL)
	}
}
