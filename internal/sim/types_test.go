package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/magbasin/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.TimeStep != 0.01 || cfg.MaxSteps != 5000 || cfg.CheckInterval != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.TimeStep = 0 }},
		{"negative dt", func(c *Config) { c.TimeStep = -0.1 }},
		{"zero max steps", func(c *Config) { c.MaxSteps = 0 }},
		{"zero capture radius", func(c *Config) { c.CaptureRadius = 0 }},
		{"basin inside capture", func(c *Config) { c.BasinRadius = c.CaptureRadius / 2 }},
		{"zero check interval", func(c *Config) { c.CheckInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.BasinRadius = cfg.CaptureRadius
	if err := cfg.Validate(); err != nil {
		t.Errorf("basin radius equal to capture radius should be allowed: %v", err)
	}
}

func TestEndReasonText(t *testing.T) {
	for _, r := range EndReasons() {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", r, err)
		}
		var back EndReason
		if err := back.UnmarshalText(b); err != nil || back != r {
			t.Errorf("round trip of %v gave %v, %v", r, back, err)
		}
	}
	var r EndReason
	if err := r.UnmarshalText([]byte("teleported")); err == nil {
		t.Error("expected error for unknown reason")
	}
	if EndReason(42).String() != "EndReason(42)" {
		t.Errorf("unexpected name %q", EndReason(42).String())
	}
}

func TestCapturedMagnet(t *testing.T) {
	if _, ok := (Result{Captured: NoMagnet}).CapturedMagnet(); ok {
		t.Error("NoMagnet reported as captured")
	}
	if idx, ok := (Result{Captured: 2}).CapturedMagnet(); !ok || idx != 2 {
		t.Errorf("got (%d, %v), want (2, true)", idx, ok)
	}
}
