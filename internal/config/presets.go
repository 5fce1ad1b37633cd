package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/magbasin/internal/dynamo"
)

func ring(n int, radius, strength float64, phase float64) []MagnetConfig {
	magnets := make([]MagnetConfig, n)
	for i := range magnets {
		a := phase + float64(i)*2*math.Pi/float64(n)
		magnets[i] = MagnetConfig{
			Position:  Vector{X: radius * math.Cos(a), Y: radius * math.Sin(a)},
			Direction: "attract",
			Strength:  strength,
		}
	}
	return magnets
}

func withMagnets(approx string, suspension Vector, magnets []MagnetConfig) *Config {
	cfg := DefaultConfig()
	cfg.System.Magnets = magnets
	cfg.System.Pendulum.Approximation = approx
	cfg.System.Pendulum.SuspensionPoint = suspension
	return cfg
}

var Presets = map[string]func() *Config{
	"single": func() *Config {
		return withMagnets("small_angle", Vector{Z: 1}, []MagnetConfig{
			{Direction: "attract", Strength: 5},
		})
	},
	"triangle": func() *Config {
		return withMagnets("small_angle", Vector{Z: 1}, ring(3, 1.0, 0.5, 0))
	},
	"square": func() *Config {
		return withMagnets("small_angle", Vector{Z: 1}, ring(4, 1.0, 0.5, math.Pi/4))
	},
	"mixed": func() *Config {
		magnets := ring(3, 1.0, 0.5, math.Pi/2)
		magnets = append(magnets, MagnetConfig{Direction: "repel", Strength: 0.2})
		return withMagnets("small_angle", Vector{Z: 1}, magnets)
	},
	"rigorous": func() *Config {
		cfg := withMagnets("rigorous", Vector{Z: 2}, ring(3, 0.6, 0.4, 0))
		cfg.Render.HeightLimitRatio = 0.5
		return cfg
	},
}

// GetPreset returns a fresh copy of a named configuration.
func GetPreset(name string) (*Config, error) {
	fn, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	return fn(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
