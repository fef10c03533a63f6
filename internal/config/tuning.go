package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the simulation tunables an operator may override from a
// yaml file. Zero values fall back to the defaults below.
type Tuning struct {
	TickIntervalMs        int     `yaml:"tick_interval_ms"`
	MaintenanceEveryTicks int     `yaml:"maintenance_every_ticks"`
	StatsWindow           int     `yaml:"stats_window"`
	RandomEventChance     float64 `yaml:"random_event_chance"`

	InitialEnergyPoints     float64 `yaml:"initial_energy_points"`
	InitialAttentionCredits float64 `yaml:"initial_attention_credits"`

	MemoryRetentionHours int `yaml:"memory_retention_hours"`
}

func DefaultTuning() Tuning {
	return Tuning{
		TickIntervalMs:          10_000,
		MaintenanceEveryTicks:   10,
		StatsWindow:             100,
		RandomEventChance:       0.2,
		InitialEnergyPoints:     100,
		InitialAttentionCredits: 50,
		MemoryRetentionHours:    7 * 24,
	}
}

// LoadTuning reads overrides from path; an empty path yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning yaml: %w", err)
	}
	return t, nil
}
