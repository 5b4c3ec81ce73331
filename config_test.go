// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewConf(nil), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DataDir != "data" || cfg.OutputDir != "output" {
		t.Errorf("dirs = %s, %s", cfg.DataDir, cfg.OutputDir)
	}
	if cfg.FirstYear != 2018 || cfg.LastYear != 2020 || len(cfg.ShockYears) != 1 || cfg.ShockYears[0] != 2020 {
		t.Errorf("years = %d-%d shock %v", cfg.FirstYear, cfg.LastYear, cfg.ShockYears)
	}
	if cfg.InfectionCutoff != (MonthKey{Year: 2021, Month: time.July}) || cfg.Region != "Canada" {
		t.Errorf("infections = %s before %s", cfg.Region, cfg.InfectionCutoff)
	}
	if cfg.Categories[CategoryMarriage].BaselineOffset != 1750 || cfg.Categories[CategoryBirth].BaselineOffset != 1000 {
		t.Errorf("baseline offsets = %+v", cfg.Categories)
	}
	if cfg.Categories[CategoryMarriage].PhaseOffset != 1 || cfg.Categories[CategoryBirth].PhaseOffset != 2 {
		t.Errorf("phase offsets = %+v", cfg.Categories)
	}
	if cfg.VitalEventsPath() != filepath.Join("data", "vital_events_data_by_month.csv") {
		t.Errorf("VitalEventsPath = %s", cfg.VitalEventsPath())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("VITAL_FIRST_YEAR", "2017")
	t.Setenv("VITAL_LAST_YEAR", "2019")
	t.Setenv("VITAL_SHOCK_YEARS", "2019")
	t.Setenv("VITAL_REGION", "Ontario")
	t.Setenv("VITAL_INFECTION_CUTOFF", "2020-01")
	t.Setenv("VITAL_CURVE_PERIODS", "48")
	t.Setenv("VITAL_CASE_SCALE", "100.5")
	t.Setenv("VITAL_MARRIAGE_BASELINE_OFFSET", "1800")
	t.Setenv("VITAL_BIRTH_PHASE_OFFSET", "3")

	cfg, err := LoadConfig(NewConf(nil), []string{"in", "out"})
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DataDir != "in" || cfg.OutputDir != "out" {
		t.Errorf("dirs = %s, %s", cfg.DataDir, cfg.OutputDir)
	}
	if cfg.FirstYear != 2017 || cfg.LastYear != 2019 || cfg.ShockYears[0] != 2019 {
		t.Errorf("years = %d-%d shock %v", cfg.FirstYear, cfg.LastYear, cfg.ShockYears)
	}
	if cfg.Region != "Ontario" || cfg.InfectionCutoff != (MonthKey{Year: 2020, Month: time.January}) {
		t.Errorf("infections = %s before %s", cfg.Region, cfg.InfectionCutoff)
	}
	if cfg.CurvePeriods != 48 || cfg.CaseScale != 100.5 {
		t.Errorf("graph = %d periods, scale %v", cfg.CurvePeriods, cfg.CaseScale)
	}
	if cfg.Categories[CategoryMarriage].BaselineOffset != 1800 || cfg.Categories[CategoryMarriage].PhaseOffset != 1 {
		t.Errorf("marriage = %+v", cfg.Categories[CategoryMarriage])
	}
	if cfg.Categories[CategoryBirth].PhaseOffset != 3 || cfg.Categories[CategoryBirth].BaselineOffset != 1000 {
		t.Errorf("birth = %+v", cfg.Categories[CategoryBirth])
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("VITAL_CURVE_PERIODS", "lots")
	t.Setenv("VITAL_CASE_SCALE", "big")
	t.Setenv("VITAL_SHOCK_YEARS", "2020,soon")
	t.Setenv("VITAL_INFECTION_CUTOFF", "July")

	var buf bytes.Buffer
	log := NewLogger(LogOptions{Level: "warn", Format: "json", Writer: &buf})

	cfg, err := LoadConfig(NewConf(&log), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	def := DefaultConfig()
	if cfg.CurvePeriods != def.CurvePeriods || cfg.CaseScale != def.CaseScale ||
		cfg.ShockYears[0] != def.ShockYears[0] || cfg.InfectionCutoff != def.InfectionCutoff {
		t.Errorf("invalid values were not replaced by defaults: %+v", cfg)
	}

	out := buf.String()
	for _, key := range []string{"VITAL_CURVE_PERIODS", "VITAL_CASE_SCALE", "VITAL_SHOCK_YEARS", "VITAL_INFECTION_CUTOFF"} {
		if !strings.Contains(out, key) {
			t.Errorf("no warning logged for %s", key)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"reversed years":       func(c *Config) { c.FirstYear, c.LastYear = 2020, 2018 },
		"no shock years":       func(c *Config) { c.ShockYears = nil },
		"shock outside range":  func(c *Config) { c.ShockYears = []int{2021} },
		"shock before base":    func(c *Config) { c.ShockYears = []int{2018} },
		"three baseline years": func(c *Config) { c.FirstYear = 2017 },
		"one baseline year":    func(c *Config) { c.FirstYear = 2019 },
		"zero periods":         func(c *Config) { c.CurvePeriods = 0 },
		"zero scale":           func(c *Config) { c.CaseScale = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate returned no error", name)
		}
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	// two shock years after the baseline are fine
	cfg := DefaultConfig()
	cfg.LastYear = 2021
	cfg.ShockYears = []int{2020, 2021}
	if err := cfg.Validate(); err != nil {
		t.Errorf("2020-2021 shock: %v", err)
	}
}
