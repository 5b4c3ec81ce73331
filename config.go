// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Conf is a prefixed view over environment variables, e.g. Conf.Prefix("VITAL_").
// Invalid values are logged and replaced by the default.
type Conf struct {
	prefix string
	log    *zerolog.Logger
}

// NewConf creates a root Conf that reports bad values to log
func NewConf(log *zerolog.Logger) Conf {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return Conf{log: log}
}

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, log: c.log} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.log.Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
		return def
	}
	return v
}

// MayFloat returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayFloat(key string, def float64) float64 {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.log.Warn().Str("key", c.key(key)).Str("value", s).Float64("default", def).Msg("invalid float; using default")
		return def
	}
	return v
}

// MayInts parses a comma separated int list; logs and returns def if any item is invalid
func (c Conf) MayInts(key string, def []int) []int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			c.log.Warn().Str("key", c.key(key)).Str("value", s).Ints("default", def).Msg("invalid int list; using default")
			return def
		}
		out = append(out, v)
	}
	return out
}

// MayMonth parses a YYYY-MM value; logs and returns def if invalid
func (c Conf) MayMonth(key string, def MonthKey) MonthKey {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	k, err := ParseMonthKey(s)
	if err != nil {
		c.log.Warn().Str("key", c.key(key)).Str("value", s).Stringer("default", def).Msg("invalid month; using default")
		return def
	}
	return k
}

// Config is everything the command needs to run
type Config struct {
	DataDir   string
	OutputDir string

	VitalEventsFile string
	InfectionsFile  string

	// Years loaded from the vital events table
	FirstYear int
	LastYear  int
	// Years excluded from the baseline
	ShockYears []int

	// Infection rows kept for this region, before this month
	Region          string
	InfectionCutoff MonthKey

	// Number of points of the theoretical curve on the graph
	CurvePeriods int
	// Infections are divided by this before plotting next to vital events
	CaseScale float64

	Categories map[Category]CategoryConfig
}

// DefaultConfig matches the Canadian 2018-2020 analysis
func DefaultConfig() Config {
	return Config{
		DataDir:         "data",
		OutputDir:       "output",
		VitalEventsFile: "vital_events_data_by_month.csv",
		InfectionsFile:  "covid19_data.csv",
		FirstYear:       2018,
		LastYear:        2020,
		ShockYears:      []int{2020},
		Region:          "Canada",
		InfectionCutoff: MonthKey{Year: 2021, Month: 7},
		CurvePeriods:    36,
		CaseScale:       800,
		Categories:      DefaultCategoryConfigs(),
	}
}

// LoadConfig builds a Config from positional args ([data_dir] [output_dir]) and VITAL_* env vars
func LoadConfig(conf Conf, args []string) (Config, error) {
	cfg := DefaultConfig()
	if len(args) > 0 && args[0] != "" {
		cfg.DataDir = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		cfg.OutputDir = args[1]
	}

	c := conf.Prefix("VITAL_")
	cfg.VitalEventsFile = c.MayString("VITAL_EVENTS_FILE", cfg.VitalEventsFile)
	cfg.InfectionsFile = c.MayString("INFECTIONS_FILE", cfg.InfectionsFile)
	cfg.FirstYear = c.MayInt("FIRST_YEAR", cfg.FirstYear)
	cfg.LastYear = c.MayInt("LAST_YEAR", cfg.LastYear)
	cfg.ShockYears = c.MayInts("SHOCK_YEARS", cfg.ShockYears)
	cfg.Region = c.MayString("REGION", cfg.Region)
	cfg.InfectionCutoff = c.MayMonth("INFECTION_CUTOFF", cfg.InfectionCutoff)
	cfg.CurvePeriods = c.MayInt("CURVE_PERIODS", cfg.CurvePeriods)
	cfg.CaseScale = c.MayFloat("CASE_SCALE", cfg.CaseScale)

	marriage := cfg.Categories[CategoryMarriage]
	marriage.PhaseOffset = c.MayInt("MARRIAGE_PHASE_OFFSET", marriage.PhaseOffset)
	marriage.BaselineOffset = c.MayFloat("MARRIAGE_BASELINE_OFFSET", marriage.BaselineOffset)
	cfg.Categories[CategoryMarriage] = marriage

	birth := cfg.Categories[CategoryBirth]
	birth.PhaseOffset = c.MayInt("BIRTH_PHASE_OFFSET", birth.PhaseOffset)
	birth.BaselineOffset = c.MayFloat("BIRTH_BASELINE_OFFSET", birth.BaselineOffset)
	cfg.Categories[CategoryBirth] = birth

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the year layout leaves exactly two baseline years ahead of the shock
func (cfg Config) Validate() error {
	if cfg.FirstYear > cfg.LastYear {
		return fmt.Errorf("first year %d is after last year %d", cfg.FirstYear, cfg.LastYear)
	}
	if len(cfg.ShockYears) == 0 {
		return fmt.Errorf("no shock years configured")
	}
	for _, y := range cfg.ShockYears {
		if y < cfg.FirstYear || y > cfg.LastYear {
			return fmt.Errorf("shock year %d outside %d-%d", y, cfg.FirstYear, cfg.LastYear)
		}
	}
	baselineYears := 0
	for y := cfg.FirstYear; y <= cfg.LastYear; y++ {
		if containsYear(cfg.ShockYears, y) {
			continue
		}
		if y > cfg.FirstYear+1 {
			return fmt.Errorf("baseline year %d follows a shock year", y)
		}
		baselineYears++
	}
	if baselineYears*PeriodMonths != BaselineMonths {
		return fmt.Errorf("need %d baseline years, got %d", BaselineMonths/PeriodMonths, baselineYears)
	}
	if cfg.CurvePeriods <= 0 {
		return fmt.Errorf("curve periods must be > 0, got %d", cfg.CurvePeriods)
	}
	if cfg.CaseScale <= 0 {
		return fmt.Errorf("case scale must be > 0, got %v", cfg.CaseScale)
	}
	return nil
}

// VitalEventsPath is the vital events CSV inside DataDir
func (cfg Config) VitalEventsPath() string { return filepath.Join(cfg.DataDir, cfg.VitalEventsFile) }

// InfectionsPath is the infections CSV inside DataDir
func (cfg Config) InfectionsPath() string { return filepath.Join(cfg.DataDir, cfg.InfectionsFile) }

// OutputPath joins name onto OutputDir
func (cfg Config) OutputPath(name string) string { return filepath.Join(cfg.OutputDir, name) }
