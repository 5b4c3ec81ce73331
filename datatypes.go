// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Model constants, the period is assumed and never inferred from the data
const (
	// Months in one period of the sine model
	PeriodMonths = 12
	// Baseline window is two full years
	BaselineMonths = 2 * PeriodMonths
	// Months of baseline year 1 scanned for the midline crossing
	PhaseScanMonths = 7
)

// AngularFrequency is fixed at 2π/12
const AngularFrequency = (2 * math.Pi) / PeriodMonths

// MonthKey identifies one calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// String formats the key as YYYY-MM
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is chronologically earlier than o
func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Next returns the month right after k
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// ParseMonthKey parses a YYYY-MM (or YYYY-MM-DD) string
func ParseMonthKey(s string) (MonthKey, error) {
	layout := "2006-01"
	if len(s) == len("2006-01-02") {
		layout = "2006-01-02"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// Which kind of counts a series holds
type Category int

// Categories, the zero value means unspecified
const (
	CategoryMarriage Category = iota + 1
	CategoryBirth
	CategoryInfection
)

func (c Category) String() string {
	switch c {
	case CategoryMarriage:
		return "Marriages"
	case CategoryBirth:
		return "Births"
	case CategoryInfection:
		return "Infections"
	default:
		return "Unspecified"
	}
}

// CategoryConfig holds the per-category calibration constants.
// PhaseOffset shifts the detected midline crossing (marriage peaks a month
// earlier than birth). BaselineOffset is added to every predicted value.
type CategoryConfig struct {
	Category       Category
	PhaseOffset    int
	BaselineOffset float64
}

// DefaultCategoryConfigs returns the constants calibrated on the 2018-2020 dataset
func DefaultCategoryConfigs() map[Category]CategoryConfig {
	return map[Category]CategoryConfig{
		CategoryMarriage: {Category: CategoryMarriage, PhaseOffset: 1, BaselineOffset: 1750},
		CategoryBirth:    {Category: CategoryBirth, PhaseOffset: 2, BaselineOffset: 1000},
	}
}

// MonthlySeries is a chronologically ordered month -> count mapping.
// The index of an entry is the time variable x of the model.
type MonthlySeries struct {
	Category Category
	Keys     []MonthKey
	Values   []float64
}

// Len returns the number of months in the series
func (s *MonthlySeries) Len() int { return len(s.Values) }

// Validate checks keys and values line up, keys strictly increase and counts are non-negative
func (s *MonthlySeries) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: series is nil", ErrInvalidSeries)
	}
	if len(s.Keys) != len(s.Values) {
		return fmt.Errorf("%w: %d keys but %d values", ErrInvalidSeries, len(s.Keys), len(s.Values))
	}
	for i, v := range s.Values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bad count %v at %s", ErrInvalidSeries, v, s.Keys[i])
		}
		if i > 0 && !s.Keys[i-1].Before(s.Keys[i]) {
			return fmt.Errorf("%w: %s does not follow %s", ErrInvalidSeries, s.Keys[i], s.Keys[i-1])
		}
	}
	return nil
}

// SinusoidParameters are the four constants of
// y = Amplitude * sin(AngularFrequency * (x - HorizontalShift)) + VerticalShift
type SinusoidParameters struct {
	Category         Category
	Amplitude        float64
	AngularFrequency float64
	HorizontalShift  int
	VerticalShift    float64
}

// At evaluates the sine model at index x, without any baseline offset
func (p *SinusoidParameters) At(x int) float64 {
	return p.Amplitude*math.Sin(p.AngularFrequency*float64(x-p.HorizontalShift)) + p.VerticalShift
}

// SinusoidEstimator derives SinusoidParameters from the baseline window of a series.
// Months in ShockYears never enter the baseline.
type SinusoidEstimator struct {
	ShockYears []int
}

// DeviationSeries maps each month of the input series to |actual - predicted|
type DeviationSeries struct {
	Category Category
	Keys     []MonthKey
	Values   []float64
}

// Len returns the number of months in the series
func (d *DeviationSeries) Len() int { return len(d.Values) }

// VitalEvents is the loaded vital events table
type VitalEvents struct {
	// One row per month
	Keys []MonthKey
	// T x 2 matrix, columns follow VarNames
	Y *mat.Dense
	// Column names
	VarNames []string
}

// Column layout of VitalEvents.Y
const (
	colBirths = iota
	colMarriages
)

// ImpactSummary compares deviations before and during the shock
type ImpactSummary struct {
	Category       Category
	BaselineMean   float64  // mean deviation over non-shock months
	ShockMean      float64  // mean deviation over shock months
	MeanRatio      float64  // ShockMean / BaselineMean, NaN when the baseline mean is 0
	ShockPeak      float64  // largest deviation during the shock
	ShockPeakMonth MonthKey // month of ShockPeak
	ShockMonths    int      // number of shock months
	// Pearson correlation of shock deviations with infections, NaN if undefined
	CaseCorrelation float64
}

// CategoryResult bundles everything computed for one category
type CategoryResult struct {
	Config     CategoryConfig
	Series     *MonthlySeries
	Params     *SinusoidParameters
	Deviations *DeviationSeries
}
