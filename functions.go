// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Estimate computes the sinusoid constants from the baseline window of series
// series: full chronological series, baseline years first
// category: calibration record, only PhaseOffset is used here
// Returns: amplitude, frequency, horizontal shift and vertical shift
func (e *SinusoidEstimator) Estimate(series *MonthlySeries, category CategoryConfig) (*SinusoidParameters, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if series.Category != 0 && category.Category != 0 && series.Category != category.Category {
		return nil, fmt.Errorf("%w: %s series estimated with %s config",
			ErrInvalidSeries, series.Category, category.Category)
	}

	// 1. Restrict to the baseline window
	baseline, err := e.baselineWindow(series)
	if err != nil {
		return nil, err
	}

	// 2. Amplitude is half the spread of the baseline
	most := floats.Max(baseline)
	least := floats.Min(baseline)
	amplitude := (most - least) / 2

	// 3. Vertical shift
	verticalShift := (amplitude / 2) + least

	// 4. Find the last month of the first half of year 1 under the midline,
	// which approximates where the ascending arm crosses it before the summer peak
	month := 0
	for m := 1; m <= PhaseScanMonths; m++ {
		if baseline[m-1] < verticalShift {
			month = m
		}
	}
	if month == 0 {
		return nil, fmt.Errorf("%w: none of the first %d baseline months is below %v",
			ErrNoPhaseCandidate, PhaseScanMonths, verticalShift)
	}

	params := &SinusoidParameters{
		Category:         category.Category,
		Amplitude:        amplitude,
		AngularFrequency: AngularFrequency,
		HorizontalShift:  (month - 1) + category.PhaseOffset,
		VerticalShift:    verticalShift,
	}
	return params, nil
}

// baselineWindow returns the values of the non-shock months.
// They have to be the first BaselineMonths entries, contiguous and starting in January.
func (e *SinusoidEstimator) baselineWindow(series *MonthlySeries) ([]float64, error) {
	var baseline []float64
	for i, k := range series.Keys {
		if e.isShockYear(k.Year) {
			continue
		}
		if i != len(baseline) {
			return nil, fmt.Errorf("%w: baseline month %s comes after a shock month",
				ErrInvalidSeries, k)
		}
		baseline = append(baseline, series.Values[i])
	}

	if len(baseline) == 0 {
		return nil, fmt.Errorf("%w: baseline window is empty", ErrDegenerateSeries)
	}
	if len(baseline) != BaselineMonths {
		return nil, fmt.Errorf("%w: baseline window has %d months, want %d",
			ErrInvalidSeries, len(baseline), BaselineMonths)
	}
	if series.Keys[0].Month != time.January {
		return nil, fmt.Errorf("%w: baseline starts at %s, want January",
			ErrInvalidSeries, series.Keys[0])
	}
	for i := 1; i < BaselineMonths; i++ {
		if series.Keys[i] != series.Keys[i-1].Next() {
			return nil, fmt.Errorf("%w: baseline gap between %s and %s",
				ErrInvalidSeries, series.Keys[i-1], series.Keys[i])
		}
	}
	return baseline, nil
}

func (e *SinusoidEstimator) isShockYear(year int) bool {
	return containsYear(e.ShockYears, year)
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}

// validateParams rejects parameters the sine model cannot evaluate
func validateParams(params *SinusoidParameters) error {
	if params == nil {
		return fmt.Errorf("%w: parameters are nil", ErrInvalidSeries)
	}
	if params.Amplitude < 0 || math.IsNaN(params.Amplitude) || math.IsInf(params.Amplitude, 0) {
		return fmt.Errorf("%w: amplitude %v", ErrInvalidSeries, params.Amplitude)
	}
	if math.IsNaN(params.AngularFrequency) || math.IsInf(params.AngularFrequency, 0) {
		return fmt.Errorf("%w: angular frequency %v", ErrInvalidSeries, params.AngularFrequency)
	}
	if math.IsNaN(params.VerticalShift) || math.IsInf(params.VerticalShift, 0) {
		return fmt.Errorf("%w: vertical shift %v", ErrInvalidSeries, params.VerticalShift)
	}
	return nil
}

// PredictCurve evaluates the model plus baselineOffset at x = 0, ..., periods-1
// Used both for deviations and for the purely theoretical display curve.
func PredictCurve(params *SinusoidParameters, periods int, baselineOffset float64) ([]float64, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if periods <= 0 {
		return nil, fmt.Errorf("%w: periods must be > 0, got %d", ErrInvalidSeries, periods)
	}

	curve := make([]float64, periods)
	for x := 0; x < periods; x++ {
		curve[x] = params.At(x) + baselineOffset
	}
	return curve, nil
}

// ComputeDeviations returns |actual - predicted| for every month of series
// series: full chronological series (baseline and shock months)
// params: constants estimated for the same category
// baselineOffset: per-category constant added to every predicted value
func ComputeDeviations(series *MonthlySeries, params *SinusoidParameters, baselineOffset float64) (*DeviationSeries, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if series.Category != 0 && params.Category != 0 && series.Category != params.Category {
		return nil, fmt.Errorf("%w: %s parameters applied to %s series",
			ErrInvalidSeries, params.Category, series.Category)
	}

	dev := &DeviationSeries{
		Category: series.Category,
		Keys:     append([]MonthKey(nil), series.Keys...),
		Values:   make([]float64, series.Len()),
	}
	if series.Len() == 0 {
		return dev, nil
	}

	predicted, err := PredictCurve(params, series.Len(), baselineOffset)
	if err != nil {
		return nil, err
	}

	floats.SubTo(dev.Values, series.Values, predicted)
	for i, v := range dev.Values {
		dev.Values[i] = math.Abs(v)
	}
	return dev, nil
}

// AlignToKeys lays the infection counts over keys, months without data count as 0
func AlignToKeys(keys []MonthKey, infections *MonthlySeries) []float64 {
	byMonth := make(map[MonthKey]float64)
	if infections != nil {
		for i, k := range infections.Keys {
			byMonth[k] = infections.Values[i]
		}
	}

	aligned := make([]float64, len(keys))
	for i, k := range keys {
		aligned[i] = byMonth[k]
	}
	return aligned
}

// AnalyzeImpact summarizes how deviations behave once the shock starts
// dev: deviations for one category
// infections: infection counts aligned to dev.Keys
// shockYears: years that belong to the shock period
func AnalyzeImpact(dev *DeviationSeries, infections []float64, shockYears []int) (*ImpactSummary, error) {
	if dev == nil || len(dev.Keys) != len(dev.Values) {
		return nil, fmt.Errorf("%w: malformed deviation series", ErrInvalidSeries)
	}
	if len(infections) != dev.Len() {
		return nil, fmt.Errorf("%w: %d infection months for %d deviations",
			ErrInvalidSeries, len(infections), dev.Len())
	}

	var (
		baseDev   []float64
		shockDev  []float64
		shockCase []float64
		shockKeys []MonthKey
	)
	for i, k := range dev.Keys {
		if containsYear(shockYears, k.Year) {
			shockDev = append(shockDev, dev.Values[i])
			shockCase = append(shockCase, infections[i])
			shockKeys = append(shockKeys, k)
		} else {
			baseDev = append(baseDev, dev.Values[i])
		}
	}
	if len(shockDev) == 0 {
		return nil, fmt.Errorf("%w: no shock months in %s deviations", ErrInvalidSeries, dev.Category)
	}

	summary := &ImpactSummary{
		Category:        dev.Category,
		BaselineMean:    math.NaN(),
		ShockMean:       stat.Mean(shockDev, nil),
		MeanRatio:       math.NaN(),
		ShockMonths:     len(shockDev),
		CaseCorrelation: math.NaN(),
	}

	peak := floats.MaxIdx(shockDev)
	summary.ShockPeak = shockDev[peak]
	summary.ShockPeakMonth = shockKeys[peak]

	if len(baseDev) > 0 {
		summary.BaselineMean = stat.Mean(baseDev, nil)
		if summary.BaselineMean > 0 {
			summary.MeanRatio = summary.ShockMean / summary.BaselineMean
		}
	}

	// Correlation is undefined for a single point or a flat series
	if len(shockDev) > 1 && stat.Variance(shockDev, nil) > 0 && stat.Variance(shockCase, nil) > 0 {
		summary.CaseCorrelation = stat.Correlation(shockDev, shockCase, nil)
	}

	return summary, nil
}
