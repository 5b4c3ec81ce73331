// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// This is the main function that fits the sinusoidal baseline for marriages and births
// and measures how far the pandemic months deviate from it.
// Optional arguments: the data directory and the output directory.
// Everything else (years, region, calibration offsets) comes from VITAL_* environment variables.
// Steps: load the config and both datasets, estimate one sinusoid per category,
// compute deviations, summarize the shock, then write the CSV and XLSX reports and the graph.

func main() {
	log := NewLogger(LogOptionsFromEnv())

	if err := run(log, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
}

// run executes the pipeline and returns the first error
func run(log zerolog.Logger, args []string) error {
	// 1. Load config
	cfg, err := LoadConfig(NewConf(&log), args)
	if err != nil {
		return err
	}
	log.Info().Str("data", cfg.DataDir).Str("output", cfg.OutputDir).
		Int("first_year", cfg.FirstYear).Int("last_year", cfg.LastYear).
		Ints("shock_years", cfg.ShockYears).Msg("config loaded")

	// 2. Load vital events into a table
	ve, err := LoadVitalEvents(cfg.VitalEventsPath(), DefaultVitalEventsOptions(cfg.FirstYear, cfg.LastYear))
	if err != nil {
		return err
	}
	rows, cols := ve.Y.Dims()
	log.Info().Int("months", rows).Int("columns", cols).Strs("variables", ve.VarNames).Msg("vital events loaded")

	// 3. Load infections
	infections, err := LoadInfections(cfg.InfectionsPath(), DefaultInfectionOptions(cfg.Region, cfg.InfectionCutoff))
	if err != nil {
		return err
	}
	log.Info().Str("region", cfg.Region).Int("months", infections.Len()).Msg("infections loaded")

	// 4. Estimate the sinusoid and deviations of each category
	estimator := &SinusoidEstimator{ShockYears: cfg.ShockYears}
	var results []CategoryResult
	for _, category := range []Category{CategoryMarriage, CategoryBirth} {
		res, err := analyzeCategory(estimator, ve, cfg.Categories[category])
		if err != nil {
			return err
		}
		log.Debug().Stringer("category", category).
			Float64("amplitude", res.Params.Amplitude).
			Int("horizontal_shift", res.Params.HorizontalShift).
			Float64("vertical_shift", res.Params.VerticalShift).
			Msg("sinusoid estimated")
		PrintSinusoid(os.Stdout, res.Config, res.Params)
		results = append(results, res)
	}
	PrintDeviations(os.Stdout, results)

	// 5. Summarize the shock period
	var impacts []*ImpactSummary
	for _, res := range results {
		im, err := AnalyzeImpact(res.Deviations, AlignToKeys(res.Deviations.Keys, infections), cfg.ShockYears)
		if err != nil {
			return err
		}
		impacts = append(impacts, im)
	}
	PrintImpact(os.Stdout, impacts)

	// 6. Write reports
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	if err := OutputDeviationsToCSV(cfg.OutputPath("deviations.csv"), results); err != nil {
		return err
	}
	if err := OutputParametersToCSV(cfg.OutputPath("parameters.csv"), results); err != nil {
		return err
	}
	if err := OutputReportToXLSX(cfg.OutputPath("report.xlsx"), results, impacts); err != nil {
		return err
	}
	log.Info().Str("dir", cfg.OutputDir).Msg("reports written")

	// 7. Graph
	data, err := FormatGraphData(results, infections, cfg.ShockYears, cfg.CurvePeriods, cfg.CaseScale)
	if err != nil {
		return err
	}
	if err := RenderGraph(cfg.OutputPath("vital_events.png"), data); err != nil {
		return err
	}
	log.Info().Str("path", cfg.OutputPath("vital_events.png")).Msg("graph rendered")

	return nil
}

// analyzeCategory runs the estimator and the deviation calculator for one category
func analyzeCategory(estimator *SinusoidEstimator, ve *VitalEvents, cc CategoryConfig) (CategoryResult, error) {
	series, err := ve.Series(cc.Category)
	if err != nil {
		return CategoryResult{}, err
	}
	params, err := estimator.Estimate(series, cc)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("estimate %s: %w", cc.Category, err)
	}
	dev, err := ComputeDeviations(series, params, cc.BaselineOffset)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("deviations %s: %w", cc.Category, err)
	}
	return CategoryResult{Config: cc, Series: series, Params: params, Deviations: dev}, nil
}
