// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Column indices of the vital events by month dataset
type VitalEventsOptions struct {
	MonthCol     int
	YearCol      int
	BirthsCol    int
	MarriagesCol int
	// Only rows with FirstYear <= year <= LastYear are kept
	FirstYear int
	LastYear  int
}

// DefaultVitalEventsOptions returns the layout of vital_events_data_by_month.csv
func DefaultVitalEventsOptions(firstYear, lastYear int) VitalEventsOptions {
	return VitalEventsOptions{
		MonthCol:     0,
		YearCol:      1,
		BirthsCol:    2,
		MarriagesCol: 3,
		FirstYear:    firstYear,
		LastYear:     lastYear,
	}
}

// Column indices of the COVID-19 dataset
type InfectionOptions struct {
	RegionCol int
	DateCol   int
	CountCol  int
	Region    string
	// Rows from this month on are dropped
	Cutoff MonthKey
}

// DefaultInfectionOptions returns the layout of covid19_data.csv
func DefaultInfectionOptions(region string, cutoff MonthKey) InfectionOptions {
	return InfectionOptions{
		RegionCol: 1,
		DateCol:   3,
		CountCol:  5,
		Region:    region,
		Cutoff:    cutoff,
	}
}

// ConvertMonthToNum finds the full English month name inside label, e.g. "August/août" -> 8
func ConvertMonthToNum(label string) (time.Month, error) {
	for m := time.January; m <= time.December; m++ {
		if strings.Contains(label, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedMonth, label)
}

// parseCount reads a count that may carry thousands separators
func parseCount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %v", v)
	}
	return v, nil
}

// LoadVitalEvents loads the vital events CSV into a VitalEvents table
func LoadVitalEvents(path string, opts VitalEventsOptions) (*VitalEvents, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ve, err := LoadVitalEventsFromReader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ve, nil
}

// LoadVitalEventsFromReader does the work of LoadVitalEvents on any reader
func LoadVitalEventsFromReader(r io.Reader, opts VitalEventsOptions) (*VitalEvents, error) {
	// 1. Make CSV reader
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	// 2. Skip header row
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	minCols := 1 + max(opts.MonthCol, opts.YearCol, opts.BirthsCol, opts.MarriagesCol)

	type row struct {
		key       MonthKey
		births    float64
		marriages float64
	}
	var rows []row

	// 3. Read each data row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		// Skip completely empty lines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < minCols {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", line, minCols, len(record))
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[opts.YearCol]))
		if err != nil {
			return nil, fmt.Errorf("parse year at row %d (%q): %w", line, record[opts.YearCol], err)
		}
		if year < opts.FirstYear || year > opts.LastYear {
			continue
		}

		month, err := ConvertMonthToNum(record[opts.MonthCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		births, err := parseCount(record[opts.BirthsCol])
		if err != nil {
			return nil, fmt.Errorf("parse births at row %d (%q): %w", line, record[opts.BirthsCol], err)
		}
		marriages, err := parseCount(record[opts.MarriagesCol])
		if err != nil {
			return nil, fmt.Errorf("parse marriages at row %d (%q): %w", line, record[opts.MarriagesCol], err)
		}

		rows = append(rows, row{key: MonthKey{Year: year, Month: month}, births: births, marriages: marriages})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows between %d and %d", ErrDegenerateSeries, opts.FirstYear, opts.LastYear)
	}

	// 4. Order chronologically, the dataset is not guaranteed to be sorted
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key.Before(rows[j].key) })

	T := len(rows)
	keys := make([]MonthKey, T)
	data := make([]float64, 0, T*2)
	for i, rw := range rows {
		if i > 0 && rw.key == rows[i-1].key {
			return nil, fmt.Errorf("%w: duplicate month %s", ErrInvalidSeries, rw.key)
		}
		keys[i] = rw.key
		data = append(data, rw.births, rw.marriages)
	}

	// 5. Build VitalEvents
	ve := &VitalEvents{
		Keys:     keys,
		Y:        mat.NewDense(T, 2, data),
		VarNames: []string{CategoryBirth.String(), CategoryMarriage.String()},
	}
	return ve, nil
}

// Series extracts the column of one category as a MonthlySeries
func (ve *VitalEvents) Series(category Category) (*MonthlySeries, error) {
	var col int
	switch category {
	case CategoryBirth:
		col = colBirths
	case CategoryMarriage:
		col = colMarriages
	default:
		return nil, fmt.Errorf("%w: no %s column in vital events", ErrInvalidSeries, category)
	}

	s := &MonthlySeries{
		Category: category,
		Keys:     append([]MonthKey(nil), ve.Keys...),
		Values:   mat.Col(nil, col, ve.Y),
	}
	return s, nil
}

// LoadInfections loads the COVID-19 CSV and sums the counts of one region per month
func LoadInfections(path string, opts InfectionOptions) (*MonthlySeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := LoadInfectionsFromReader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadInfectionsFromReader does the work of LoadInfections on any reader
func LoadInfectionsFromReader(r io.Reader, opts InfectionOptions) (*MonthlySeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	minCols := 1 + max(opts.RegionCol, opts.DateCol, opts.CountCol)
	perMonth := make(map[MonthKey]float64)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < minCols {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", line, minCols, len(record))
		}

		if strings.TrimSpace(record[opts.RegionCol]) != opts.Region {
			continue
		}

		key, err := ParseMonthKey(strings.TrimSpace(record[opts.DateCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if !key.Before(opts.Cutoff) {
			continue
		}

		count, err := parseCount(record[opts.CountCol])
		if err != nil {
			return nil, fmt.Errorf("parse count at row %d (%q): %w", line, record[opts.CountCol], err)
		}
		perMonth[key] += count
	}

	s := &MonthlySeries{Category: CategoryInfection}
	for k := range perMonth {
		s.Keys = append(s.Keys, k)
	}
	sort.Slice(s.Keys, func(i, j int) bool { return s.Keys[i].Before(s.Keys[j]) })
	s.Values = make([]float64, len(s.Keys))
	for i, k := range s.Keys {
		s.Values[i] = perMonth[k]
	}
	return s, nil
}

// PrintSinusoid prints the fitted constants of one category
func PrintSinusoid(w io.Writer, cfg CategoryConfig, params *SinusoidParameters) {
	if params == nil {
		fmt.Fprintln(w, "Sinusoid not estimated")
		return
	}
	fmt.Fprintf(w, "\n=== %s sinusoid ===\n", cfg.Category)
	fmt.Fprintf(w, "y = a*sin(b*(x - c)) + d + offset\n")
	fmt.Fprintf(w, "  a (amplitude):        %12.4f\n", params.Amplitude)
	fmt.Fprintf(w, "  b (angular freq):     %12.6f\n", params.AngularFrequency)
	fmt.Fprintf(w, "  c (horizontal shift): %12d\n", params.HorizontalShift)
	fmt.Fprintf(w, "  d (vertical shift):   %12.4f\n", params.VerticalShift)
	fmt.Fprintf(w, "  baseline offset:      %12.4f\n", cfg.BaselineOffset)
}

// PrintDeviations prints the deviation of every month for all categories side by side
func PrintDeviations(w io.Writer, results []CategoryResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "\n=== Deviation from sinusoid ===")
	fmt.Fprintf(w, "%-8s", "Month")
	for _, res := range results {
		fmt.Fprintf(w, "%14s", res.Config.Category)
	}
	fmt.Fprintln(w)

	for i, k := range results[0].Deviations.Keys {
		fmt.Fprintf(w, "%-8s", k)
		for _, res := range results {
			fmt.Fprintf(w, "%14.2f", res.Deviations.Values[i])
		}
		fmt.Fprintln(w)
	}
}

// PrintImpact prints the shock summary table
func PrintImpact(w io.Writer, impacts []*ImpactSummary) {
	fmt.Fprintln(w, "\n=== Shock impact ===")
	fmt.Fprintf(w, "%-12s | %12s | %12s | %8s | %12s | %-8s | %11s\n",
		"Category", "Base mean", "Shock mean", "Ratio", "Shock peak", "Peak at", "Corr(cases)")
	fmt.Fprintln(w, "----------------------------------------------------------------------------------------------")
	for _, im := range impacts {
		if im == nil {
			continue
		}
		fmt.Fprintf(w, "%-12s | %12.2f | %12.2f | %8.3f | %12.2f | %-8s | %11.4f\n",
			im.Category, im.BaselineMean, im.ShockMean, im.MeanRatio,
			im.ShockPeak, im.ShockPeakMonth, im.CaseCorrelation)
	}
	fmt.Fprintln(w)
}

// OutputDeviationsToCSV writes deviations in long format.
// Columns: Category, Month, Actual, Predicted, Deviation
func OutputDeviationsToCSV(path string, results []CategoryResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Category", "Month", "Actual", "Predicted", "Deviation"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		n := res.Series.Len()
		predicted, err := PredictCurve(res.Params, max(n, 1), res.Config.BaselineOffset)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			record := []string{
				res.Config.Category.String(),
				res.Series.Keys[i].String(),
				fmt.Sprintf("%.0f", res.Series.Values[i]),
				fmt.Sprintf("%f", predicted[i]),
				fmt.Sprintf("%f", res.Deviations.Values[i]),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// OutputParametersToCSV writes one row of constants per category.
// Columns: Category, Amplitude, AngularFrequency, HorizontalShift, VerticalShift, PhaseOffset, BaselineOffset
func OutputParametersToCSV(path string, results []CategoryResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Category",
		"Amplitude",
		"AngularFrequency",
		"HorizontalShift",
		"VerticalShift",
		"PhaseOffset",
		"BaselineOffset",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		rec := []string{
			res.Config.Category.String(),
			fmt.Sprintf("%f", res.Params.Amplitude),
			fmt.Sprintf("%f", res.Params.AngularFrequency),
			fmt.Sprintf("%d", res.Params.HorizontalShift),
			fmt.Sprintf("%f", res.Params.VerticalShift),
			fmt.Sprintf("%d", res.Config.PhaseOffset),
			fmt.Sprintf("%f", res.Config.BaselineOffset),
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
