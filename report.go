// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook report
const (
	sheetParameters = "Parameters"
	sheetDeviations = "Deviations"
	sheetImpact     = "Impact"
)

// OutputReportToXLSX writes parameters, per-month deviations and the shock summary to one workbook
func OutputReportToXLSX(path string, results []CategoryResult, impacts []*ImpactSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetParameters); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetDeviations); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetImpact); err != nil {
		return err
	}

	if err := writeParametersSheet(f, results); err != nil {
		return fmt.Errorf("parameters sheet: %w", err)
	}
	if err := writeDeviationsSheet(f, results); err != nil {
		return fmt.Errorf("deviations sheet: %w", err)
	}
	if err := writeImpactSheet(f, impacts); err != nil {
		return fmt.Errorf("impact sheet: %w", err)
	}

	return f.SaveAs(path)
}

// setRow writes values into row starting at column A
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeParametersSheet(f *excelize.File, results []CategoryResult) error {
	header := []interface{}{"Category", "Amplitude", "AngularFrequency", "HorizontalShift",
		"VerticalShift", "PhaseOffset", "BaselineOffset"}
	if err := setRow(f, sheetParameters, 1, header...); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetParameters, "A", "G", 18); err != nil {
		return err
	}

	for i, res := range results {
		p := res.Params
		err := setRow(f, sheetParameters, i+2,
			res.Config.Category.String(), p.Amplitude, p.AngularFrequency, p.HorizontalShift,
			p.VerticalShift, res.Config.PhaseOffset, res.Config.BaselineOffset)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeDeviationsSheet lays categories side by side: Month, then Actual/Predicted/Deviation per category
func writeDeviationsSheet(f *excelize.File, results []CategoryResult) error {
	if len(results) == 0 {
		return nil
	}

	header := []interface{}{"Month"}
	for _, res := range results {
		name := res.Config.Category.String()
		header = append(header, name+" actual", name+" predicted", name+" deviation")
	}
	if err := setRow(f, sheetDeviations, 1, header...); err != nil {
		return err
	}

	predicted := make([][]float64, len(results))
	for j, res := range results {
		n := res.Series.Len()
		curve, err := PredictCurve(res.Params, max(n, 1), res.Config.BaselineOffset)
		if err != nil {
			return err
		}
		predicted[j] = curve
	}

	for i, k := range results[0].Series.Keys {
		row := []interface{}{k.String()}
		for j, res := range results {
			if i >= res.Series.Len() {
				row = append(row, "", "", "")
				continue
			}
			row = append(row, res.Series.Values[i], predicted[j][i], res.Deviations.Values[i])
		}
		if err := setRow(f, sheetDeviations, i+2, row...); err != nil {
			return err
		}
	}
	return nil
}

func writeImpactSheet(f *excelize.File, impacts []*ImpactSummary) error {
	header := []interface{}{"Category", "BaselineMean", "ShockMean", "MeanRatio",
		"ShockPeak", "ShockPeakMonth", "ShockMonths", "CaseCorrelation"}
	if err := setRow(f, sheetImpact, 1, header...); err != nil {
		return err
	}

	row := 2
	for _, im := range impacts {
		if im == nil {
			continue
		}
		err := setRow(f, sheetImpact, row,
			im.Category.String(), cellFloat(im.BaselineMean), cellFloat(im.ShockMean),
			cellFloat(im.MeanRatio), cellFloat(im.ShockPeak), im.ShockPeakMonth.String(),
			im.ShockMonths, cellFloat(im.CaseCorrelation))
		if err != nil {
			return err
		}
		row++
	}
	return nil
}

// cellFloat leaves undefined statistics as an empty cell
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
