// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// GraphData is everything drawn on the two panels, indexed by month position
type GraphData struct {
	Labels []string
	// Infections divided by the case scale, 0 before the shock
	CasesRescaled []float64
	// Index of the first shock month, -1 when there is none
	ShockIndex int
	Categories []GraphCategory
}

// GraphCategory holds the lines of one category
type GraphCategory struct {
	Name       string
	Actual     []float64
	Sinusoid   []float64
	Deviations []float64
}

// FormatGraphData rescales infections and builds the sinusoid curves for display
// results: one entry per vital category, all on the same month keys
// infections: monthly infection counts (may be nil)
// periods: number of points of each theoretical curve
// caseScale: infections are divided by this to sit next to vital counts
func FormatGraphData(results []CategoryResult, infections *MonthlySeries, shockYears []int, periods int, caseScale float64) (*GraphData, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: nothing to graph", ErrInvalidSeries)
	}
	if caseScale <= 0 {
		return nil, fmt.Errorf("case scale must be > 0, got %v", caseScale)
	}

	keys := results[0].Series.Keys
	data := &GraphData{
		Labels:     make([]string, len(keys)),
		ShockIndex: -1,
	}

	for i, k := range keys {
		data.Labels[i] = k.String()
		if data.ShockIndex < 0 && containsYear(shockYears, k.Year) {
			data.ShockIndex = i
		}
	}

	data.CasesRescaled = AlignToKeys(keys, infections)
	floats.Scale(1/caseScale, data.CasesRescaled)

	for _, res := range results {
		if res.Series.Len() != len(keys) {
			return nil, fmt.Errorf("%w: %s has %d months, want %d",
				ErrInvalidSeries, res.Config.Category, res.Series.Len(), len(keys))
		}
		curve, err := PredictCurve(res.Params, periods, res.Config.BaselineOffset)
		if err != nil {
			return nil, err
		}
		data.Categories = append(data.Categories, GraphCategory{
			Name:       res.Config.Category.String(),
			Actual:     res.Series.Values,
			Sinusoid:   curve,
			Deviations: res.Deviations.Values,
		})
	}
	return data, nil
}

// palette for category lines, infections are drawn in black
var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
}

func seriesXYs(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// addLine draws values and registers it in the legend
func addLine(p *plot.Plot, name string, values []float64, c color.Color, dashed bool) error {
	if len(values) == 0 {
		return nil
	}
	line, err := plotter.NewLine(seriesXYs(values))
	if err != nil {
		return fmt.Errorf("line %s: %w", name, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// addShockMarker draws a vertical dashed line at the first shock month
func addShockMarker(p *plot.Plot, x int) error {
	if x < 0 {
		return nil
	}
	// Axis ranges are only known after the data lines are added
	lo, hi := p.Y.Min, p.Y.Max
	if lo == hi {
		hi = lo + 1
	}
	marker, err := plotter.NewLine(plotter.XYs{{X: float64(x), Y: lo}, {X: float64(x), Y: hi}})
	if err != nil {
		return err
	}
	marker.LineStyle.Color = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	marker.LineStyle.Width = vg.Points(2)
	marker.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(marker)
	return nil
}

// monthTicks labels every sixth month so the axis stays readable
func monthTicks(labels []string) plot.ConstantTicks {
	var ticks []plot.Tick
	for i, l := range labels {
		if i%6 == 0 {
			ticks = append(ticks, plot.Tick{Value: float64(i), Label: l})
		} else {
			ticks = append(ticks, plot.Tick{Value: float64(i)})
		}
	}
	return ticks
}

// buildPanels creates the counts panel and the deviations panel
func buildPanels(data *GraphData) (*plot.Plot, *plot.Plot, error) {
	top := plot.New()
	top.Title.Text = "Number of New COVID-19 Cases, Marriages, and Births"
	top.Y.Label.Text = "Number"
	top.Legend.Top = true

	if err := addLine(top, "Cases (rescaled)", data.CasesRescaled, color.Black, false); err != nil {
		return nil, nil, err
	}
	for i, c := range data.Categories {
		col := palette[i%len(palette)]
		if err := addLine(top, c.Name+" (actual)", c.Actual, col, false); err != nil {
			return nil, nil, err
		}
		if err := addLine(top, c.Name+" (sinusoid)", c.Sinusoid, col, true); err != nil {
			return nil, nil, err
		}
	}
	if err := addShockMarker(top, data.ShockIndex); err != nil {
		return nil, nil, err
	}

	bottom := plot.New()
	bottom.X.Label.Text = "Date"
	bottom.Y.Label.Text = "Difference"
	bottom.Legend.Top = true
	for i, c := range data.Categories {
		col := palette[(i+2)%len(palette)]
		if err := addLine(bottom, c.Name+" (difference)", c.Deviations, col, false); err != nil {
			return nil, nil, err
		}
	}
	if err := addShockMarker(bottom, data.ShockIndex); err != nil {
		return nil, nil, err
	}

	ticks := monthTicks(data.Labels)
	top.X.Tick.Marker = ticks
	bottom.X.Tick.Marker = ticks
	top.X.Tick.Label.Rotation = 0.6
	bottom.X.Tick.Label.Rotation = 0.6
	top.X.Tick.Label.XAlign = draw.XRight
	bottom.X.Tick.Label.XAlign = draw.XRight

	return top, bottom, nil
}

// RenderGraph draws both panels stacked vertically and saves them as a PNG
func RenderGraph(path string, data *GraphData) error {
	if data == nil || len(data.Labels) == 0 {
		return fmt.Errorf("%w: empty graph data", ErrInvalidSeries)
	}

	top, bottom, err := buildPanels(data)
	if err != nil {
		return err
	}

	const width, height = 12 * vg.Inch, 10 * vg.Inch
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadY:      vg.Points(10),
		PadTop:    vg.Points(5),
		PadBottom: vg.Points(5),
		PadLeft:   vg.Points(5),
		PadRight:  vg.Points(10),
	}
	plots := [][]*plot.Plot{{top}, {bottom}}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
