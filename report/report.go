// Package report renders calibration runs as a standalone HTML chart:
// per-sample Hamming distances for both groups, with the correction
// capacities implied by the calibration bounds drawn as threshold lines.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/partmark/partmark/calibrate"
)

// Render writes the calibration chart for one part as HTML.
func Render(w io.Writer, partName string, res calibrate.Result) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Calibration: %s", partName),
			Subtitle: fmt.Sprintf("admissible check length %d..%d", res.MinCheck, res.MaxCheck),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hamming distance to master"}),
	)

	maxSamples := len(res.SameDistances)
	if len(res.OtherDistances) > maxSamples {
		maxSamples = len(res.OtherDistances)
	}
	xAxis := make([]string, maxSamples)
	for i := range xAxis {
		xAxis[i] = fmt.Sprintf("%d", i+1)
	}

	scatter.SetXAxis(xAxis).
		AddSeries("same object", scatterData(res.SameDistances)).
		AddSeries("different object", scatterData(res.OtherDistances))

	line := charts.NewLine()
	line.SetXAxis(xAxis).
		AddSeries("same-noise bound (minCheck/2)", lineData(res.MinCheck/2, maxSamples)).
		AddSeries("foreign-distance bound (maxCheck/2)", lineData(res.MaxCheck/2, maxSamples))
	scatter.Overlap(line)

	page := components.NewPage()
	page.AddCharts(scatter)
	return page.Render(w)
}

// RenderFile renders the calibration chart into an HTML file.
func RenderFile(path, partName string, res calibrate.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Render(file, partName, res)
}

func scatterData(dists []int) []opts.ScatterData {
	data := make([]opts.ScatterData, len(dists))
	for i, d := range dists {
		data[i] = opts.ScatterData{Value: d, SymbolSize: 10}
	}
	return data
}

func lineData(y, n int) []opts.LineData {
	data := make([]opts.LineData, n)
	for i := range data {
		data[i] = opts.LineData{Value: y}
	}
	return data
}
