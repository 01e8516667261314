// Package charts builds the IRR and MOIC histogram charts from raw simulation
// samples using go-echarts.
package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// irrBins matches the 100-bin resolution the analysis is read at.
const irrBins = 100

// moicBins is coarser because the MOIC axis is log-spaced.
const moicBins = 60

// moicFloor drops near-zero MOIC outcomes (total losses) before log-spaced
// binning; log10 of values at or near zero degenerates the axis.
const moicFloor = 0.01

// FilterMOIC returns the samples that participate in the MOIC histogram,
// excluding everything at or below the floor.
func FilterMOIC(samples []float64) []float64 {
	kept := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v > moicFloor {
			kept = append(kept, v)
		}
	}
	return kept
}

// histogram bins sorted copies of samples over the given dividers and returns
// per-bin counts alongside bin centers.
func histogram(samples, dividers []float64) (counts, centers []float64) {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	counts = stat.Histogram(make([]float64, len(dividers)-1), dividers, sorted, nil)
	centers = make([]float64, len(counts))
	for i := range counts {
		centers[i] = (dividers[i] + dividers[i+1]) / 2
	}
	return counts, centers
}

// linearDividers spans n bins over [min, max] of the samples. The top divider
// is nudged past the maximum so the largest sample lands in the last bin.
func linearDividers(samples []float64, n int) []float64 {
	lo := floats.Min(samples)
	hi := floats.Max(samples)
	if lo == hi {
		// Degenerate distribution; give it one visible bin.
		lo -= 0.5
		hi += 0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return dividers
}

// logDividers spans n bins log10-uniformly over [min, max] of the samples.
// Samples must be positive (the MOIC floor guarantees that).
func logDividers(samples []float64, n int) []float64 {
	lo := floats.Min(samples)
	hi := floats.Max(samples)
	if lo == hi {
		lo /= 2
		hi *= 2
	}

	exps := floats.Span(make([]float64, n+1), math.Log10(lo), math.Log10(hi))
	dividers := make([]float64, n+1)
	for i, e := range exps {
		dividers[i] = math.Pow(10, e)
	}
	// The log/pow round trip can land either side of the true endpoints, and
	// a bottom divider above the smallest sample makes stat.Histogram panic.
	// Pin the bottom exactly and nudge the top past the maximum.
	dividers[0] = lo
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return dividers
}

func barData(counts []float64) []opts.BarData {
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}
	return data
}

// IRRHistogram renders the IRR sample distribution as a 100-bin histogram on
// a linear axis.
func IRRHistogram(samples []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "IRR Distribution", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "IRR Distribution", Subtitle: fmt.Sprintf("%d simulation runs", len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "IRR", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Runs"}),
	)
	if len(samples) == 0 {
		return bar
	}

	counts, centers := histogram(samples, linearDividers(samples, irrBins))

	labels := make([]string, len(centers))
	for i, c := range centers {
		labels[i] = fmt.Sprintf("%.0f%%", c*100)
	}

	bar.SetXAxis(labels).
		AddSeries("IRR", barData(counts),
			charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}))
	return bar
}

// MOICHistogram renders the MOIC sample distribution binned log-uniformly,
// after dropping outcomes at or below the floor.
func MOICHistogram(samples []float64) *charts.Bar {
	kept := FilterMOIC(samples)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "MOIC Distribution", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "MOIC Distribution (log scale)",
			Subtitle: fmt.Sprintf("%d of %d runs above %.2fx", len(kept), len(samples), moicFloor),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "MOIC", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Runs"}),
	)
	if len(kept) == 0 {
		return bar
	}

	counts, centers := histogram(kept, logDividers(kept, moicBins))

	labels := make([]string, len(centers))
	for i, c := range centers {
		labels[i] = fmt.Sprintf("%.2gx", c)
	}

	bar.SetXAxis(labels).
		AddSeries("MOIC", barData(counts),
			charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}))
	return bar
}
