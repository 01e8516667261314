package charts

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"
)

func TestFilterMOICExcludesFloor(t *testing.T) {
	got := FilterMOIC([]float64{0.001, 0.02, 5, 10})
	assert.Equal(t, []float64{0.02, 5, 10}, got)

	assert.Empty(t, FilterMOIC([]float64{0, 0.01, 0.005}))
	assert.Empty(t, FilterMOIC(nil))
}

func TestLinearDividersCoverSamples(t *testing.T) {
	samples := []float64{-1, -0.5, 0, 0.5, 2}
	dividers := linearDividers(samples, irrBins)

	require.Len(t, dividers, irrBins+1)
	assert.Equal(t, -1.0, dividers[0])
	assert.Greater(t, dividers[irrBins], 2.0, "top divider must sit past the max sample")
	assert.True(t, floats.Min(dividers) == dividers[0])
}

func TestHistogramCountsEverySample(t *testing.T) {
	samples := []float64{-1, -1, 0, 0.25, 0.25, 0.25, 1}
	counts, centers := histogram(samples, linearDividers(samples, 4))

	require.Len(t, counts, 4)
	require.Len(t, centers, 4)
	assert.Equal(t, float64(len(samples)), floats.Sum(counts))
}

func TestLogDividersSpanLogUniformly(t *testing.T) {
	samples := []float64{0.02, 0.2, 2, 20}
	dividers := logDividers(samples, moicBins)

	require.Len(t, dividers, moicBins+1)
	assert.Equal(t, 0.02, dividers[0])
	assert.Greater(t, dividers[moicBins], 20.0)

	// Consecutive ratios are constant on a log-uniform grid.
	r0 := dividers[1] / dividers[0]
	r1 := dividers[2] / dividers[1]
	assert.InDelta(t, r0, r1, 1e-6)
}

func TestLogDividersBottomNeverExceedsMinSample(t *testing.T) {
	// For many minima (0.011 among them) pow(10, log10(min)) rounds up, and a
	// bottom divider above the smallest sample makes stat.Histogram panic.
	samples := []float64{0.011, 5, 10}
	dividers := logDividers(samples, moicBins)

	assert.LessOrEqual(t, dividers[0], floats.Min(samples))

	counts, _ := histogram(samples, dividers)
	assert.Equal(t, float64(len(samples)), floats.Sum(counts))

	var buf bytes.Buffer
	require.NoError(t, MOICHistogram(samples).Render(&buf))
}

func TestIRRHistogramRenders(t *testing.T) {
	samples := []float64{-1, -0.2, 0, 0.1, 0.1, 0.4, 2.5}

	var buf bytes.Buffer
	require.NoError(t, IRRHistogram(samples).Render(&buf))
	assert.Contains(t, buf.String(), "IRR Distribution")
}

func TestMOICHistogramRendersAndFilters(t *testing.T) {
	samples := []float64{0.001, 0.02, 5, 10}

	var buf bytes.Buffer
	require.NoError(t, MOICHistogram(samples).Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "MOIC Distribution")
	assert.Contains(t, out, "3 of 4 runs")
}

func TestHistogramsHandleEmptyAndConstantInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, IRRHistogram(nil).Render(&buf))
	require.NoError(t, MOICHistogram(nil).Render(&buf))

	// All-identical samples must not produce zero-width bins.
	constant := []float64{1.5, 1.5, 1.5}
	counts, _ := histogram(constant, linearDividers(constant, 10))
	assert.Equal(t, 3.0, floats.Sum(counts))
	assert.False(t, math.IsNaN(floats.Sum(counts)))
}
