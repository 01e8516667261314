package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLabel(t *testing.T) {
	cases := []struct {
		label string
		want  MetricKind
	}{
		{"Expected IRR (Mean)", KindPercentage},
		{"95th Percentile IRR", KindPercentage},
		{"P(Total Loss, MOIC < 0.1x)", KindPercentage}, // probability wins over MOIC
		{"P(MOIC >= 10x)", KindPercentage},
		{"Expected MOIC (Mean)", KindMultiple},
		{"10th Percentile MOIC", KindMultiple},
		{"Mean 'Success Path' ExitVal", KindCurrency},
		{"Median Final Investor Proceeds", KindCurrency},
		{"Mean Holding Period", KindPlainNumber},
		{"Asymmetry Score (E+ / |E-|)", KindPlainNumber},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyLabel(tc.label), "label %q", tc.label)
	}
}

func TestSimulationResultPreservesMetricOrder(t *testing.T) {
	body := `{
		"metrics": {
			"--- Central Tendency (IRR) ---": "",
			"Expected IRR (Mean)": 0.1234,
			"Expected MOIC (Mean)": 2.5,
			"Mean Final Investor Proceeds": 1234567.8,
			"Recommendation": "Recommend (Favorable Asymmetry)"
		},
		"plot_data_irr": [0.1, 0.2, -1.0],
		"plot_data_moic": [0.001, 0.02, 5, 10]
	}`

	var result SimulationResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))

	require.Len(t, result.Metrics, 5)

	labels := make([]string, len(result.Metrics))
	for i, m := range result.Metrics {
		labels[i] = m.Label
	}
	assert.Equal(t, []string{
		"--- Central Tendency (IRR) ---",
		"Expected IRR (Mean)",
		"Expected MOIC (Mean)",
		"Mean Final Investor Proceeds",
		"Recommendation",
	}, labels)

	assert.Equal(t, KindSectionHeader, result.Metrics[0].Kind)
	assert.Equal(t, KindPercentage, result.Metrics[1].Kind)
	assert.InDelta(t, 0.1234, result.Metrics[1].Value, 1e-12)
	assert.Equal(t, KindMultiple, result.Metrics[2].Kind)
	assert.Equal(t, KindCurrency, result.Metrics[3].Kind)
	assert.Equal(t, KindText, result.Metrics[4].Kind)
	assert.Equal(t, "Recommend (Favorable Asymmetry)", result.Metrics[4].Text)

	assert.Equal(t, []float64{0.1, 0.2, -1.0}, result.IRRSamples)
	assert.Equal(t, []float64{0.001, 0.02, 5, 10}, result.MOICSamples)
}

func TestSimulationResultEmptyMetrics(t *testing.T) {
	var result SimulationResult
	require.NoError(t, json.Unmarshal([]byte(`{"metrics": {}, "plot_data_irr": [], "plot_data_moic": []}`), &result))
	assert.Empty(t, result.Metrics)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &result))
	assert.Empty(t, result.Metrics)
}

func TestSimulationResultMalformedMetrics(t *testing.T) {
	var result SimulationResult
	err := json.Unmarshal([]byte(`{"metrics": [1, 2]}`), &result)
	assert.Error(t, err)
}
