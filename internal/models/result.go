package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SimulationResult is the engine's response to one scenario run: the summary
// metrics in the order the engine emitted them, plus the raw per-run IRR and
// MOIC samples for the histograms.
type SimulationResult struct {
	Metrics     []Metric
	IRRSamples  []float64
	MOICSamples []float64
}

// UnmarshalJSON decodes the engine response. The metrics block is an ordered
// JSON object whose order carries meaning (section headers group the entries
// that follow them), so it is walked token by token instead of through a map.
func (r *SimulationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Metrics json.RawMessage `json:"metrics"`
		IRR     []float64       `json:"plot_data_irr"`
		MOIC    []float64       `json:"plot_data_moic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	metrics, err := decodeOrderedMetrics(raw.Metrics)
	if err != nil {
		return err
	}

	r.Metrics = metrics
	r.IRRSamples = raw.IRR
	r.MOICSamples = raw.MOIC
	return nil
}

func decodeOrderedMetrics(raw json.RawMessage) ([]Metric, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode metrics: expected object, got %v", tok)
	}

	var metrics []Metric
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		label, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode metrics: expected key, got %v", keyTok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode metric %q: %w", label, err)
		}
		metrics = append(metrics, newMetric(label, value))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	return metrics, nil
}
