package models

import (
	"encoding/json"
	"math"
)

// Scalar is a float64 scenario parameter. Form input that fails numeric
// coercion becomes NaN and is still forwarded to the engine, which owns all
// range and sanity validation; NaN marshals as JSON null so the payload stays
// valid JSON.
type Scalar float64

// MarshalJSON renders NaN and infinities as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts null as NaN.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Scalar(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Scalar(f)
	return nil
}

// IsNaN reports whether the scalar failed numeric coercion.
func (s Scalar) IsNaN() bool {
	return math.IsNaN(float64(s))
}

// ScenarioRequest is one complete set of inputs for the Monte Carlo engine.
// The JSON keys are the engine's wire contract and must not change. The same
// struct doubles as the YAML schema for scenario files used by the CLI.
//
// No cross-field invariants are enforced here (min <= mode <= max and the
// like); the engine validates ranges and reports violations in its error
// responses.
type ScenarioRequest struct {
	// Trimodal risk: probability of total loss, probability of a zombie
	// outcome, and the triangular recovery multiple applied on zombies.
	FailureRatePct Scalar `json:"failure_rate_pct" yaml:"failure_rate_pct"`
	ZombieRatePct  Scalar `json:"zombie_rate_pct" yaml:"zombie_rate_pct"`
	RecMin         Scalar `json:"rec_min" yaml:"rec_min"`
	RecMode        Scalar `json:"rec_mode" yaml:"rec_mode"`
	RecMax         Scalar `json:"rec_max" yaml:"rec_max"`

	// Success path: deal terms and the lognormal market model.
	InitialInvestment Scalar `json:"initial_investment" yaml:"initial_investment"`
	ValMin            Scalar `json:"val_min" yaml:"val_min"`
	ValMode           Scalar `json:"val_mode" yaml:"val_mode"`
	ValMax            Scalar `json:"val_max" yaml:"val_max"`
	TAMMinP10         Scalar `json:"tam_min_p10" yaml:"tam_min_p10"`
	TAMMaxP90         Scalar `json:"tam_max_p90" yaml:"tam_max_p90"`
	MSMinP10Pct       Scalar `json:"ms_min_p10_pct" yaml:"ms_min_p10_pct"`
	MSMaxP90Pct       Scalar `json:"ms_max_p90_pct" yaml:"ms_max_p90_pct"`
	Q1Mult            Scalar `json:"q1_mult" yaml:"q1_mult"`
	MedianMult        Scalar `json:"median_mult" yaml:"median_mult"`
	Q3Mult            Scalar `json:"q3_mult" yaml:"q3_mult"`

	// Exit timing and dilution.
	TimeMin   Scalar `json:"time_min" yaml:"time_min"`
	TimeMode  Scalar `json:"time_mode" yaml:"time_mode"`
	TimeMax   Scalar `json:"time_max" yaml:"time_max"`
	RoundsMin int    `json:"rounds_min" yaml:"rounds_min"`
	RoundsMax int    `json:"rounds_max" yaml:"rounds_max"`
	DilMin    Scalar `json:"dil_min" yaml:"dil_min"`
	DilMode   Scalar `json:"dil_mode" yaml:"dil_mode"`
	DilMax    Scalar `json:"dil_max" yaml:"dil_max"`

	NumSimulations int `json:"num_simulations" yaml:"num_simulations"`
}

// RequestFields lists every wire key of ScenarioRequest in declaration order.
// Handlers use it to walk form input generically instead of hand-writing 25
// field reads.
var RequestFields = []string{
	"failure_rate_pct", "zombie_rate_pct", "rec_min", "rec_mode", "rec_max",
	"initial_investment", "val_min", "val_mode", "val_max",
	"tam_min_p10", "tam_max_p90", "ms_min_p10_pct", "ms_max_p90_pct",
	"q1_mult", "median_mult", "q3_mult",
	"time_min", "time_mode", "time_max",
	"rounds_min", "rounds_max", "dil_min", "dil_mode", "dil_max",
	"num_simulations",
}

// IntegerFields are the wire keys that must serialize without a fractional
// component.
var IntegerFields = map[string]bool{
	"rounds_min":      true,
	"rounds_max":      true,
	"num_simulations": true,
}
