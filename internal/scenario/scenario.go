// Package scenario builds ScenarioRequest values from the two input surfaces:
// YAML scenario files (CLI) and submitted web forms. Only type coercion
// happens here; range validation belongs to the engine.
package scenario

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/kweiss/dealcast/internal/models"
)

// Default is the scenario pre-filled into the web form and used by the CLI
// when no scenario file exists. The numbers describe a typical early-stage
// deal; every one of them is expected to be edited.
func Default() models.ScenarioRequest {
	return models.ScenarioRequest{
		FailureRatePct: 50,
		ZombieRatePct:  25,
		RecMin:         0.1,
		RecMode:        0.3,
		RecMax:         0.9,

		InitialInvestment: 1_000_000,
		ValMin:            8_000_000,
		ValMode:           12_000_000,
		ValMax:            20_000_000,
		TAMMinP10:         1_000_000_000,
		TAMMaxP90:         10_000_000_000,
		MSMinP10Pct:       0.5,
		MSMaxP90Pct:       5,
		Q1Mult:            2,
		MedianMult:        4,
		Q3Mult:            8,

		TimeMin:   4,
		TimeMode:  6,
		TimeMax:   9,
		RoundsMin: 1,
		RoundsMax: 3,
		DilMin:    10,
		DilMode:   15,
		DilMax:    25,

		NumSimulations: 100_000,
	}
}

// Load reads a scenario file. Unknown keys are rejected so a typo in a
// scenario file fails loudly instead of silently sending a zero.
func Load(path string) (models.ScenarioRequest, error) {
	var req models.ScenarioRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &req); err != nil {
		return req, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return req, nil
}

// FromForm coerces submitted form values into a request. A float field that
// fails to parse becomes NaN and is forwarded anyway (serialized as null);
// the engine rejects it with a proper message. Integer fields fall back to
// zero, which the engine likewise rejects.
func FromForm(get func(key string) string) models.ScenarioRequest {
	f := func(key string) models.Scalar {
		v, err := strconv.ParseFloat(strings.TrimSpace(get(key)), 64)
		if err != nil {
			return models.Scalar(math.NaN())
		}
		return models.Scalar(v)
	}
	i := func(key string) int {
		v, err := strconv.Atoi(strings.TrimSpace(get(key)))
		if err != nil {
			return 0
		}
		return v
	}

	return models.ScenarioRequest{
		FailureRatePct: f("failure_rate_pct"),
		ZombieRatePct:  f("zombie_rate_pct"),
		RecMin:         f("rec_min"),
		RecMode:        f("rec_mode"),
		RecMax:         f("rec_max"),

		InitialInvestment: f("initial_investment"),
		ValMin:            f("val_min"),
		ValMode:           f("val_mode"),
		ValMax:            f("val_max"),
		TAMMinP10:         f("tam_min_p10"),
		TAMMaxP90:         f("tam_max_p90"),
		MSMinP10Pct:       f("ms_min_p10_pct"),
		MSMaxP90Pct:       f("ms_max_p90_pct"),
		Q1Mult:            f("q1_mult"),
		MedianMult:        f("median_mult"),
		Q3Mult:            f("q3_mult"),

		TimeMin:   f("time_min"),
		TimeMode:  f("time_mode"),
		TimeMax:   f("time_max"),
		RoundsMin: i("rounds_min"),
		RoundsMax: i("rounds_max"),
		DilMin:    f("dil_min"),
		DilMode:   f("dil_mode"),
		DilMax:    f("dil_max"),

		NumSimulations: i("num_simulations"),
	}
}
