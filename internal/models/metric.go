package models

import (
	"fmt"
	"math"
	"strings"
)

// MetricKind selects how a metric renders in reports.
type MetricKind int

const (
	// KindSectionHeader is a bare divider line, no value.
	KindSectionHeader MetricKind = iota
	// KindPercentage renders value*100 with two decimals and a % suffix.
	KindPercentage
	// KindMultiple renders with two decimals and an x suffix (MOIC-style).
	KindMultiple
	// KindCurrency renders rounded with thousands grouping and a $ prefix.
	KindCurrency
	// KindPlainNumber renders with two decimals.
	KindPlainNumber
	// KindText renders a pre-formatted string from the engine verbatim.
	KindText
)

func (k MetricKind) String() string {
	switch k {
	case KindSectionHeader:
		return "section"
	case KindPercentage:
		return "percentage"
	case KindMultiple:
		return "multiple"
	case KindCurrency:
		return "currency"
	case KindPlainNumber:
		return "number"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("MetricKind(%d)", int(k))
}

// Metric is one labelled entry of the engine's summary block, typed once at
// the decode boundary so render paths never re-inspect label strings.
type Metric struct {
	Label string
	Kind  MetricKind
	Value float64 // numeric kinds only
	Text  string  // KindText only
}

// ClassifyLabel maps an engine metric label to a render kind. The engine tags
// nothing explicitly; its labelling convention is the contract. Order matters:
// "P(MOIC >= 3x)" is a probability, not a multiple, so the percentage checks
// run before the MOIC check.
func ClassifyLabel(label string) MetricKind {
	switch {
	case strings.Contains(label, "IRR") || strings.HasPrefix(label, "P("):
		return KindPercentage
	case strings.Contains(label, "MOIC"):
		return KindMultiple
	case strings.Contains(label, "Val") || strings.Contains(label, "Proceeds"):
		return KindCurrency
	default:
		return KindPlainNumber
	}
}

// newMetric types one decoded metrics entry. Strings are either section
// markers (empty) or pre-formatted text such as the recommendation line;
// numbers are classified by label.
func newMetric(label string, value interface{}) Metric {
	switch v := value.(type) {
	case string:
		if v == "" {
			return Metric{Label: label, Kind: KindSectionHeader}
		}
		return Metric{Label: label, Kind: KindText, Text: v}
	case float64:
		return Metric{Label: label, Kind: ClassifyLabel(label), Value: v}
	case nil:
		return Metric{Label: label, Kind: ClassifyLabel(label), Value: math.NaN()}
	default:
		return Metric{Label: label, Kind: KindText, Text: fmt.Sprintf("%v", v)}
	}
}
