// Package report turns typed simulation metrics into the fixed-width summary
// block shown in the terminal and on the results page.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/kweiss/dealcast/internal/models"
)

// labelWidth is the column the value separator sits at. Wide enough for the
// longest engine label ("25th Pctl 'Success Path' ExitVal").
const labelWidth = 35

// FormatValue renders one metric's value according to its kind. Section
// headers have no value and return an empty string.
func FormatValue(m models.Metric) string {
	switch m.Kind {
	case models.KindSectionHeader:
		return ""
	case models.KindPercentage:
		return fmt.Sprintf("%.2f%%", m.Value*100)
	case models.KindMultiple:
		return fmt.Sprintf("%.2fx", m.Value)
	case models.KindCurrency:
		return "$" + humanize.Commaf(math.Round(m.Value))
	case models.KindText:
		return m.Text
	default:
		return fmt.Sprintf("%.2f", m.Value)
	}
}

// Format renders the full metrics block, one line per metric, labels padded
// to a fixed column. Section headers stand alone on their line.
func Format(metrics []models.Metric) string {
	var b strings.Builder
	for _, m := range metrics {
		if m.Kind == models.KindSectionHeader {
			b.WriteString(m.Label)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(fmt.Sprintf("%-*s : %s\n", labelWidth, m.Label, FormatValue(m)))
	}
	return b.String()
}

// FormatColor is Format with section headers highlighted for terminal output.
// Color degrades to plain text automatically when stdout is not a TTY.
func FormatColor(metrics []models.Metric) string {
	header := color.New(color.FgCyan, color.Bold)

	var b strings.Builder
	for _, m := range metrics {
		if m.Kind == models.KindSectionHeader {
			b.WriteString(header.Sprint(m.Label))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(fmt.Sprintf("%-*s : %s\n", labelWidth, m.Label, FormatValue(m)))
	}
	return b.String()
}
