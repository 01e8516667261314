// Package view owns the CLI display: the in-flight status line, the error
// region and the report output. Handles are explicit fields rather than
// package globals so tests can point them at buffers.
package view

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/kweiss/dealcast/internal/models"
	"github.com/kweiss/dealcast/internal/report"
)

// View renders one submission's lifecycle to a pair of writers.
type View struct {
	Out io.Writer // report destination
	Err io.Writer // status line and error destination
}

// New returns a view bound to stdout/stderr.
func New() *View {
	return &View{Out: os.Stdout, Err: os.Stderr}
}

// StartLoading shows the in-flight line and returns a stop function that
// clears it. The stop function is idempotent: no matter how many paths call
// it (success, failure, deferred cleanup), the line is cleared exactly once.
func (v *View) StartLoading() func() {
	fmt.Fprint(v.Err, "⏳ Running simulation...")
	var once sync.Once
	return func() {
		once.Do(func() {
			fmt.Fprint(v.Err, "\r\033[K")
		})
	}
}

// ShowError writes the single user-visible error line. Transport failures,
// engine rejections and undecodable responses all land here undifferentiated.
func (v *View) ShowError(err error) {
	fmt.Fprintf(v.Err, "Error: %v\n", err)
}

// ShowReport writes the formatted metrics block.
func (v *View) ShowReport(metrics []models.Metric, colorize bool) {
	if colorize && v.Out == os.Stdout && !color.NoColor {
		fmt.Fprint(v.Out, report.FormatColor(metrics))
		return
	}
	fmt.Fprint(v.Out, report.Format(metrics))
}

// Notef writes a secondary status line (chart locations and the like).
func (v *View) Notef(format string, args ...interface{}) {
	fmt.Fprintf(v.Err, format+"\n", args...)
}
