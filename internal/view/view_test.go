package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kweiss/dealcast/internal/models"
)

func TestStartLoadingClearsExactlyOnce(t *testing.T) {
	var errBuf bytes.Buffer
	v := &View{Out: &bytes.Buffer{}, Err: &errBuf}

	stop := v.StartLoading()
	assert.Contains(t, errBuf.String(), "Running simulation")

	// Explicit stop plus deferred stop must clear the line only once.
	stop()
	stop()
	stop()

	clears := strings.Count(errBuf.String(), "\r\033[K")
	assert.Equal(t, 1, clears)
}

func TestShowErrorFormat(t *testing.T) {
	var errBuf bytes.Buffer
	v := &View{Out: &bytes.Buffer{}, Err: &errBuf}

	v.ShowError(errors.New("bad input"))
	assert.Equal(t, "Error: bad input\n", errBuf.String())
}

func TestShowReportWritesFormattedBlock(t *testing.T) {
	var out bytes.Buffer
	v := &View{Out: &out, Err: &bytes.Buffer{}}

	v.ShowReport([]models.Metric{
		{Label: "--- Central Tendency (IRR) ---", Kind: models.KindSectionHeader},
		{Label: "Expected IRR (Mean)", Kind: models.KindPercentage, Value: 0.1234},
	}, true)

	got := out.String()
	assert.Contains(t, got, "--- Central Tendency (IRR) ---")
	assert.Contains(t, got, "12.34%")
	// Non-stdout writers never receive color escapes.
	assert.NotContains(t, got, "\033[")
}
