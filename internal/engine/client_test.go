package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweiss/dealcast/internal/models"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second)
}

func TestRunSuccess(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"metrics": {"--- Central Tendency (IRR) ---": "", "Expected IRR (Mean)": 0.2},
			"plot_data_irr": [0.1, 0.3],
			"plot_data_moic": [1.5, 4.0]
		}`))
	}))
	defer srv.Close()

	req := models.ScenarioRequest{NumSimulations: 1000, InitialInvestment: 1_000_000}
	result, err := newTestClient(srv.URL).Run(context.Background(), req)
	require.NoError(t, err)

	// The request body carries the full wire contract.
	assert.Len(t, gotBody, len(models.RequestFields))
	assert.Equal(t, float64(1000), gotBody["num_simulations"])

	require.Len(t, result.Metrics, 2)
	assert.Equal(t, models.KindSectionHeader, result.Metrics[0].Kind)
	assert.Equal(t, []float64{0.1, 0.3}, result.IRRSamples)
	assert.Equal(t, []float64{1.5, 4.0}, result.MOICSamples)
}

func TestRunEngineErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad input"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), models.ScenarioRequest{})
	require.Error(t, err)
	assert.Equal(t, "bad input", err.Error())
}

func TestRunEngineErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway exploded</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), models.ScenarioRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestRunUndecodableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), models.ScenarioRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode engine response")
}

func TestRunTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Run(context.Background(), models.ScenarioRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine request failed")
}

func TestRunHonoursContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the POST body before stalling; otherwise Close blocks on the
		// still-pending request.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).Run(ctx, models.ScenarioRequest{})
	require.Error(t, err)
}
