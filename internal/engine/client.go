package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/kweiss/dealcast/internal/logger"
	"github.com/kweiss/dealcast/internal/models"
)

// Runner is the engine surface consumed by the CLI and the web handlers.
// Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, req models.ScenarioRequest) (*models.SimulationResult, error)
}

// Client is an HTTP client for the remote Monte Carlo engine. The engine owns
// all simulation and validation logic; this client only ships scenarios out
// and decodes what comes back.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates an engine client for the given endpoint. A 100k-run
// simulation can take a while, so the timeout comes from config rather than a
// hardcoded short default.
func NewClient(endpoint string, timeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Run POSTs one scenario to the engine and decodes the result. Transport
// failures, non-2xx statuses and undecodable bodies all come back as a single
// error; there is nothing partial to salvage from a failed run.
func (c *Client) Run(ctx context.Context, req models.ScenarioRequest) (*models.SimulationResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal scenario: %w", err)
	}

	logger.Info.Printf("🎲 ENGINE: Submitting scenario - %d simulations, endpoint: %s", req.NumSimulations, c.endpoint)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "dealcast/1.0")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		logger.Error.Printf("❌ ENGINE: Request failed: %v", err)
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := decodeAPIError(resp)
		logger.Warn.Printf("⚠️ ENGINE: Status %d: %v", resp.StatusCode, err)
		return nil, err
	}

	var result models.SimulationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error.Printf("❌ ENGINE: Undecodable response: %v", err)
		return nil, fmt.Errorf("decode engine response: %w", err)
	}

	logger.Info.Printf("✅ ENGINE: Run complete in %v - %d metrics, %d IRR samples, %d MOIC samples",
		time.Since(start).Round(time.Millisecond), len(result.Metrics), len(result.IRRSamples), len(result.MOICSamples))
	return &result, nil
}

// decodeAPIError extracts the engine's structured error message from a
// non-2xx body, falling back to a generic message when the body has none.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("simulation failed with status %d", resp.StatusCode)
}
