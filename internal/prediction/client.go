package prediction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mietradar/mietradar/internal/logging"
)

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 15 * time.Second

// Client represents an HTTP client for the rent prediction service
type Client struct {
	// BaseURL is the base URL of the service (e.g., "https://api.example.com")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a new prediction service client.
// baseURL: service base URL without trailing slash
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Predict requests a cold rent estimate for the given apartment attributes.
// Any non-2xx status is treated uniformly as a request failure; the error
// body is not inspected.
func (c *Client) Predict(request Request) (*Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, NewParseError("failed to encode prediction request", err)
	}

	url := c.BaseURL + "/predict"
	logging.LogRequest(http.MethodPost, url)
	start := time.Now()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewNetworkError("failed to create prediction request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogResponse(url, 0, time.Since(start), err)
		return nil, NewNetworkError("prediction request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogResponse(url, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("prediction failed with status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read prediction response", err)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, NewParseError("failed to parse prediction response", err)
	}

	return &result, nil
}

// ModelInfo retrieves metadata about the currently deployed champion model
func (c *Client) ModelInfo() (*ChampionModelInfo, error) {
	url := c.BaseURL + "/model-info"
	logging.LogRequest(http.MethodGet, url)
	start := time.Now()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create model-info request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogResponse(url, 0, time.Since(start), err)
		return nil, NewNetworkError("model-info request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogResponse(url, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("model-info failed with status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read model-info response", err)
	}

	var info ChampionModelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, NewParseError("failed to parse model-info response", err)
	}

	return &info, nil
}
