package cityrequest

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

// APIKeyHeader is the authentication header the automation platform expects
const APIKeyHeader = "x-make-apikey"

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 15 * time.Second

// fallbackErrorMessage is used when the webhook rejects a request without
// any usable detail in the body.
const fallbackErrorMessage = "Unbekannter Fehler"

// Request is the JSON body sent to the automation webhook.
type Request struct {
	PLZ      string `json:"plz"`
	CityName string `json:"cityName"`
}

// Response is the JSON body of a successful webhook call. The automation
// resolves the postal code to an official city and federal state.
type Response struct {
	Data struct {
		Name         string `json:"name"`
		FederalState string `json:"federalState"`
	} `json:"data"`
}

// RequestError is a webhook rejection carrying the most specific error
// text the response offered.
type RequestError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return e.Message
}

// Client represents an HTTP client for the city-addition automation webhook
type Client struct {
	// URL is the full webhook URL
	URL string

	// APIKey is sent as the x-make-apikey header on every request
	APIKey string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a new webhook client
func NewClient(url, apiKey string) *Client {
	return &Client{
		URL:        url,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Submit asks the automation to add a postal-code region to the training
// set. On rejection the returned error is a *RequestError carrying the
// server-provided detail when the response contained any.
func (c *Client) Submit(request Request) (*Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode city request: %w", err)
	}

	logging.LogRequest(http.MethodPost, c.URL)
	start := time.Now()

	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create city request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogResponse(c.URL, 0, time.Since(start), err)
		return nil, fmt.Errorf("city request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogResponse(c.URL, resp.StatusCode, time.Since(start), nil)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(body, isJSON),
		}
	}

	// The automation answers successful runs with JSON; anything else
	// yields an empty result rather than a failure.
	var result Response
	if isJSON {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to parse webhook response: %w", err)
		}
	}

	return &result, nil
}

// extractErrorMessage pulls the most specific error text out of a rejection
// body: a JSON "message" field, then a JSON "error" field, then the whole
// JSON object, then the raw text.
func extractErrorMessage(body []byte, isJSON bool) string {
	if !isJSON {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
		return fallbackErrorMessage
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
		return fallbackErrorMessage
	}

	if msg, ok := fields["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := fields["error"].(string); ok && msg != "" {
		return msg
	}

	if compact, err := json.Marshal(fields); err == nil && len(fields) > 0 {
		return string(compact)
	}
	return fallbackErrorMessage
}
