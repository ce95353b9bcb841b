// Package health probes the system under test before a run.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// userAgent identifies probe requests in the server's access log
const userAgent = "suiterun-health/1.0"

// maxBody caps how much of the response body is inspected
const maxBody = 64 * 1024

// ErrUnhealthy is returned when the server answers but reports itself unhealthy
var ErrUnhealthy = errors.New("server reported unhealthy")

// Checker probes a health endpoint
type Checker struct {
	client *http.Client
}

// NewChecker creates a Checker whose probes give up after timeout
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{client: &http.Client{Timeout: timeout}}
}

type statusBody struct {
	Status string `json:"status"`
}

// Check issues a GET to url. A 200 response is healthy unless its JSON body
// carries a "status" field other than "OK"; any other status code or transport
// error is returned as an error.
func (c *Checker) Check(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid health url %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("health check %s: read body: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check %s: HTTP %d", url, resp.StatusCode)
	}

	// Non-JSON bodies only prove the server is responding.
	var status statusBody
	if err := json.Unmarshal(body, &status); err != nil || status.Status == "" {
		return nil
	}
	if !strings.EqualFold(status.Status, "OK") {
		return fmt.Errorf("health check %s: %w: status %q", url, ErrUnhealthy, status.Status)
	}
	return nil
}
