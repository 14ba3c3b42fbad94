package gprofiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crisprtme/internal/errors"
	"crisprtme/ports"
)

// DefaultBaseURL is the public g:Profiler endpoint.
const DefaultBaseURL = "https://biit.cs.ut.ee/gprofiler"

// Client is a thin g:Profiler gost client. One Profile call per gene list;
// no retries, callers contain failures per query.
type Client struct {
	BaseURL  string
	Organism string
	Sources  []string

	httpClient *http.Client
}

// NewClient creates a g:Profiler client. An empty baseURL falls back to the
// public endpoint.
func NewClient(baseURL, organism string, sources []string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Organism:   organism,
		Sources:    sources,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Profile queries functional enrichment for one gene list.
func (c *Client) Profile(ctx context.Context, query []string) ([]ports.EnrichmentTerm, error) {
	if len(query) == 0 {
		return nil, errors.InvalidInput("empty enrichment query")
	}

	type reqBody struct {
		Organism string   `json:"organism"`
		Query    []string `json:"query"`
		Sources  []string `json:"sources,omitempty"`
	}
	raw, err := json.Marshal(reqBody{
		Organism: c.Organism,
		Query:    query,
		Sources:  c.Sources,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/api/gost/profile/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("g:Profiler", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError("g:Profiler", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ExternalServiceError("g:Profiler",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var parsed struct {
		Result []ports.EnrichmentTerm `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.ExternalServiceError("g:Profiler", fmt.Errorf("decode response: %w", err))
	}

	return parsed.Result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
