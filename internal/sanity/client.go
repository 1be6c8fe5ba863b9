// Package sanity is a thin HTTP client for a Sanity-compatible headless
// content store. It exposes exactly two operations — a GROQ read query and
// a document create mutation — plus CDN URL resolution for image assets.
// Retry and caching policy belong to callers.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the connection settings for one project/dataset pair.
type Config struct {
	BaseURL    string // e.g. https://<project>.api.sanity.io
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string // write token; only needed for Create
}

// Client issues read queries and write mutations against the content store.
// It is safe for concurrent use.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client. The HTTP timeout bounds every call; the store is
// not assumed to enforce one itself.
func New(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2021-10-21"
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// queryRequest is the POST body for the query endpoint. Params are
// substituted server-side into $-placeholders, so caller values never get
// spliced into the query text.
type queryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

// queryResponse is the store's query envelope.
type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query executes a GROQ query with named parameters and returns the raw
// result for the caller to decode. A nil result (no matches for a [0]
// query) is returned as JSON null.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/v%s/data/query/%s", c.config.BaseURL, c.config.APIVersion, c.config.Dataset)

	body, err := c.do(ctx, "query", url, queryRequest{Query: groq, Params: params})
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UnavailableError{Op: "query", Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.Result, nil
}

// mutateRequest wraps mutations for the mutate endpoint.
type mutateRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

// mutateResponse is the store's mutation envelope.
type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Create appends a new document and returns its assigned id. The document
// must carry a _type field; an _id may be supplied by the caller or left
// to the store.
func (c *Client) Create(ctx context.Context, doc map[string]any) (string, error) {
	url := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true", c.config.BaseURL, c.config.APIVersion, c.config.Dataset)

	body, err := c.do(ctx, "mutate", url, mutateRequest{
		Mutations: []map[string]any{{"create": doc}},
	})
	if err != nil {
		return "", err
	}

	var resp mutateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &UnavailableError{Op: "mutate", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.Results) == 0 {
		return "", &UnavailableError{Op: "mutate", Err: fmt.Errorf("store returned no results")}
	}
	return resp.Results[0].ID, nil
}

// do performs one JSON POST and maps transport and status failures onto
// the client's error taxonomy.
func (c *Client) do(ctx context.Context, op, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &QueryError{Op: op, Description: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &QueryError{Op: op, Description: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &UnavailableError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	case resp.StatusCode >= 400:
		return nil, &QueryError{Op: op, StatusCode: resp.StatusCode, Description: errorDescription(body)}
	}

	return body, nil
}

// errorDescription extracts the store's error description from a 4xx body,
// falling back to the raw body.
func errorDescription(body []byte) string {
	var envelope struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Description != "" {
		return envelope.Error.Description
	}
	return string(body)
}
