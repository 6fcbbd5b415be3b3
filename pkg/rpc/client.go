// Package rpc is the JSON-over-HTTP call convention shared by the services:
// POST <base>/rpc/<procedure> with the payload as body. A 200 carries the
// result, anything else carries {"error": "<CODE>"}.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const PathPrefix = "/rpc/"

// Error is a non-200 reply. Code is empty when the body did not carry one.
type Error struct {
	Procedure string
	Status    int
	Code      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc %s failed with status %d: %s", e.Procedure, e.Status, e.Code)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call invokes procedure with payload and decodes the result into out. out
// may be nil when the result is not needed.
func (c *Client) Call(ctx context.Context, procedure string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+PathPrefix+procedure,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &Error{Procedure: procedure, Status: resp.StatusCode, Code: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
