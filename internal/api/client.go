package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls a running ewmsd HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given bind address or base URL.
func NewClient(baseURL string) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed != "" && !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return &Client{
		baseURL: trimmed,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Status fetches the daemon status summary.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Beds fetches the full collection with live stay classification.
func (c *Client) Beds(ctx context.Context) ([]BedView, error) {
	var out BedsResponse
	if err := c.do(ctx, http.MethodGet, "/api/beds", nil, &out); err != nil {
		return nil, err
	}
	return out.Beds, nil
}

// EmptyBeds fetches the ids of currently empty beds.
func (c *Client) EmptyBeds(ctx context.Context) ([]int, error) {
	var out EmptyBedsResponse
	if err := c.do(ctx, http.MethodGet, "/api/beds/empty", nil, &out); err != nil {
		return nil, err
	}
	return out.BedIDs, nil
}

// Admit places a patient into the given bed.
func (c *Client) Admit(ctx context.Context, bedID int, req AdmitRequest) (*BedResponse, error) {
	var out BedResponse
	path := fmt.Sprintf("/api/beds/%d/admit", bedID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Discharge clears the given bed.
func (c *Client) Discharge(ctx context.Context, bedID int) (*DischargeResponse, error) {
	var out DischargeResponse
	path := fmt.Sprintf("/api/beds/%d/discharge", bedID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer moves the patient in fromID to the empty bed toID.
func (c *Client) Transfer(ctx context.Context, fromID, toID int) (*BedResponse, error) {
	var out BedResponse
	path := fmt.Sprintf("/api/beds/%d/transfer", fromID)
	if err := c.do(ctx, http.MethodPost, path, TransferRequest{To: toID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("api address is not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call ewmsd api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("%s", failure.Error)
		}
		return fmt.Errorf("ewmsd api returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
