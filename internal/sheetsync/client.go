// Package sheetsync pushes the expense collection to a spreadsheet web app and
// reads it back. The web app accepts a JSON POST with an action and answers
// {success, message, data}.
package sheetsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

var (
	// ErrNotConfigured is returned when no endpoint is set.
	ErrNotConfigured = errors.New("sync endpoint not configured")
	// ErrRejected is returned when the web app answers success=false.
	ErrRejected = errors.New("sync rejected")
)

// Actions understood by the web app.
const (
	ActionSync  = "sync"
	ActionFetch = "fetch"
	ActionTest  = "test"
)

type request struct {
	Action        string            `json:"action"`
	Data          []expense.Expense `json:"data,omitempty"`
	SpreadsheetID string            `json:"spreadsheetId,omitempty"`
}

// Response is the web app's reply.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an endpoint is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// Sync uploads the whole collection to the sheet.
func (c *Client) Sync(ctx context.Context, spreadsheetID string, records []expense.Expense) (Response, error) {
	if records == nil {
		records = []expense.Expense{}
	}

	return c.do(ctx, request{Action: ActionSync, Data: records, SpreadsheetID: spreadsheetID})
}

// Fetch downloads the rows stored in the sheet.
func (c *Client) Fetch(ctx context.Context, spreadsheetID string) (Response, error) {
	return c.do(ctx, request{Action: ActionFetch, SpreadsheetID: spreadsheetID})
}

// Test checks that the web app is reachable and answering.
func (c *Client) Test(ctx context.Context) error {
	_, err := c.do(ctx, request{Action: ActionTest})
	return err
}

func (c *Client) do(ctx context.Context, body request) (Response, error) {
	if !c.Configured() {
		return Response{}, ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Response{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}

	if !result.Success {
		return result, fmt.Errorf("%w: %s", ErrRejected, result.Message)
	}

	return result, nil
}
