// Package api sends JSON requests to the emotion log API and maps failures to apierrors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/emotion-log/internal/apierrors"
)

// ErrorBody is the JSON error envelope returned by the API.
type ErrorBody struct {
	Error   string            `json:"error"`
	Code    apierrors.Kind    `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Client issues requests relative to a base URL such as http://localhost:9000/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client. The caller owns httpClient and its transport chain.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Do sends body as JSON and decodes a successful response into out. Either may be nil.
// Transport failures become network errors, or canceled errors when ctx was canceled; error
// statuses become the matching APIError kind.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return apierrors.NewErrCanceled(err)
		}
		return apierrors.NewErrNetwork(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body ErrorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	return apierrors.FromStatus(resp.StatusCode, body.Code, body.Error, body.Details)
}
