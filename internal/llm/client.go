package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	generatePath = "/chemllm/generate"
	statusPath   = "/chemllm/status"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Client talks to the ChemLLM generation and status endpoints.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new ChemLLM client. timeout bounds every request; zero means no bound.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate sends a generation request.
//
// Any answer the server managed to produce, including refusals with a non-2xx status, comes
// back as a GenerateResponse with a nil error. A non-nil error always satisfies
// errors.Is(err, ErrTransport).
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, transportError("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+generatePath, bytes.NewBuffer(body))
	if err != nil {
		return GenerateResponse{}, transportError("failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var resp GenerateResponse
	status, err := c.do(httpReq, &resp)
	if err != nil {
		return GenerateResponse{}, err
	}
	if status != http.StatusOK {
		resp.Success = false
	}
	if !resp.Success && resp.Error == "" {
		resp.Error = fmt.Sprintf("request failed with status %d", status)
	}
	return resp, nil
}

// Status queries model availability.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+statusPath, nil)
	if err != nil {
		return StatusResponse{}, transportError("failed to create request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	var resp StatusResponse
	status, err := c.do(httpReq, &resp)
	if err != nil {
		return StatusResponse{}, err
	}
	if status != http.StatusOK {
		resp.Success = false
	}
	if !resp.Success && resp.Error == "" {
		resp.Error = fmt.Sprintf("request failed with status %d", status)
	}
	return resp, nil
}

// do sends req and decodes a JSON body into out, returning the HTTP status code.
func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, transportError("failed to send request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, transportError("failed to read response", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, transportError(
			fmt.Sprintf("failed to decode response (status %d)", resp.StatusCode), err)
	}
	return resp.StatusCode, nil
}
