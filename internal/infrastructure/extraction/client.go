package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jpvandijk/koopflow/internal/infrastructure/resilience"
)

// Responses larger than this are treated as malformed; the extraction service
// returns a flat JSON object of contract fields.
const maxResponseBytes = 4 << 20

// Client calls the external PDF extraction service. The service is a single
// POST endpoint authenticated with a static API key; its response body is
// opaque JSON that is stored on the record verbatim.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

func New(endpoint, apiKey string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.Executor,
	}
}

type extractRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
	Tenant   string `json:"tenant"`
}

func (c *Client) Extract(ctx context.Context, fileBase64, filename, tenant string) (json.RawMessage, error) {
	var result json.RawMessage
	call := func(ctx context.Context) error {
		payload, err := c.post(ctx, extractRequest{File: fileBase64, Filename: filename, Tenant: tenant})
		if err != nil {
			return err
		}
		result = payload
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "extraction.extract", call, classifyExtractionError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("extract", err)
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, payload extractRequest) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, newHTTPStatusError(resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read extract response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("extraction service returned invalid json")
	}
	return json.RawMessage(raw), nil
}
