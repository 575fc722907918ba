package gladia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	apiKeyHeader = "X-Gladia-Key"
	userAgent    = "gladia-live-go"
	livePath     = "/v2/live"
)

func newHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
			return request.Method + " " + request.URL.Path
		}),
	)}
}

// initSession posts the session config and returns the socket endpoint.
func (c *Client) initSession(ctx context.Context, body []byte) (*sessionInit, error) {
	query := url.Values{"region": {string(c.options.Region)}}
	var created sessionInit
	if err := c.do(ctx, http.MethodPost, livePath, query, body, &created); err != nil {
		return nil, err
	}
	if err := validate.Struct(created); err != nil {
		return nil, fmt.Errorf("invalid handshake response: %w", err)
	}
	return &created, nil
}

// do sends one API request. A non-2xx response becomes an *Error, classified
// by HTTP status, wrapping the decoded *APIError. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	endpoint := strings.TrimRight(c.options.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.options.APIKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.options.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp, method+" "+path)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, operation string) *Error {
	apiErr := &APIError{}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 && json.Unmarshal(data, apiErr) != nil {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	apiErr.StatusCode = resp.StatusCode
	if apiErr.Path == "" {
		apiErr.Path = resp.Request.URL.Path
	}
	return mapAPIError(apiErr, fmt.Sprintf("%s failed: %s", operation, resp.Status))
}

// GetResult fetches the stored result of a live session.
func (c *Client) GetResult(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, NewError(ErrorStatusInvalidConfig, "session id is required")
	}
	ctx, span := tracer.Start(ctx, "get live result")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	var result Result
	if err := c.do(ctx, http.MethodGet, livePath+"/"+url.PathEscape(id), nil, nil, &result); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("result.status", string(result.Status)))
	return &result, nil
}

// DeleteResult deletes the stored result of a live session.
func (c *Client) DeleteResult(ctx context.Context, id string) error {
	if id == "" {
		return NewError(ErrorStatusInvalidConfig, "session id is required")
	}
	ctx, span := tracer.Start(ctx, "delete live result")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	if err := c.do(ctx, http.MethodDelete, livePath+"/"+url.PathEscape(id), nil, nil, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
