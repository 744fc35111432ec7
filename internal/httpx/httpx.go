// Package httpx wraps the small amount of HTTP plumbing the acquisition
// strategies share: browser-like headers, status checking, body decoding.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Pages and API responses are bounded; anything bigger is not the content
// we are looking for.
const maxBodyBytes = 16 << 20

// Endpoints respond differently to obvious non-browser clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func get(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %v: unexpected status %v", url, res.Status)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("GET %v: read body: %w", url, err)
	}
	return body, nil
}

// GetText fetches url and returns the body as a string.
func GetText(ctx context.Context, client *http.Client, url string, headers map[string]string) (string, error) {
	body, err := get(ctx, client, url, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON fetches url and decodes the body into a dynamically-typed value,
// for responses whose shape is not known ahead of time.
func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string) (any, error) {
	body, err := get(ctx, client, url, headers)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("GET %v: decode JSON: %w", url, err)
	}
	return v, nil
}
