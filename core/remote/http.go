package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modsync/core/apperr"
	"modsync/core/server"
)

// HTTPSource fetches resources with plain GET requests below a base URL.
type HTTPSource struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPSource creates a source whose connect, response-header and per-read
// waits are bounded by timeout. A body may take any total time as long as
// data keeps arriving.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &HTTPSource{
		baseURL: baseURL,
		timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

// WithAPIKey sets the key sent with PostJSON requests.
func (s *HTTPSource) WithAPIKey(key string) *HTTPSource {
	s.apiKey = key
	return s
}

// URL returns the absolute URL of a resource.
func (s *HTTPSource) URL(name string) string {
	return s.baseURL + url.PathEscape(name)
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	u := s.URL(name)

	reqCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, 0, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		cancel()
		return nil, 0, Classify("GET "+u, err)
	}

	if err := checkStatus(resp); err != nil {
		_ = resp.Body.Close()
		cancel()
		return nil, 0, fmt.Errorf("GET %s: %w", u, err)
	}

	if s.timeout <= 0 {
		return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, resp.ContentLength, nil
	}
	return newIdleTimeoutBody(resp.Body, "GET "+u, s.timeout, cancel), resp.ContentLength, nil
}

// PostJSON sends payload as a JSON body to the named endpoint.
func (s *HTTPSource) PostJSON(ctx context.Context, name string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	u := s.URL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set(server.APIKeyHeader, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Classify("POST "+u, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("POST %s: %w", u, err)
	}
	return nil
}

// cancelBody releases the request context when the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return &apperr.RemoteError{Status: resp.StatusCode, Reason: reason}
}
