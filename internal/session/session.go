// Package session owns the HTTP client shared by every step of a probe run.
//
// A Session reuses connections across requests, applies default headers to
// every request and carries the bearer token installed by the auth helper.
// It is used from a single goroutine and does no locking.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ritzprobe/internal/ratelimit"
)

const (
	// maxBodySize limits how much of a response body is kept in memory.
	maxBodySize = 10 * 1024 * 1024 // 10MB

	headerAuthorization = "Authorization"
)

// Options configures a new Session.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Pacer     *ratelimit.Pacer
	Debug     *DebugLogger
	// Transport overrides the default connection-reusing transport.
	Transport http.RoundTripper
}

// Session is a long-lived HTTP client with default headers and an optional
// bearer token.
type Session struct {
	baseURL string
	client  *http.Client
	headers http.Header
	pacer   *ratelimit.Pacer
	debug   *DebugLogger
}

// HeaderSnapshot is an opaque copy of the default headers.
type HeaderSnapshot struct {
	headers http.Header
}

// New builds a Session. The base URL is used as-is apart from a trailing slash.
func New(opts Options) *Session {
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	if opts.UserAgent != "" {
		headers.Set("User-Agent", opts.UserAgent)
	}

	return &Session{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout, Transport: transport},
		headers: headers,
		pacer:   opts.Pacer,
		debug:   opts.Debug,
	}
}

// BaseURL returns the base every relative path is joined to.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// SetBearerToken installs token as the default Authorization header.
// An empty token removes the header.
func (s *Session) SetBearerToken(token string) {
	if token == "" {
		s.headers.Del(headerAuthorization)
		return
	}
	s.headers.Set(headerAuthorization, "Bearer "+token)
}

// BearerToken returns the installed token, or "" when none is set.
func (s *Session) BearerToken() string {
	return strings.TrimPrefix(s.headers.Get(headerAuthorization), "Bearer ")
}

// Authenticated reports whether an Authorization header is installed.
func (s *Session) Authenticated() bool {
	return s.headers.Get(headerAuthorization) != ""
}

// Headers returns a copy of the default headers.
func (s *Session) Headers() http.Header {
	return s.headers.Clone()
}

// SnapshotHeaders captures the default headers so they can be restored after
// a temporary deauthentication.
func (s *Session) SnapshotHeaders() HeaderSnapshot {
	return HeaderSnapshot{headers: s.headers.Clone()}
}

// RestoreHeaders replaces the default headers with a previous snapshot.
func (s *Session) RestoreHeaders(snap HeaderSnapshot) {
	if snap.headers == nil {
		return
	}
	s.headers = snap.headers.Clone()
}

// Get issues a GET request.
func (s *Session) Get(ctx context.Context, path string, query url.Values, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodGet, path, query, nil, headers)
}

// Post issues a POST request with body encoded as JSON.
func (s *Session) Post(ctx context.Context, path string, body any, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodPost, path, nil, body, headers)
}

// Put issues a PUT request with body encoded as JSON.
func (s *Session) Put(ctx context.Context, path string, body any, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodPut, path, nil, body, headers)
}

// Delete issues a DELETE request.
func (s *Session) Delete(ctx context.Context, path string, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodDelete, path, nil, nil, headers)
}

// Options issues an OPTIONS request, typically a CORS preflight.
func (s *Session) Options(ctx context.Context, path string, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodOptions, path, nil, nil, headers)
}

// Head issues a HEAD request.
func (s *Session) Head(ctx context.Context, path string, headers http.Header) (*Response, error) {
	return s.Do(ctx, http.MethodHead, path, nil, nil, headers)
}

// Do sends a request. Body may be nil, []byte, string, io.Reader or any
// JSON-encodable value. Per-request headers override the defaults.
// Transport errors are returned as *NetworkFailure; any HTTP status is a
// successful round trip.
func (s *Session) Do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header) (*Response, error) {
	target := s.URL(path)
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	for name, values := range s.headers {
		req.Header[name] = append([]string(nil), values...)
	}
	for name, values := range headers {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return nil, &NetworkFailure{Method: method, URL: target, Err: err}
	}

	s.debug.LogRequest(req)

	start := time.Now()
	resp, err := s.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		s.debug.LogError(method, target, err.Error(), duration)
		return nil, &NetworkFailure{Method: method, URL: target, Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_, _ = io.Copy(io.Discard, resp.Body) // drain errors are ignorable
	if err != nil {
		s.debug.LogError(method, target, err.Error(), duration)
		return nil, &NetworkFailure{Method: method, URL: target, Err: err, Timeout: isTimeout(err)}
	}

	s.debug.LogResponse(resp, data, duration)

	return &Response{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		Duration:   duration,
	}, nil
}

// URL joins path to the base URL with exactly one separator. Absolute URLs
// are returned unchanged.
func (s *Session) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return s.baseURL
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
