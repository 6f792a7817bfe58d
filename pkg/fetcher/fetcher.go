// Package fetcher issues GET requests against a fixed base address and
// decodes the JSON body of successful responses.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/estecon/estecon-client/pkg/httpclient"
)

// DefaultBaseURL is the address of a locally running API.
const DefaultBaseURL = "http://127.0.0.1:8000/v1"

// DataFetcher decodes the JSON document served at endpoint into out.
type DataFetcher interface {
	FetchInto(ctx context.Context, endpoint string, out any) error
}

// Fetcher is a DataFetcher bound to one base address. It is immutable after
// New and safe for concurrent use.
type Fetcher struct {
	baseURL string
	client  httpclient.Client
	headers map[string]string
}

// Option customizes a Fetcher at construction time.
type Option func(*Fetcher)

// WithHeaders replaces the static headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		cp := make(map[string]string, len(headers))
		for k, v := range headers {
			cp[k] = v
		}
		f.headers = cp
	}
}

// New builds a Fetcher for baseURL. A nil client falls back to a resty
// transport without a timeout.
func New(baseURL string, client httpclient.Client, opts ...Option) (*Fetcher, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if client == nil {
		client = httpclient.NewRestyClient()
	}

	f := &Fetcher{
		baseURL: baseURL,
		client:  client,
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}
	return nil
}

// BaseURL returns the address every endpoint is appended to.
func (f *Fetcher) BaseURL() string { return f.baseURL }

// URL returns the request target for endpoint. The endpoint is appended
// verbatim; escaping is the caller's job.
func (f *Fetcher) URL(endpoint string) string {
	return f.baseURL + endpoint
}

// FetchInto performs a single GET and decodes a 2xx body into out.
func (f *Fetcher) FetchInto(ctx context.Context, endpoint string, out any) error {
	target := f.URL(endpoint)

	resp, err := f.client.Get(ctx, target, f.headers)
	if err != nil {
		return &NetworkError{URL: target, Err: err}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return &StatusError{StatusCode: code, URL: target, Body: bodySnippet(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{URL: target, Body: bodySnippet(body), Err: err}
	}
	return nil
}

// Fetch returns the endpoint's document as opaque structured data
// (map[string]any, []any or a scalar).
func Fetch(ctx context.Context, df DataFetcher, endpoint string) (any, error) {
	var out any
	if err := df.FetchInto(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAs decodes the endpoint's document into a value of type T.
func FetchAs[T any](ctx context.Context, df DataFetcher, endpoint string) (T, error) {
	var out T
	if err := df.FetchInto(ctx, endpoint, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// FetchRaw returns the endpoint's document as validated, undecoded JSON.
func FetchRaw(ctx context.Context, df DataFetcher, endpoint string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := df.FetchInto(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
