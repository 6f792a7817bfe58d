package fetcher

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/estecon/estecon-client/pkg/httpclient"
)

type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }

// fakeHTTPClient returns a canned response and records requested URLs.
type fakeHTTPClient struct {
	mu      sync.Mutex
	resp    fakeResponse
	err     error
	calls   []string
	headers []map[string]string
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	f.headers = append(f.headers, headers)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// hangingHTTPClient blocks until release is closed or the context ends.
type hangingHTTPClient struct {
	release chan struct{}
}

func (h hangingHTTPClient) Get(ctx context.Context, _ string, _ map[string]string) (httpclient.Response, error) {
	select {
	case <-h.release:
		return fakeResponse{body: []byte(`{}`), statusCode: http.StatusOK}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func mustNew(t *testing.T, client httpclient.Client) *Fetcher {
	t.Helper()
	f, err := New(DefaultBaseURL, client)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestURLConcatenatesVerbatim(t *testing.T) {
	f := mustNew(t, &fakeHTTPClient{})
	for _, endpoint := range []string{"/bills", "bills", "/bills?a=b c", "/../x", "/%zz"} {
		if got, want := f.URL(endpoint), DefaultBaseURL+endpoint; got != want {
			t.Errorf("URL(%q) = %q want %q", endpoint, got, want)
		}
	}
}

func TestFetchIntoRequestsConcatenatedTarget(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{}`), statusCode: http.StatusOK}}
	f := mustNew(t, client)

	if _, err := Fetch(context.Background(), f, "/congresistas/1109"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(client.calls) != 1 || client.calls[0] != "http://127.0.0.1:8000/v1/congresistas/1109" {
		t.Fatalf("unexpected calls %#v", client.calls)
	}
	if client.headers[0]["Accept"] != "application/json" {
		t.Fatalf("expected default Accept header, got %#v", client.headers[0])
	}
}

func TestFetchReturnsParsedBody(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{"a":1}`), statusCode: http.StatusOK}}
	f := mustNew(t, client)

	got, err := Fetch(context.Background(), f, "/items")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fetch = %#v want %#v", got, want)
	}
}

func TestFetchStatusError(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{"detail":"Not Found"}`), statusCode: http.StatusNotFound}}
	f := mustNew(t, client)

	_, err := Fetch(context.Background(), f, "/missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error %q does not mention 404", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Body != `{"detail":"Not Found"}` {
		t.Fatalf("unexpected status error %#v", statusErr)
	}
	if ErrorKind(err) != KindStatus {
		t.Fatalf("ErrorKind = %s", ErrorKind(err))
	}
}

func TestFetchTreatsAny2xxAsSuccess(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`[1,2]`), statusCode: http.StatusAccepted}}
	f := mustNew(t, client)

	got, err := Fetch(context.Background(), f, "/x")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(got, []any{float64(1), float64(2)}) {
		t.Fatalf("Fetch = %#v", got)
	}
}

func TestFetchParseError(t *testing.T) {
	for _, body := range []string{"<html>oops</html>", ""} {
		client := &fakeHTTPClient{resp: fakeResponse{body: []byte(body), statusCode: http.StatusOK}}
		f := mustNew(t, client)

		_, err := Fetch(context.Background(), f, "/items")
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("body %q: expected *ParseError, got %v", body, err)
		}
		if parseErr.Unwrap() == nil {
			t.Fatalf("body %q: parse error lost its cause", body)
		}
		if ErrorKind(err) != KindParse {
			t.Fatalf("ErrorKind = %s", ErrorKind(err))
		}
	}
}

func TestFetchNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	f := mustNew(t, &fakeHTTPClient{err: cause})

	_, err := Fetch(context.Background(), f, "/items")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if netErr.URL != DefaultBaseURL+"/items" {
		t.Fatalf("URL = %s", netErr.URL)
	}
}

func TestFetchHasNoBuiltInTimeout(t *testing.T) {
	client := hangingHTTPClient{release: make(chan struct{})}
	f := mustNew(t, client)

	done := make(chan error, 1)
	go func() {
		_, err := Fetch(context.Background(), f, "/slow")
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("fetch returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(client.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Fetch after release: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("fetch did not complete after release")
	}
}

func TestFetchSurfacesCallerDeadlineAsNetworkError(t *testing.T) {
	f := mustNew(t, hangingHTTPClient{release: make(chan struct{})})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Fetch(ctx, f, "/slow")
	if ErrorKind(err) != KindNetwork || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected network error wrapping deadline, got %v", err)
	}
}

func TestFetchIsIndependentAcrossCalls(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{"a":[1]}`), statusCode: http.StatusOK}}
	f := mustNew(t, client)

	first, err := Fetch(context.Background(), f, "/items")
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	second, err := Fetch(context.Background(), f, "/items")
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %#v vs %#v", first, second)
	}

	first.(map[string]any)["a"] = "mutated"
	if reflect.DeepEqual(first, second) {
		t.Fatalf("results share state")
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(client.calls))
	}
}

func TestFetchAsAndFetchRaw(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{"data":{"id":"1109"}}`), statusCode: http.StatusOK}}
	f := mustNew(t, client)

	type envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	got, err := FetchAs[envelope](context.Background(), f, "/congresistas/1109")
	if err != nil {
		t.Fatalf("FetchAs: %v", err)
	}
	if got.Data.ID != "1109" {
		t.Fatalf("FetchAs = %#v", got)
	}

	raw, err := FetchRaw(context.Background(), f, "/congresistas/1109")
	if err != nil {
		t.Fatalf("FetchRaw: %v", err)
	}
	if string(raw) != `{"data":{"id":"1109"}}` {
		t.Fatalf("FetchRaw = %s", raw)
	}
}

func TestWithHeadersReplacesDefaults(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{}`), statusCode: http.StatusOK}}
	f, err := New(DefaultBaseURL, client, WithHeaders(map[string]string{"User-Agent": "estecon"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := Fetch(context.Background(), f, "/"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := client.headers[0]; len(got) != 1 || got["User-Agent"] != "estecon" {
		t.Fatalf("headers = %#v", got)
	}
}

func TestNewRejectsMalformedBaseURL(t *testing.T) {
	for _, base := range []string{"", "   ", "127.0.0.1:8000/v1", "ftp://host/v1", "http://"} {
		if _, err := New(base, nil); err == nil {
			t.Errorf("New(%q) expected error", base)
		}
	}
}

func TestBodySnippetTruncates(t *testing.T) {
	s := bodySnippet([]byte(strings.Repeat("x", maxSnippetBytes+10)))
	if len(s) != maxSnippetBytes+3 || !strings.HasSuffix(s, "...") {
		t.Fatalf("unexpected snippet length %d", len(s))
	}
}
