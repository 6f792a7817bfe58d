package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/estecon/estecon-client/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// attributeHeaderPrefix turns event attributes into headers, e.g. X-Estecon-Endpoint-Id.
const attributeHeaderPrefix = "X-Estecon-"

// httpPublisher posts the JSON-encoded event to a webhook.
type httpPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewResty(httpclient.WithTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second))
	client.SetHeader("Content-Type", "application/json")
	client.SetHeaders(cfg.HTTP.Headers)

	method := strings.ToUpper(cfg.HTTP.Method)
	if method == "" {
		method = httpDefaultMethod
	}
	return &httpPublisher{
		id:     cfg.ID,
		method: method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    orNop(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().SetContext(ctx).SetBody(evt)
	for k, v := range evt.attributes() {
		req.SetHeader(attributeHeaderPrefix+http.CanonicalHeaderKey(strings.ReplaceAll(k, "_", "-")), v)
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		h.log.WarnObj("http publisher rejected event", "publisher_http_error", map[string]any{
			"publisher_id": h.id,
			"endpoint_id":  evt.EndpointID,
			"status":       resp.StatusCode(),
		})
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}
	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"endpoint_id":  evt.EndpointID,
		"status":       resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
