package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Option configures the underlying resty client.
type Option func(*resty.Client)

// WithTimeout bounds every request. Zero or negative leaves requests unbounded,
// so only the caller's context can cut them short.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithLogger routes resty's own warnings and debug output to log.
func WithLogger(log Logger) Option {
	return func(c *resty.Client) {
		if log != nil {
			c.SetLogger(log)
		}
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

// NewResty returns a bare resty client for callers that need verbs other than GET.
func NewResty(opts ...Option) *resty.Client {
	c := resty.New()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RestyClient implements Client on top of resty.
type RestyClient struct {
	client *resty.Client
}

func NewRestyClient(opts ...Option) *RestyClient {
	return &RestyClient{client: NewResty(opts...)}
}

// Get issues a single GET. Any response, whatever its status, is returned
// without error; err is set only when no response was received.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp}, nil
}

type restyResponse struct {
	*resty.Response
}

// Body and StatusCode are promoted from *resty.Response.
var _ Response = restyResponse{}
