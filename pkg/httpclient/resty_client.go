package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
// A non-positive timeout leaves resty's default in place.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Execute performs the described HTTP exchange.
func (r *RestyClient) Execute(ctx context.Context, call Call) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(call.Headers) > 0 {
		req.SetHeaders(call.Headers)
	}
	if len(call.Query) > 0 {
		req.SetQueryParamsFromValues(call.Query)
	}
	if call.Body != nil {
		req.SetBody(call.Body)
	}
	resp, err := req.Execute(call.Method, call.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte             { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int          { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header(key string) string { return r.resp.Header().Get(key) }
