package httpclient

import (
	"context"
	"net/url"
)

// Call describes a single outbound HTTP exchange.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    any
}

// Response is the minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Execute(ctx context.Context, call Call) (Response, error)
}
