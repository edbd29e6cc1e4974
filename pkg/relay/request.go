package relay

import "net/url"

// Request describes a single call through the dispatcher. Descriptors are
// built per call and discarded afterwards.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string

	// Binary marks the response as a byte-stream payload regardless of its
	// content type.
	Binary bool
	// SkipNotify suppresses user-facing notices for this call; errors still
	// return to the caller.
	SkipNotify bool
	// SkipNormalize hands the response body back without shaping or
	// inspection.
	SkipNormalize bool
}

// CallOption adjusts a single request descriptor.
type CallOption func(*Request)

// WithHeader sets one request header, overriding the dispatcher default.
func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders merges headers into the request, overriding dispatcher defaults.
func WithHeaders(headers map[string]string) CallOption {
	return func(r *Request) {
		if len(headers) == 0 {
			return
		}
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithBinary marks the response as a byte-stream payload.
func WithBinary() CallOption {
	return func(r *Request) { r.Binary = true }
}

// WithoutNotify suppresses failure notices for this call.
func WithoutNotify() CallOption {
	return func(r *Request) { r.SkipNotify = true }
}

// WithoutNormalize returns the raw body instead of the shaped envelope.
func WithoutNormalize() CallOption {
	return func(r *Request) { r.SkipNormalize = true }
}

// build assembles a request descriptor for the verb helpers.
func build(method, path string, query url.Values, body any, opts []CallOption) Request {
	req := Request{Method: method, Path: path, Query: query, Body: body}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	return req
}
