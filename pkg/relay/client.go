package relay

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-api-relay/pkg/httpclient"
	"github.com/samvad-hq/samvad-api-relay/pkg/notify"
)

const (
	defaultTimeout     = 30000 * time.Millisecond
	defaultContentType = "application/json;charset=utf-8"

	contentTypeOctetStream = "application/octet-stream"

	headerAuthorization = "Authorization"
	headerTenantID      = "X-Tenant-Id"
	headerRequestID     = "X-Request-Id"

	msgSuccess = "success"

	networkMessage       = "connection to the server failed, please check your network"
	malformedMessage     = "the server returned an unexpected response"
	requestFailedMessage = "the request could not be completed"
)

// Sink receives the user-facing notices raised when calls fail. *notify.Fanout
// and *notify.Throttled both satisfy it.
type Sink interface {
	Notify(ctx context.Context, n notify.Notice) error
}

type noopSink struct{}

func (noopSink) Notify(context.Context, notify.Notice) error { return nil }

// Config holds the client settings.
type Config struct {
	// BaseURL is the address relative paths resolve against.
	BaseURL string
	// Timeout bounds each call end to end. Defaults to 30000 ms.
	Timeout time.Duration
	// NoticeDuration is stamped on raised notices. Defaults to 5000 ms.
	NoticeDuration time.Duration
}

// Client dispatches calls against the configured base address and shapes
// every response into the Envelope. It is safe for concurrent use.
type Client struct {
	cfg   Config
	http  httpclient.Client
	creds CredentialSource
	sink  Sink
	saver Saver
	log   Logger

	// unauthorized, when set, runs after a 401-coded failure has been
	// surfaced; hosts use it to drop local session state.
	unauthorized func(ctx context.Context)
}

// Option customizes a client beyond its Config.
type Option func(*Client)

// WithHTTPClient injects the transport used for calls.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCredentials injects the credential source consulted on every call.
func WithCredentials(cs CredentialSource) Option {
	return func(c *Client) { c.creds = ensureCredentials(cs) }
}

// WithSink routes failure notices to the given sink.
func WithSink(s Sink) Option {
	return func(c *Client) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithSaver injects the download persistence backend.
func WithSaver(s Saver) Option {
	return func(c *Client) {
		if s != nil {
			c.saver = s
		}
	}
}

// WithLogger attaches the structured logger.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithUnauthorizedHandler runs fn after an unauthorized failure has been
// surfaced. Calls that suppress notices (SkipNotify) do not trigger it.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.unauthorized = fn }
}

// New builds a client from cfg, applying defaults for unset fields.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = notify.DefaultDuration
	}

	c := &Client{
		cfg:   cfg,
		creds: AnonymousSource{},
		sink:  noopSink{},
		saver: DirSaver{},
		log:   noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(cfg.Timeout)
	}
	return c
}

// Do executes one call and shapes the response into an Envelope. On failure
// the error is a *CallError and a notice has been raised unless the request
// suppressed it.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope, error) {
	resp, requestID, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.shape(ctx, req, resp, requestID)
}

// Get performs a GET call against path.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, build(http.MethodGet, path, query, nil, opts))
}

// Delete performs a DELETE call against path.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, build(http.MethodDelete, path, query, nil, opts))
}

// Post performs a POST call with body against path.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, build(http.MethodPost, path, nil, body, opts))
}

// Put performs a PUT call with body against path.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, build(http.MethodPut, path, nil, body, opts))
}

// Patch performs a PATCH call with body against path.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, build(http.MethodPatch, path, nil, body, opts))
}

// execute resolves the URL, stamps headers, and performs the HTTP exchange,
// surfacing transport failures. Callers shape the response.
func (c *Client) execute(ctx context.Context, req Request) (httpclient.Response, string, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	requestID := uuid.NewString()
	headers := c.buildHeaders(req.Headers)
	headers[headerRequestID] = requestID

	c.log.DebugObj("dispatching call", "call_meta", map[string]any{
		"method":     method,
		"path":       req.Path,
		"request_id": requestID,
	})

	resp, err := c.http.Execute(ctx, httpclient.Call{
		Method:  method,
		URL:     Resolve(c.cfg.BaseURL, req.Path),
		Headers: headers,
		Query:   req.Query,
		Body:    req.Body,
	})
	if err != nil {
		ce := &CallError{Kind: KindNetwork, Msg: networkMessage, Err: err}
		return nil, requestID, c.fail(ctx, req, ce, requestID)
	}
	return resp, requestID, nil
}

// buildHeaders assembles dispatcher defaults, caller overrides, and
// credential headers for one call.
func (c *Client) buildHeaders(overrides map[string]string) map[string]string {
	headers := map[string]string{
		"Content-Type": defaultContentType,
	}
	for k, v := range overrides {
		headers[k] = v
	}
	if token := c.creds.Token(); token != "" {
		headers[headerAuthorization] = "Bearer " + token
	}
	if tenant := c.creds.TenantID(); tenant != "" {
		headers[headerTenantID] = tenant
	}
	return headers
}

// shape classifies the response per the dispatch policy: bypass, canonical
// envelope, byte stream, bare status failure, or synthetic success wrap.
func (c *Client) shape(ctx context.Context, req Request, resp httpclient.Response, requestID string) (*Envelope, error) {
	body := resp.Body()
	status := resp.StatusCode()

	// The bypass disables body shaping, not failure detection: a non-2xx
	// response still fails the call.
	if req.SkipNormalize {
		if !isSuccessStatus(status) {
			ce := &CallError{Kind: KindStatus, StatusCode: status, Msg: StatusMessage(status)}
			if title := pageTitle(body, resp.Header("Content-Type")); title != "" {
				ce.Err = errors.New(title)
			}
			return nil, c.fail(ctx, req, ce, requestID)
		}
		return rawSuccess(body), nil
	}

	if looksLikeEnvelope(body) {
		return c.shapeEnvelope(ctx, req, body, status, requestID)
	}

	contentType := resp.Header("Content-Type")
	if isSuccessStatus(status) && (req.Binary || isBinaryContentType(contentType)) {
		return rawSuccess(body), nil
	}

	if !isSuccessStatus(status) {
		ce := &CallError{Kind: KindStatus, StatusCode: status, Msg: StatusMessage(status)}
		if title := pageTitle(body, contentType); title != "" {
			ce.Err = errors.New(title)
		}
		return nil, c.fail(ctx, req, ce, requestID)
	}

	return syntheticSuccess(body), nil
}

// shapeEnvelope handles bodies that carry the canonical {success, ...} shape.
func (c *Client) shapeEnvelope(ctx context.Context, req Request, body []byte, status int, requestID string) (*Envelope, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		ce := &CallError{Kind: KindAPI, StatusCode: status, Msg: malformedMessage, Err: err}
		return nil, c.fail(ctx, req, ce, requestID)
	}

	if env.Success {
		return env, nil
	}

	msg := strings.TrimSpace(env.Msg)
	if msg == "" {
		msg = requestFailedMessage
	}
	ce := &CallError{Kind: KindAPI, StatusCode: status, Code: env.Code, Msg: msg}
	return nil, c.fail(ctx, req, ce, requestID)
}

// fail surfaces the error as a notice (unless suppressed), runs the
// unauthorized hook when applicable, and returns the error. Notification is a
// side effect; the error always propagates to the caller.
func (c *Client) fail(ctx context.Context, req Request, ce *CallError, requestID string) error {
	fields := map[string]any{
		"method":     req.Method,
		"path":       req.Path,
		"request_id": requestID,
		"kind":       string(ce.Kind),
		"status":     ce.StatusCode,
		"msg":        ce.Msg,
	}
	if ce.Err != nil {
		fields["error"] = ce.Err.Error()
	}
	c.log.ErrorObj("call failed", "call_error", fields)

	if !req.SkipNotify && !Notified(ce.Err) {
		n := notify.NewNotice(ce.Msg, notify.LevelError)
		n.Duration = c.cfg.NoticeDuration
		n.RequestID = requestID
		if err := c.sink.Notify(ctx, n); err != nil {
			c.log.WarnObj("notice delivery failed", "notify_error", map[string]any{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
		ce.Notified = true
	}

	// The session-drop hook rides with notification: a silenced background
	// call must not log the host out.
	if !req.SkipNotify {
		c.maybeUnauthorized(ctx, ce)
	}
	return ce
}

// maybeUnauthorized runs the configured handler after an unauthorized failure
// has been surfaced.
func (c *Client) maybeUnauthorized(ctx context.Context, ce *CallError) {
	if c.unauthorized == nil {
		return
	}
	if ce.StatusCode == http.StatusUnauthorized || ce.Code.Int() == http.StatusUnauthorized {
		c.unauthorized(ctx)
	}
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

func isBinaryContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), contentTypeOctetStream)
}
