package relay

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilename names saved downloads when neither the caller nor the
// response provides one.
const DefaultFilename = "download"

// Saver persists a downloaded payload and returns the path it wrote.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes downloads into a fixed directory, the working directory
// when unset.
type DirSaver struct {
	Dir string
}

// Save writes data under name inside the saver's directory. A failed write
// leaves no partial file behind.
func (s DirSaver) Save(name string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write download: %w", err)
	}
	return path, nil
}

// Download fetches path as a byte stream and saves it through the configured
// Saver. The file is named by filename, then by the response's
// Content-Disposition, then "download". A blob that turns out to be an
// envelope-shaped error is raised as a failure and nothing is saved.
func (c *Client) Download(ctx context.Context, path string, query url.Values, filename string, opts ...CallOption) (string, error) {
	req := build(http.MethodGet, path, query, nil, opts)
	req.Binary = true
	req.SkipNormalize = true

	resp, requestID, err := c.execute(ctx, req)
	if err != nil {
		return "", err
	}

	body := resp.Body()
	status := resp.StatusCode()

	if !isSuccessStatus(status) && !looksLikeEnvelope(body) {
		ce := &CallError{Kind: KindStatus, StatusCode: status, Msg: StatusMessage(status)}
		if title := pageTitle(body, resp.Header("Content-Type")); title != "" {
			ce.Err = errors.New(title)
		}
		return "", c.fail(ctx, req, ce, requestID)
	}

	if looksLikeEnvelope(body) {
		env, err := parseEnvelope(body)
		if err != nil {
			ce := &CallError{Kind: KindAPI, StatusCode: status, Msg: malformedMessage, Err: err}
			return "", c.fail(ctx, req, ce, requestID)
		}
		if !env.Success {
			msg := strings.TrimSpace(env.Msg)
			if msg == "" {
				msg = requestFailedMessage
			}
			ce := &CallError{Kind: KindAPI, StatusCode: status, Code: env.Code, Msg: msg}
			return "", c.fail(ctx, req, ce, requestID)
		}
	}

	name := downloadName(filename, resp.Header("Content-Disposition"))
	saved, err := c.saver.Save(name, body)
	if err != nil {
		return "", fmt.Errorf("save download %q: %w", name, err)
	}

	c.log.InfoObj("download saved", "download_meta", map[string]any{
		"path":       saved,
		"bytes":      len(body),
		"request_id": requestID,
	})
	return saved, nil
}

// downloadName picks the filename: explicit, then Content-Disposition, then
// the default.
func downloadName(explicit, disposition string) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return filepath.Base(name)
			}
		}
	}
	return DefaultFilename
}
