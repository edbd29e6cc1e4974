package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/samvad-hq/samvad-api-relay/pkg/relay"
)

var (
	okPaint   = color.New(color.FgGreen, color.Bold)
	failPaint = color.New(color.FgRed, color.Bold)
	dimPaint  = color.New(color.Faint)
)

// renderEnvelope prints a shaped response: a status line, then the payload.
// Raw payloads are written verbatim.
func renderEnvelope(w io.Writer, env *relay.Envelope) error {
	if env == nil {
		return nil
	}
	if env.Raw != nil {
		_, err := w.Write(env.Raw)
		return err
	}

	okPaint.Fprint(w, "success")
	if env.Code != "" {
		dimPaint.Fprintf(w, "  code=%s", env.Code)
	}
	if env.Msg != "" {
		dimPaint.Fprintf(w, "  msg=%s", env.Msg)
	}
	fmt.Fprintln(w)

	if len(env.Data) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, env.Data, "", "  "); err != nil {
		_, werr := fmt.Fprintf(w, "%s\n", env.Data)
		return werr
	}
	_, err := fmt.Fprintf(w, "%s\n", buf.Bytes())
	return err
}

// renderFailure prints the failure detail for a finished call, or the plain
// error for anything that never reached the dispatcher.
func renderFailure(w io.Writer, err error) {
	var ce *relay.CallError
	if !errors.As(err, &ce) {
		failPaint.Fprint(w, "error")
		fmt.Fprintf(w, " %v\n", err)
		return
	}

	failPaint.Fprint(w, "failure")
	dimPaint.Fprintf(w, "  kind=%s", ce.Kind)
	if ce.StatusCode != 0 {
		dimPaint.Fprintf(w, "  status=%d", ce.StatusCode)
	}
	if ce.Code != "" {
		dimPaint.Fprintf(w, "  code=%s", ce.Code)
	}
	fmt.Fprintf(w, "\n%s\n", ce.Msg)
	if ce.Err != nil {
		dimPaint.Fprintf(w, "%v\n", ce.Err)
	}
}
