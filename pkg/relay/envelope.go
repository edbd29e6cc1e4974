package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Envelope is the normalized response shape every call resolves to.
type Envelope struct {
	Success bool            `json:"success"`
	Code    Code            `json:"code"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data,omitempty"`

	// Raw carries byte-stream payloads and bodies returned under the
	// normalization bypass; Data stays empty for those.
	Raw []byte `json:"-"`
}

// Code is a backend status code. Services in the wild emit both JSON numbers
// and strings, so it decodes from either and keeps the original text.
type Code string

const codeOK Code = "200"

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode code: %w", err)
		}
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode code: %w", err)
	}
	*c = Code(n.String())
	return nil
}

func (c Code) MarshalJSON() ([]byte, error) {
	// Only canonical integers go out unquoted; "007" or "+5" would pass
	// Atoi but emit invalid JSON verbatim.
	if n, err := strconv.Atoi(string(c)); err == nil && strconv.Itoa(n) == string(c) {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}

// Int returns the numeric value of the code, or 0 when it is not numeric.
func (c Code) Int() int {
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return 0
	}
	return n
}

func (c Code) String() string { return string(c) }

// DecodeData unmarshals the envelope payload into v.
func (e *Envelope) DecodeData(v any) error {
	if e == nil || len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	return json.Unmarshal(e.Data, v)
}

// looksLikeEnvelope reports whether the body carries the {success, ...} shape.
// The success field must be a JSON boolean; anything else is treated as an
// unshaped payload.
func looksLikeEnvelope(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	res := gjson.GetBytes(trimmed, "success")
	return res.Type == gjson.True || res.Type == gjson.False
}

// parseEnvelope decodes a canonical envelope body.
func parseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// syntheticSuccess wraps a 2xx body that arrived without the envelope shape.
// JSON bodies are kept verbatim; anything else is wrapped as a JSON string.
func syntheticSuccess(body []byte) *Envelope {
	env := &Envelope{Success: true, Code: codeOK, Msg: msgSuccess}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return env
	}
	if json.Valid(trimmed) {
		env.Data = append(json.RawMessage(nil), trimmed...)
		return env
	}
	if enc, err := json.Marshal(string(body)); err == nil {
		env.Data = enc
	}
	return env
}

// rawSuccess wraps a payload handed back without inspection.
func rawSuccess(body []byte) *Envelope {
	return &Envelope{Success: true, Code: codeOK, Msg: msgSuccess, Raw: body}
}
