package relay

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCodeDecodesNumbersAndStrings(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"success":true,"code":200,"msg":"ok"}`), &env); err != nil {
		t.Fatalf("unmarshal numeric code: %v", err)
	}
	if env.Code != "200" || env.Code.Int() != 200 {
		t.Fatalf("numeric code decoded as %q", env.Code)
	}

	if err := json.Unmarshal([]byte(`{"success":false,"code":"A-42","msg":"x"}`), &env); err != nil {
		t.Fatalf("unmarshal string code: %v", err)
	}
	if env.Code != "A-42" || env.Code.Int() != 0 {
		t.Fatalf("string code decoded as %q", env.Code)
	}

	if err := json.Unmarshal([]byte(`{"success":false,"code":null}`), &env); err != nil {
		t.Fatalf("unmarshal null code: %v", err)
	}
	if env.Code != "" {
		t.Fatalf("null code decoded as %q", env.Code)
	}
}

func TestCodeMarshalKeepsNumericForm(t *testing.T) {
	b, err := json.Marshal(Envelope{Success: true, Code: "200", Msg: "ok"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"code":200`) {
		t.Fatalf("numeric code should marshal unquoted, got %s", b)
	}

	b, err = json.Marshal(Envelope{Success: false, Code: "A-42", Msg: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"code":"A-42"`) {
		t.Fatalf("non-numeric code should marshal quoted, got %s", b)
	}

	// Codes that parse as integers but are not canonical integer text would
	// be invalid JSON unquoted.
	for _, code := range []Code{"007", "+5"} {
		b, err = json.Marshal(Envelope{Success: true, Code: code, Msg: "ok"})
		if err != nil {
			t.Fatalf("marshal code %q: %v", code, err)
		}
		if !json.Valid(b) {
			t.Fatalf("marshal of code %q produced invalid JSON: %s", code, b)
		}
		if !strings.Contains(string(b), `"code":"`+string(code)+`"`) {
			t.Fatalf("code %q should marshal quoted, got %s", code, b)
		}
	}
}

func TestLooksLikeEnvelope(t *testing.T) {
	positives := []string{
		`{"success":true}`,
		`{"success":false,"msg":"x"}`,
		"\n\t {\"success\":true,\"data\":[1]}",
	}
	for _, body := range positives {
		if !looksLikeEnvelope([]byte(body)) {
			t.Fatalf("expected envelope shape: %s", body)
		}
	}

	negatives := []string{
		``,
		`null`,
		`[1,2,3]`,
		`"success"`,
		`{"ok":true}`,
		`{"success":"yes"}`,
		`{"success":1}`,
	}
	for _, body := range negatives {
		if looksLikeEnvelope([]byte(body)) {
			t.Fatalf("should not be envelope shape: %s", body)
		}
	}
}

func TestSyntheticSuccessWrapsBodies(t *testing.T) {
	env := syntheticSuccess([]byte(`{"a":1}`))
	if !env.Success || env.Code != "200" || env.Msg != msgSuccess {
		t.Fatalf("unexpected synthetic envelope %+v", env)
	}
	if string(env.Data) != `{"a":1}` {
		t.Fatalf("JSON body should be kept verbatim, got %s", env.Data)
	}

	env = syntheticSuccess([]byte("pong"))
	var s string
	if err := json.Unmarshal(env.Data, &s); err != nil || s != "pong" {
		t.Fatalf("text body should wrap as JSON string, got %s (err %v)", env.Data, err)
	}

	env = syntheticSuccess(nil)
	if len(env.Data) != 0 {
		t.Fatalf("empty body should carry no data, got %s", env.Data)
	}
}

func TestDecodeDataRequiresPayload(t *testing.T) {
	env := &Envelope{Success: true}
	var v map[string]any
	if err := env.DecodeData(&v); err == nil {
		t.Fatalf("expected error for empty data")
	}

	env.Data = json.RawMessage(`{"id":7}`)
	if err := env.DecodeData(&v); err != nil {
		t.Fatalf("DecodeData: %v", err)
	}
	if v["id"].(float64) != 7 {
		t.Fatalf("unexpected payload %#v", v)
	}
}
