package vinwiki

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const statusOK = "ok"

// envelope is a decoded {status, ...payload} response object.
type envelope map[string]any

// decodeObject decodes body as a single JSON object. Numbers are kept as
// json.Number so integers are never widened to float64.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after response object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is %s, not an object", jsonType(v))
	}
	return obj, nil
}

// parseEnvelope decodes body and checks its status. A non-ok status is
// reported as KindRemoteStatus with the remote detail attached.
func parseEnvelope(op string, body []byte) (envelope, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, newError(KindInvalidResponse, op, ErrInvalidResponse.Message, err)
	}

	env := envelope(obj)
	if status := env.str("status"); status != statusOK {
		return nil, newError(KindRemoteStatus, op, ErrRemoteStatus.Message, env.statusError())
	}

	return env, nil
}

// statusError extracts whatever the remote said about a failure
func (e envelope) statusError() *StatusError {
	se := &StatusError{Status: e.str("status")}
	for _, key := range []string{"message", "error", "msg"} {
		if msg := e.str(key); msg != "" {
			se.Message = msg
			break
		}
	}
	se.Code = e.str("code")
	return se
}

// str returns the string (or number literal) at key, or "".
func (e envelope) str(key string) string {
	switch v := e[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// payload returns the value at key. An empty key selects the whole object.
func (e envelope) payload(op, key string) (any, error) {
	if key == "" {
		return map[string]any(e), nil
	}
	v, ok := e[key]
	if !ok || v == nil {
		return nil, newError(KindInvalidResponse, op, fmt.Sprintf("missing %q payload", key), nil)
	}
	return v, nil
}

// object returns the payload at key, which must be a JSON object.
func (e envelope) object(op, key string) (map[string]any, error) {
	v, err := e.payload(op, key)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newError(KindInvalidResponse, op,
			fmt.Sprintf("%q payload is %s, not an object", key, jsonType(v)), nil)
	}
	return obj, nil
}

// require checks that every key is present and non-null.
func (e envelope) require(op string, keys ...string) error {
	for _, key := range keys {
		if _, err := e.payload(op, key); err != nil {
			return err
		}
	}
	return nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64, float32, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
