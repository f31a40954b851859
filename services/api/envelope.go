package apisvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

// The platform answers with one of two envelopes:
//
//	{"data": ...}
//	{"succes": true|false, "data": ..., "message": "..."}
//
// Some endpoints also answer with a bare array or a bare object. A list
// answer whose data is missing, null or falsy is an empty list.
// decodeEnvelope is the only place that knows about these shapes.
func decodeEnvelope(status int, body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if out == nil || len(body) == 0 {
		if len(body) == 0 {
			clearTarget(out)
		}
		return checkSucces(status, body)
	}
	if body[0] != '{' {
		if err := json.Unmarshal(body, out); err != nil {
			return &core.APIError{Status: status, Err: errors.Wrap(err, "decoding response")}
		}
		return nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return &core.APIError{Status: status, Err: errors.Wrap(err, "decoding response envelope")}
	}
	if err := succesError(status, env); err != nil {
		return err
	}

	list := isListTarget(out)
	data, hasData := env["data"]
	if !hasData {
		if _, hasSucces := env["succes"]; hasSucces || list {
			clearTarget(out)
			return nil
		}
		// bare object
		data = body
	}
	if isFalsy(data) {
		clearTarget(out)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &core.APIError{Status: status, Err: errors.Wrap(err, "decoding response data")}
	}
	return nil
}

func checkSucces(status int, body []byte) error {
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	return succesError(status, env)
}

// succesError reports `succes: false` envelopes, which some endpoints send with a 2xx status.
func succesError(status int, env map[string]json.RawMessage) error {
	raw, ok := env["succes"]
	if !ok {
		return nil
	}
	var succes bool
	if err := json.Unmarshal(raw, &succes); err != nil || succes {
		return nil
	}
	apiErr := errorFromFields(status, env)
	if apiErr.Message == "" {
		apiErr.Message = "request failed"
	}
	return apiErr
}

// decodeError builds the APIError of a 4xx/5xx response.
func decodeError(status int, body []byte) *core.APIError {
	body = bytes.TrimSpace(body)
	var env map[string]json.RawMessage
	if len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, &env); err == nil {
			apiErr := errorFromFields(status, env)
			if apiErr.Message == "" && len(apiErr.Fields) == 0 {
				apiErr.Message = http.StatusText(status)
			}
			return apiErr
		}
	}
	return &core.APIError{Status: status, Message: http.StatusText(status)}
}

// errorFromFields prefers `message`, then `erreur`, then `error`.
func errorFromFields(status int, env map[string]json.RawMessage) *core.APIError {
	apiErr := &core.APIError{Status: status}
	for _, key := range []string{"message", "erreur", "error"} {
		if msg := stringField(env[key]); msg != "" {
			apiErr.Message = msg
			break
		}
	}
	for _, key := range []string{"errors", "validation_errors"} {
		if flds := fieldsMap(env[key]); len(flds) > 0 {
			apiErr.Fields = flds
			break
		}
	}
	if apiErr.Message == "" && len(apiErr.Fields) > 0 {
		// surface the first field message, like a toast would
		if flds := apiErr.FieldMessages(); len(flds) > 0 {
			apiErr.Message = flds[0].Error
		}
	}
	return apiErr
}

func stringField(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return core.CleanString(s)
}

// fieldsMap accepts {"field": ["msg", ...]} and {"field": "msg"}, mixed in the same map.
func fieldsMap(raw json.RawMessage) map[string][]string {
	if isNull(raw) {
		return nil
	}
	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err != nil {
		return nil
	}
	flds := make(map[string][]string, len(byField))
	for name, val := range byField {
		var many []string
		if err := json.Unmarshal(val, &many); err == nil {
			if len(many) > 0 {
				flds[name] = many
			}
			continue
		}
		if one := stringField(val); one != "" {
			flds[name] = []string{one}
		}
	}
	return flds
}

// isFalsy reports null, false, "" and 0, which list endpoints send for "nothing".
func isFalsy(raw json.RawMessage) bool {
	if isNull(raw) {
		return true
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	}
	return false
}

// isListTarget reports whether out points to a slice.
func isListTarget(out interface{}) bool {
	v := reflect.ValueOf(out)
	return v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Slice
}

// clearTarget resets the slice out points to, so a list answer without data reads as empty.
func clearTarget(out interface{}) {
	if isListTarget(out) {
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))
	}
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
