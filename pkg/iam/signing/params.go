package signing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	FieldNonce = "nonce"
	FieldTime  = "time"
	FieldSign  = "sign"
)

// Params is a flat set of request parameters. Values are scalars as decoded
// by DecodeParams (string, json.Number, bool, nil); anything else is
// JSON-encoded when canonicalized.
type Params map[string]any

// DecodeParams decodes a JSON object, keeping numbers exactly as sent.
func DecodeParams(body []byte) (Params, error) {
	p := Params{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	return maps.Clone(p)
}

// String returns the canonical string form of key, or "" if absent.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	return stringify(v)
}

// TimeMillis returns the epoch-millisecond time field.
func (p Params) TimeMillis() (int64, bool) {
	raw := strings.TrimSpace(p.String(FieldTime))
	if raw == "" {
		return 0, false
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

// canonical concatenates key+value for every key in lexicographic order.
func (p Params) canonical() string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(p)) {
		b.WriteString(k)
		b.WriteString(stringify(p[k]))
	}
	return b.String()
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
