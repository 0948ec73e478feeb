package object

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// JSON encodes v as compact JSON for display. Instances anywhere inside v
// are written as their <Class id> string, and HTML characters are left
// unescaped.
func JSON(v cty.Value) (string, error) {
	plain, err := cty.Transform(v, func(_ cty.Path, v cty.Value) (cty.Value, error) {
		if inst, ok := FromValue(v); ok {
			return cty.StringVal(inst.String()), nil
		}
		return v, nil
	})
	if err != nil {
		return "", err
	}
	raw, err := ctyjson.SimpleJSONValue{Value: plain}.MarshalJSON()
	if err != nil {
		return "", err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
