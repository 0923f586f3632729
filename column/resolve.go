package column

import (
	"github.com/tidwall/gjson"

	"github.com/nrfta/pagedview/query"
)

// Value is the result of following a data path into a row.
// The zero Value is undefined.
type Value struct {
	res gjson.Result
}

// Resolve follows the dot-separated path into row. When any segment is
// missing, or row is not a JSON document, the returned Value is undefined.
// An empty path is always undefined.
func Resolve(row []byte, path string) Value {
	if path == "" || len(row) == 0 {
		return Value{}
	}
	return Value{res: gjson.GetBytes(row, query.EscapePath(path))}
}

// Defined reports whether the path was present. A JSON null is defined.
func (v Value) Defined() bool {
	return v.res.Exists()
}

// Null reports whether the path held a JSON null.
func (v Value) Null() bool {
	return v.res.Exists() && v.res.Type == gjson.Null
}

// Raw returns the value as a Go value: nil, bool, float64, string,
// []any or map[string]any. Undefined and null both yield nil.
func (v Value) Raw() any {
	if !v.res.Exists() {
		return nil
	}
	return v.res.Value()
}

// JSON returns the raw JSON text of the value, empty when undefined.
func (v Value) JSON() string {
	return v.res.Raw
}

// String returns the display text of the value. Undefined and null values
// render as the empty string, objects and arrays as their JSON text.
func (v Value) String() string {
	switch {
	case !v.res.Exists(), v.res.Type == gjson.Null:
		return ""
	case v.res.Type == gjson.JSON:
		return v.res.Raw
	}
	return v.res.String()
}

// Result exposes the underlying gjson result for sorting and matching.
func (v Value) Result() gjson.Result {
	return v.res
}
