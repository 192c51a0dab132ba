package parser

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// object is a decoded JSON object. Numbers are kept as json.Number so that
// integer fields are not routed through float64.
type object map[string]any

func decodeObject(raw []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	m, ok := root.(map[string]any)
	if !ok {
		return nil, errNotObj
	}
	return object(m), nil
}

// array returns the array stored under key.
func (o object) array(key string) ([]any, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, errMissing
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, errNotArray
	}
	return arr, nil
}

// optObject returns the object stored under key, or nil.
func (o object) optObject(key string) object {
	if m, ok := o[key].(map[string]any); ok {
		return object(m)
	}
	return nil
}

// optArray returns the array stored under key, or nil.
func (o object) optArray(key string) []any {
	arr, _ := o[key].([]any)
	return arr
}

// has reports whether key is present with a non-null value.
func (o object) has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// optString returns the value under key as text. Numbers and booleans are
// formatted, anything else yields "".
func (o object) optString(key string) string {
	return stringValue(o[key])
}

// optInt returns the value under key as an int. Fractions are truncated,
// numeric strings are parsed, anything else yields 0.
func (o object) optInt(key string) int {
	switch v := o[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return truncate(f)
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return truncate(f)
		}
	}
	return 0
}

// optFloat returns the value under key as a float64, or fallback. NaN and
// infinities read as fallback.
func (o object) optFloat(key string, fallback float64) float64 {
	switch v := o[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil && finite(f) {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && finite(f) {
			return f
		}
	}
	return fallback
}

// nestedString reads parent[objectKey][itemKey] as text, "" if absent.
func (o object) nestedString(objectKey, itemKey string) string {
	if child := o.optObject(objectKey); child != nil {
		return child.optString(itemKey)
	}
	return ""
}

// nestedInt reads parent[objectKey][itemKey] as an int, 0 if absent.
func (o object) nestedInt(objectKey, itemKey string) int {
	if child := o.optObject(objectKey); child != nil {
		return child.optInt(itemKey)
	}
	return 0
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func truncate(f float64) int {
	if !finite(f) {
		return 0
	}
	return int(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
