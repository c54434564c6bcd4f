// Package provider holds helpers shared by odds-provider integrations.
package provider

import (
	"encoding/json"
	"math"
)

// Number normalizes a loosely decoded JSON value into a finite float64.
//
// Providers are inconsistent about which numeric fields they send, so raw
// payloads are decoded into `any`. Only real JSON numbers count: strings
// (even numeric-looking ones), booleans, objects, NaN and ±Inf are absent.
//
// Returns ok=false if the value is not usable.
func Number(val any) (float64, bool) {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Integer is Number restricted to integral values, as American prices are.
func Integer(val any) (int, bool) {
	f, ok := Number(val)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
