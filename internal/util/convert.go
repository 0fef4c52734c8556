// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "math"

// AsInt coerces an untyped JSON value into an int.
//
// encoding/json decodes every JSON number as float64, so integer-valued
// fields arriving from a configuration layer need this narrowing step.
// A float with a fractional part is rejected rather than truncated.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// AsFloat coerces an untyped JSON value into a float64. Integers widen
// losslessly.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsString coerces an untyped JSON value into a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
