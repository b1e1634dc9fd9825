// internal/rules/operators.go
package rules

import "strings"

/*
 * Operator comparison logic.
 *
 * Implements the eight audience-rule operators with type-aware
 * comparison. Numeric comparison handles float64/int/int64 mixing so
 * values decoded from JSON compare cleanly against model fields. Order
 * operators fall back to lexical comparison when both sides are
 * strings, mirroring how the fields map directly for location.city.
 *
 * Function-based rather than interface-based: eight operators through a
 * switch is simpler than eight implementations with minimal variation.
 */

// Operator is an audience-rule comparison operator.
type Operator string

const (
	OpGt    Operator = ">"
	OpLt    Operator = "<"
	OpGte   Operator = ">="
	OpLte   Operator = "<="
	OpEq    Operator = "="
	OpNeq   Operator = "!="
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// knownOperator reports whether op is part of the operator domain.
func knownOperator(op Operator) bool {
	switch op {
	case OpGt, OpLt, OpGte, OpLte, OpEq, OpNeq, OpIn, OpNotIn:
		return true
	default:
		return false
	}
}

// Compare applies op to a field value and a rule target. Both sides are
// expected to be scalars except for in/not_in, where target is []any.
func Compare(op Operator, value, target any) bool {
	switch op {
	case OpEq:
		return compareEqual(value, target)
	case OpNeq:
		return !compareEqual(value, target)
	case OpGt:
		cmp, ok := compareOrdered(value, target)
		return ok && cmp > 0
	case OpGte:
		cmp, ok := compareOrdered(value, target)
		return ok && cmp >= 0
	case OpLt:
		cmp, ok := compareOrdered(value, target)
		return ok && cmp < 0
	case OpLte:
		cmp, ok := compareOrdered(value, target)
		return ok && cmp <= 0
	case OpIn:
		return compareIn(value, target)
	case OpNotIn:
		return !compareIn(value, target)
	default:
		return false
	}
}

// compareEqual performs equality with numeric type coercion.
func compareEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return a == b
}

// compareOrdered performs three-way comparison. Numeric when both sides
// coerce to numbers, lexical when both are strings, otherwise not
// comparable and the condition evaluates to false.
func compareOrdered(a, b any) (int, bool) {
	if na, nb, ok := asNumbers(a, b); ok {
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, ok1 := a.(string)
	sb, ok2 := b.(string)
	if ok1 && ok2 {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// compareIn checks membership using equality semantics. Set must be
// []any; the compiler coerces scalar in/not_in values beforehand.
func compareIn(value, set any) bool {
	arr, ok := set.([]any)
	if !ok {
		return false
	}
	for _, elem := range arr {
		if compareEqual(value, elem) {
			return true
		}
	}
	return false
}

// asNumbers attempts to convert both values to float64.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts JSON-decoded and native numeric types.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toArray coerces a rule value for in/not_in: arrays pass through,
// scalars become one-element arrays.
func toArray(v any) []any {
	switch arr := v.(type) {
	case []any:
		return arr
	case []string:
		out := make([]any, len(arr))
		for i, s := range arr {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}
