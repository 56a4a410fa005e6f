package validator

import (
	"math"
	"math/big"
	"strconv"

	"github.com/erraggy/oasconform/parser"
)

// jsonNumber matches json.Number from encoding/json and goccy/go-json.
type jsonNumber interface {
	Float64() (float64, error)
	String() string
}

// typeOf returns the JSON type category of v. Integral numbers report
// "integer"; every other number reports "number".
func typeOf(v any) string {
	switch val := v.(type) {
	case nil:
		return parser.TypeNull
	case bool:
		return parser.TypeBoolean
	case string:
		return parser.TypeString
	case []any:
		return parser.TypeArray
	case map[string]any:
		return parser.TypeObject
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return parser.TypeInteger
	case float32, float64, jsonNumber:
		f, ok := toNumber(val)
		if ok && isIntegral(f) {
			return parser.TypeInteger
		}
		return parser.TypeNumber
	}
	return "unknown"
}

// typeAllows reports whether the value category actual satisfies the schema
// type t. An integer satisfies "number".
func typeAllows(t, actual string) bool {
	return t == actual || (t == parser.TypeNumber && actual == parser.TypeInteger)
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// toNumber converts any numeric value of the value model to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case jsonNumber:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// toInteger returns v as an exact integer when it is a Go integer or an
// integer literal such as json.Number("9007199254740993").
func toInteger(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return big.NewInt(int64(n)), true
	case uint16:
		return big.NewInt(int64(n)), true
	case uint32:
		return big.NewInt(int64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case jsonNumber:
		return new(big.Int).SetString(n.String(), 10)
	}
	return nil, false
}

// equalValues is structural equality over the JSON value model. Numbers
// compare by value, so 1 equals 1.0. Two integers compare exactly, beyond
// the 2^53 range float64 can represent.
func equalValues(a, b any) bool {
	if ai, ok := toInteger(a); ok {
		if bi, ok := toInteger(b); ok {
			return ai.Cmp(bi) == 0
		}
	}
	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !equalValues(x, y) {
				return false
			}
		}
		return true
	}
	return false
}

// describe renders a short form of v for error messages.
func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if len(val) > 64 {
			val = val[:61] + "..."
		}
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		return "array of " + strconv.Itoa(len(val)) + " items"
	case map[string]any:
		return "object with " + strconv.Itoa(len(val)) + " properties"
	}
	if f, ok := toNumber(v); ok {
		return formatNumber(f)
	}
	return "unknown value"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
