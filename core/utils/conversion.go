package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat converts a cell value to float64.
// Strings may carry a currency symbol, thousands separators and surrounding spaces
// ("$1,250.50"); anything unparsable yields an error.
func ToFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		return parseNumber(v)
	case []byte:
		return parseNumber(string(v))
	case nil:
		return 0, fmt.Errorf("empty value")
	default:
		return parseNumber(fmt.Sprintf("%v", v))
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// ToString converts various types to string. Nil converts to the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToTrimmedString converts a value to string and trims surrounding whitespace.
func ToTrimmedString(val any) string {
	return strings.TrimSpace(ToString(val))
}
