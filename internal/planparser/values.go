package planparser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"alcyxob/trainingsplan/internal/calendar"
)

// Accessors over the decoded tree. JSON yields json.Number and
// map[string]any; YAML yields int, float64, time.Time and map[string]any.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// asString renders scalars as text; maps, slices and nil give "".
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case time.Time:
		return calendar.FormatDate(s)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return calendar.Date(d), nil
	case string:
		return calendar.ParseDate(strings.TrimSpace(d))
	}
	return time.Time{}, fmt.Errorf("unexpected date value %v", v)
}

// asClock accepts HH:MM or HH:MM:SS and normalizes to HH:MM.
func asClock(v any) (string, error) {
	s := strings.TrimSpace(asString(v))
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unexpected start time %q", s)
}
