package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFlexibleTimestamp normalizes the timestamp shapes found in stored documents: native
// times, date strings, {seconds, nanoseconds} objects and unix milliseconds.
func ParseFlexibleTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, ErrEmptyTimestamp
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrEmptyTimestamp
		}
		return v.UTC(), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrEmptyTimestamp
		}
		return ParseFlexibleTimestamp(*v)
	case string:
		return parseTimestampString(v)
	case map[string]any:
		return parseTimestampObject(v)
	}

	if ms, ok := toFloat(value); ok {
		return fromUnixMillis(ms)
	}

	return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedTimestamp, value)
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return fromUnixMillis(ms)
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

func parseTimestampObject(obj map[string]any) (time.Time, error) {
	secVal, ok := obj["seconds"]
	if !ok {
		secVal, ok = obj["_seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: object without seconds", ErrMalformedTimestamp)
	}
	sec, ok := toFloat(secVal)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: seconds is %T", ErrMalformedTimestamp, secVal)
	}

	var nsec float64
	nsecVal, ok := obj["nanoseconds"]
	if !ok {
		nsecVal, ok = obj["_nanoseconds"]
	}
	if ok {
		if nsec, ok = toFloat(nsecVal); !ok {
			return time.Time{}, fmt.Errorf("%w: nanoseconds is %T", ErrMalformedTimestamp, nsecVal)
		}
	}

	return time.Unix(int64(sec), int64(nsec)).UTC(), nil
}

func fromUnixMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
