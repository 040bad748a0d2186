package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mosaiq/mosaiq/model"
)

// Virtual temporal bucket suffixes. A field name like "orderDate.__quarter"
// resolves the base field as a timestamp and buckets it.
const (
	bucketYear    = "__year"
	bucketHalf    = "__half"
	bucketQuarter = "__quarter"
	bucketMonth   = "__month"
	bucketDay     = "__day"
)

// unknownBucket is the bucket value for timestamps that fail to parse.
const unknownBucket = "Unknown"

// Resolve looks up a named field's value in a row. Lookup order: exact key,
// then case-insensitive trimmed key, then virtual temporal bucket expansion,
// then the non-suffixed base field. The second return is false when nothing
// resolves; Resolve never fails.
func Resolve(row model.Row, fieldName string) (any, bool) {
	if row == nil || fieldName == "" {
		return nil, false
	}

	if v, ok := lookupDirect(row, fieldName); ok {
		return v, ok
	}

	base, suffix, ok := splitBucketField(fieldName)
	if ok {
		raw, found := Resolve(row, base)
		if !found {
			return nil, false
		}
		return bucketValue(raw, suffix), true
	}

	// Unrecognized dotted suffix: fall back to the base field.
	if idx := strings.Index(fieldName, "."); idx > 0 {
		return lookupDirect(row, fieldName[:idx])
	}

	return nil, false
}

// lookupDirect finds a key by exact match, then by case-insensitive trimmed
// match.
func lookupDirect(row model.Row, fieldName string) (any, bool) {
	if v, ok := row[fieldName]; ok {
		return v, true
	}
	want := strings.ToLower(strings.TrimSpace(fieldName))
	for k, v := range row {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return v, true
		}
	}
	return nil, false
}

// splitBucketField splits "base.__quarter" into ("base", "__quarter", true).
func splitBucketField(fieldName string) (base, suffix string, ok bool) {
	idx := strings.LastIndex(fieldName, ".__")
	if idx <= 0 {
		return "", "", false
	}
	base, suffix = fieldName[:idx], fieldName[idx+1:]
	switch suffix {
	case bucketYear, bucketHalf, bucketQuarter, bucketMonth, bucketDay:
		return base, suffix, true
	}
	return "", "", false
}

// bucketValue renders a raw timestamp value as its bucket string.
// Unparseable values bucket to "Unknown".
func bucketValue(raw any, suffix string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return unknownBucket
	}

	switch suffix {
	case bucketYear:
		return fmt.Sprintf("%04d", t.Year())
	case bucketHalf:
		half := 1
		if t.Month() > 6 {
			half = 2
		}
		return fmt.Sprintf("%04d H%d", t.Year(), half)
	case bucketQuarter:
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d Q%d", t.Year(), q)
	case bucketMonth:
		return t.Format("2006-01")
	case bucketDay:
		return t.Format("2006-01-02")
	}
	return unknownBucket
}

// epochSecondsCutoff separates epoch-second from epoch-millisecond values.
const epochSecondsCutoff = 10_000_000_000

// ParseTimestamp interprets a raw value as a point in time. Strings accept
// ISO-like layouts with either "-" or "/" separators; numeric values below
// the cutoff are epoch seconds, otherwise epoch milliseconds.
func ParseTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case string:
		return parseTimestampString(v)
	default:
		if n, ok := numericValue(raw); ok {
			return epochToTime(n), true
		}
	}
	return time.Time{}, false
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-1-2",
	"2006-01",
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return epochToTime(n), true
	}

	normalized := strings.ReplaceAll(s, "/", "-")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func epochToTime(n float64) time.Time {
	if n < epochSecondsCutoff && n > -epochSecondsCutoff {
		return time.Unix(int64(n), 0).UTC()
	}
	return time.UnixMilli(int64(n)).UTC()
}

// numericValue coerces a raw value to float64. Strings are parsed; booleans
// and other non-numeric values do not coerce.
func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
