package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// flexString decodes a JSON string, number or boolean into its textual form.
// Platforms disagree on whether ids, amounts and dates are quoted.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case '{', '[':
		*f = ""
	default:
		*f = flexString(b)
	}
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// decodeObject unmarshals raw into v, requiring a JSON object.
func decodeObject(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrInvalidPayload
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return ErrInvalidPayload
	}
	return nil
}

// parseAmount parses a decimal amount in major units.
// A lone comma is treated as the decimal separator ("97,50").
func parseAmount(s flexString) (decimal.Decimal, error) {
	v := strings.TrimSpace(string(s))
	if strings.Contains(v, ",") && !strings.Contains(v, ".") {
		v = strings.Replace(v, ",", ".", 1)
	}
	return decimal.NewFromString(v)
}

// parseMinorUnits parses an integer amount in cents and converts it to major units.
func parseMinorUnits(s flexString) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(s)))
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Shift(-2), nil
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e12

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// parseTimestamp parses ISO-8601 style strings and epoch seconds or milliseconds.
// Zone-less values are taken as UTC.
func parseTimestamp(s flexString) (time.Time, bool) {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		if n >= epochMillisThreshold {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// firstTimestamp returns the first candidate that parses, else fallback.
func firstTimestamp(fallback time.Time, candidates ...flexString) time.Time {
	for _, c := range candidates {
		if t, ok := parseTimestamp(c); ok {
			return t
		}
	}
	return fallback.UTC()
}

// normalizeCurrency upper-cases an ISO code, defaulting when empty.
func normalizeCurrency(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
