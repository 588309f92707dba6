package utils

import "time"

// ISOLayout is the textual form every timestamp leaves the API in: UTC, millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseDateParam accepts a full RFC 3339 timestamp or a plain YYYY-MM-DD date.
func ParseDateParam(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return t.UTC(), nil
	}

	d, derr := time.Parse(time.DateOnly, raw)
	if derr != nil {
		return time.Time{}, err
	}

	return d.UTC(), nil
}
