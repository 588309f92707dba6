package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a positive base-10 identifier from a path segment.
func ParseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
