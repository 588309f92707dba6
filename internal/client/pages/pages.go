// Package pages holds the state of each dashboard page. A page is driven by one
// goroutine at a time; none of the types here are safe for concurrent use.
package pages

import (
	"errors"
	"strings"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client"
)

// FallbackMessage is shown when the server did not explain a failure.
const FallbackMessage = "Something went wrong"

// Notifier shows toasts to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// errorMessage prefers the server's envelope message.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return FallbackMessage
}

func successMessage(serverMsg, fallback string) string {
	if serverMsg != "" {
		return serverMsg
	}
	return fallback
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// inRange checks an ISO timestamp against optional bounds. Unparseable timestamps never match a bounded range.
func inRange(iso string, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}

	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
