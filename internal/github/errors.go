package github

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "ghexplorer/internal/errors"

	json "github.com/goccy/go-json"
)

// classify turns a non-2xx response into a fetch error. Rate limiting shows up
// as 429, or as 403 with an exhausted quota header or a rate limit message.
func classify(status int, header http.Header, body []byte) *apperrors.Error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = fmt.Sprintf("GitHub API error: %d", status)
	}

	switch {
	case status == http.StatusNotFound:
		return apperrors.New(apperrors.CodeFetchNotFound, msg)
	case isRateLimited(status, header, msg):
		e := apperrors.New(apperrors.CodeFetchRateLimited, msg)
		if reset, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			e = e.WithMetadata("resetAt", time.Unix(reset, 0).UTC().Format(time.RFC3339))
		}
		if after := header.Get("Retry-After"); after != "" {
			e = e.WithMetadata("retryAfter", after)
		}
		return e
	}
	return apperrors.New(apperrors.CodeFetchUnknown, msg).WithMetadata("status", strconv.Itoa(status))
}

func isRateLimited(status int, header http.Header, msg string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status != http.StatusForbidden {
		return false
	}
	return header.Get("X-RateLimit-Remaining") == "0" || strings.Contains(strings.ToLower(msg), "rate limit")
}
