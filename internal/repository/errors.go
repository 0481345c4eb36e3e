package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned when the API answers with a status outside the
// operation's expected set.
type StatusError struct {
	Op         string
	StatusCode int
	Title      string
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	if e.Title != "" {
		return msg + ": " + e.Title
	}
	return msg
}

// StatusCode extracts the HTTP status carried by err, or 0 when err did not
// come from an answered request.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// newStatusError reads hydra and problem+json error bodies.
func newStatusError(op string, status int, body []byte) *StatusError {
	se := &StatusError{Op: op, StatusCode: status}
	var payload struct {
		HydraTitle       string `json:"hydra:title"`
		HydraDescription string `json:"hydra:description"`
		Title            string `json:"title"`
		Detail           string `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return se
	}
	se.Title = strings.TrimSpace(first(payload.HydraTitle, payload.Title))
	se.Detail = strings.TrimSpace(first(payload.HydraDescription, payload.Detail))
	return se
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
