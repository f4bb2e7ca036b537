package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingrea/newsroom/internal/news"
)

// Error is the structured failure every Client method returns. Status is the
// HTTP status code, or 0 when no response was received.
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("api: %s: %v", e.Msg, e.Err)
		}
		return "api: " + e.Msg
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Info converts the error to the shape the views render.
func (e *Error) Info() news.ErrorInfo {
	msg := strings.TrimSpace(e.Msg)
	if msg == "" {
		msg = news.FallbackMessage
	}
	return news.ErrorInfo{Status: e.Status, Msg: msg}
}

// AsErrorInfo extracts status and message from any error. Failures that do
// not carry the structured shape become a generic ErrorInfo with the
// fallback message.
func AsErrorInfo(err error) news.ErrorInfo {
	if err == nil {
		return news.ErrorInfo{}
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Info()
	}
	return news.ErrorInfo{Msg: news.FallbackMessage}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type errorBody struct {
	Msg string `json:"msg"`
}

// decodeError builds an Error from a non-2xx response. A body without a
// usable "msg" falls back to the status text.
func decodeError(status int, body []byte) *Error {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Msg) != "" {
		return &Error{Status: status, Msg: strings.TrimSpace(parsed.Msg)}
	}
	msg := http.StatusText(status)
	if msg == "" {
		msg = news.FallbackMessage
	}
	return &Error{Status: status, Msg: msg}
}

// transportError wraps a failure that happened before a response arrived.
func transportError(err error) *Error {
	msg := "network error"
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	} else if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &Error{Msg: msg, Err: err}
}
