package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind separates failures where no response arrived from failures the
// server reported.
type ErrorKind string

const (
	KindNetworkFailure ErrorKind = "network_failure"
	KindServerRejected ErrorKind = "server_rejected"
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind ErrorKind

	// Op names the call, e.g. "create expense".
	Op string

	// Status is the HTTP status for KindServerRejected.
	Status int

	// Message is human-readable text suitable for showing to the user.
	Message string

	// Err is the transport error for KindNetworkFailure.
	Err error
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrNetworkFailure = &Error{Kind: KindNetworkFailure}
	ErrServerRejected = &Error{Kind: KindServerRejected}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetworkFailure:
		return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// UserMessage is what a front end should display.
func (e *Error) UserMessage() string {
	if e.Kind == KindNetworkFailure {
		return "Network error. Please try again."
	}
	return e.Message
}

func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetworkFailure, Op: op, Err: err}
}

func rejectedError(op string, status int, body []byte, fallback string) *Error {
	msg := messageFromBody(body)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindServerRejected, Op: op, Status: status, Message: msg}
}

// messageFromBody turns an error body into text. It understands
// {"detail": "..."} and field-keyed maps such as {"name": ["required"]}.
func messageFromBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var list []string
		if err := json.Unmarshal(body, &list); err == nil {
			return strings.Join(list, "\n")
		}
		return ""
	}

	if raw, ok := fields["detail"]; ok {
		if text := flatten(raw); text != "" {
			return text
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		text := flatten(fields[k])
		if text == "" {
			continue
		}
		if k == "non_field_errors" || k == "detail" {
			lines = append(lines, text)
		} else {
			lines = append(lines, k+": "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if text := flatten(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		return messageFromBody(raw)
	}
	return strings.TrimSpace(string(raw))
}
