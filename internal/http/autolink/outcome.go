package autolink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const defaultRejectionMessage = "Failed to process the URL"

// ErrUnreadableResponse is matched (via errors.Is) by every error caused by
// an upstream response which could not be obtained or parsed.
var ErrUnreadableResponse = errors.New("unreadable autolink response")

type (
	OutcomeKind int

	// Outcome is the result of a successful exchange with the upstream. Exactly
	// one of Payload (OutcomeResolved) or Message (OutcomeRejected) is meaningful.
	Outcome struct {
		Kind    OutcomeKind
		Payload map[string]any
		Message string
	}

	// RejectedError is the error form of an OutcomeRejected; its message
	// is the one supplied by the upstream and is safe to show to clients.
	RejectedError struct{ Message string }

	UnreadableResponseError struct{ reason string }
)

const (
	OutcomeResolved OutcomeKind = iota
	OutcomeRejected
)

func (kind OutcomeKind) String() string {
	switch kind {
	case OutcomeResolved:
		return "RESOLVED"
	case OutcomeRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Err returns a RejectedError if the upstream rejected the request,
// or nil if it was resolved.
func (outcome *Outcome) Err() error {
	if outcome.Kind == OutcomeRejected {
		return &RejectedError{Message: outcome.Message}
	}

	return nil
}

func (err *RejectedError) Error() string {
	return fmt.Sprintf("autolink rejected request: %s", err.Message)
}

func (err *UnreadableResponseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnreadableResponse, err.reason)
}

func (err *UnreadableResponseError) Is(target error) bool {
	return target == ErrUnreadableResponse
}

// parseOutcome decodes an upstream response body. The body must be a single
// JSON object; a truthy 'error' field marks the request as rejected.
func parseOutcome(body []byte) (*Outcome, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, &UnreadableResponseError{reason: fmt.Sprintf("response JSON could not be unmarshalled: %s", err)}
	}
	if payload == nil {
		return nil, &UnreadableResponseError{reason: "response JSON is null"}
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, &UnreadableResponseError{reason: "response contains trailing data after JSON object"}
	}

	if isTruthy(payload["error"]) {
		return &Outcome{Kind: OutcomeRejected, Message: rejectionMessage(payload)}, nil
	}

	return &Outcome{Kind: OutcomeResolved, Payload: payload}, nil
}

func rejectionMessage(payload map[string]any) string {
	switch message := payload["message"].(type) {
	case nil:
		return defaultRejectionMessage
	case string:
		return message
	default:
		return fmt.Sprint(message)
	}
}

// isTruthy reports whether a decoded JSON value should be treated as 'true':
// false, null, zero, empty strings and empty collections are not.
func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
