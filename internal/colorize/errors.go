package colorize

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoGraph is returned when there is no graph to color
	ErrNoGraph = errors.New("no project/graph available")
	// ErrNoColorColumn is returned when no column name contains the keyword
	ErrNoColorColumn = errors.New("no color-like attribute column found")
	// ErrMalformedColor matches every *MalformedColorError
	ErrMalformedColor = errors.New("malformed color value")
	// ErrMissingValue matches a *MalformedColorError for a node without a value
	ErrMissingValue = errors.New("missing attribute value")
)

// Reason classifies why a node's value could not be applied
type Reason string

const (
	ReasonMissingValue       Reason = "missing_value"
	ReasonNotAString         Reason = "not_a_string"
	ReasonUnrecognizedFormat Reason = "unrecognized_format"
	ReasonFieldCount         Reason = "field_count"
	ReasonNotNumeric         Reason = "not_numeric"
	ReasonOutOfRange         Reason = "out_of_range"
	ReasonInvalidHex         Reason = "invalid_hex"
	ReasonWriteFailed        Reason = "write_failed"
)

func (r Reason) describe() string {
	switch r {
	case ReasonMissingValue:
		return "no value"
	case ReasonNotAString:
		return "value is not text"
	case ReasonUnrecognizedFormat:
		return "no rgb or hex color format detected"
	case ReasonFieldCount:
		return "wrong number of rgb fields"
	case ReasonNotNumeric:
		return "non-numeric rgb field"
	case ReasonOutOfRange:
		return "rgb field out of range"
	case ReasonInvalidHex:
		return "invalid hex color"
	case ReasonWriteFailed:
		return "could not write color"
	default:
		return string(r)
	}
}

// MalformedColorError describes one node whose color could not be applied
type MalformedColorError struct {
	NodeID string `json:"node_id,omitempty"`
	Column string `json:"column,omitempty"` // Column display name
	Raw    string `json:"raw_value"`
	Reason Reason `json:"reason"`
	Err    error  `json:"-"`
}

func malformed(raw string, reason Reason, err error) *MalformedColorError {
	return &MalformedColorError{Raw: raw, Reason: reason, Err: err}
}

func (e *MalformedColorError) Error() string {
	msg := e.Reason.describe()
	if e.Column != "" {
		msg += " in " + e.Column
	}
	if e.Reason != ReasonMissingValue {
		msg += fmt.Sprintf(": %q", e.Raw)
	}
	if e.NodeID != "" {
		msg = fmt.Sprintf("node %s: %s", e.NodeID, msg)
	}
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *MalformedColorError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedColor, and ErrMissingValue for absent values
func (e *MalformedColorError) Is(target error) bool {
	switch target {
	case ErrMalformedColor:
		return true
	case ErrMissingValue:
		return e.Reason == ReasonMissingValue
	}
	return false
}

// MarshalJSON adds the rendered message next to the structured fields
func (e *MalformedColorError) MarshalJSON() ([]byte, error) {
	type plain MalformedColorError
	return json.Marshal(struct {
		*plain
		Message string `json:"message"`
	}{
		plain:   (*plain)(e),
		Message: e.Error(),
	})
}
