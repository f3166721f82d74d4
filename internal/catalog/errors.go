package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports structural problems with a catalog document.
// It aggregates every violation found so a single correction pass can fix
// the document. Returned for document-shape problems that abort the whole
// import before any mutation; also used as the cause inside a channel
// failure when only that channel's entry is malformed.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "invalid catalog document"
	case 1:
		return "invalid catalog document: " + e.Violations[0]
	default:
		return fmt.Sprintf("invalid catalog document (%d violations):\n  - %s",
			len(e.Violations), strings.Join(e.Violations, "\n  - "))
	}
}

// DurationFormatError reports a runtime literal that is not a valid
// limited-form ISO-8601 duration.
type DurationFormatError struct {
	Literal string
	Reason  string
}

func (e *DurationFormatError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Literal, e.Reason)
}

// ChannelFailure records why one channel entry could not be imported.
// Number is the channel's number when the document supplied one, otherwise
// a positional placeholder such as "channels[2]".
type ChannelFailure struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
	Err    error  `json:"-"`
}

// Reason returns the failure cause as text for reports and JSON responses
func (f ChannelFailure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// ImportError aggregates the per-channel failures of one import run.
// The run's successes are reported separately on the Report; an ImportError
// only means at least one channel did not make it.
type ImportError struct {
	Failures []ChannelFailure
}

func (e *ImportError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("import failed for channel %s: %v", f.Number, f.Err)
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("channel %s: %v", f.Number, f.Err)
	}
	return fmt.Sprintf("import failed for %d channels:\n  %s", len(e.Failures), strings.Join(parts, "\n  "))
}

// IsValidation checks if the error is a document validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDurationFormat checks if the error is a duration format error
func IsDurationFormat(err error) bool {
	var de *DurationFormatError
	return errors.As(err, &de)
}

// IsImport checks if the error is an aggregated import error
func IsImport(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}
