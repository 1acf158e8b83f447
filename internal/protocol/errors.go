package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedSection = errors.New("protocol: malformed section")
	ErrEmptyInput       = errors.New("protocol: empty input")
	ErrIO               = errors.New("protocol: stream unreadable")
	ErrNilRecord        = errors.New("protocol: nil record")
)

// SectionError reports an unbalanced or illegally nested marker.
// It matches ErrMalformedSection under errors.Is.
type SectionError struct {
	// Open is the innermost section open when the error was found, or "" at top level.
	Open    string
	Line    string
	LineNum int
	Reason  string
}

func (e *SectionError) Error() string {
	open := e.Open
	if open == "" {
		open = "<root>"
	}
	if e.LineNum == 0 {
		return fmt.Sprintf("protocol: malformed section: open=%s: %s", open, e.Reason)
	}
	return fmt.Sprintf("protocol: malformed section: line %d %q open=%s: %s", e.LineNum, e.Line, open, e.Reason)
}

func (e *SectionError) Unwrap() error {
	return ErrMalformedSection
}
