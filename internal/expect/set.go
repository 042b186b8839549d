package expect

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"verdict/internal/diag"
)

// Set is the ordered bag of expected messages for one fragment.
// Matching removes one occurrence at a time; duplicates are legal and
// each must be matched separately. A Set belongs to a single case and
// is never shared between goroutines.
type Set struct {
	messages []string
}

// Load parses the fragment at path with the default marker.
func Load(path string) (*Set, error) {
	return LoadWithMarker(path, DefaultMarker)
}

// LoadWithMarker parses the fragment at path for marker annotations and
// returns the expectations in file order.
func LoadWithMarker(path, marker string) (*Set, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	messages, err := scanMessages(path, marker)
	if err != nil {
		return nil, err
	}
	return &Set{messages: messages}, nil
}

// UnexpectedError reports a diagnostic that matched no remaining
// expectation.
type UnexpectedError struct {
	Message   string
	Remaining []string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected diagnostic: %s; still expected: [%s]",
		e.Message, strings.Join(e.Remaining, ", "))
}

// MissingError reports expectations left over after every produced
// diagnostic was consumed.
type MissingError struct {
	Remaining []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing expected diagnostics: [%s]", strings.Join(e.Remaining, ", "))
}

func (s *Set) Len() int { return len(s.messages) }

// Remaining returns a copy of the unconsumed expected messages.
func (s *Set) Remaining() []string {
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// MatchAndRemove removes one occurrence of msg from the bag. When msg
// is not present it returns an UnexpectedError carrying the offending
// message and the still-unconsumed bag.
func (s *Set) MatchAndRemove(msg string) error {
	msg = norm.NFC.String(msg)
	for i, expected := range s.messages {
		if expected == msg {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return &UnexpectedError{Message: msg, Remaining: s.Remaining()}
}

// AssertExhausted fails with a MissingError when expectations remain.
func (s *Set) AssertExhausted() error {
	if len(s.messages) > 0 {
		return &MissingError{Remaining: s.Remaining()}
	}
	return nil
}

// Check runs the matching protocol over the buffered diagnostics of one
// case: for each top-level diagnostic the primary message is removed
// first, then each child note, in production order. Any unmatched or
// leftover message fails the whole case.
func (s *Set) Check(diags []diag.Diagnostic) error {
	for _, d := range diags {
		for _, msg := range d.Messages() {
			if err := s.MatchAndRemove(msg); err != nil {
				return err
			}
		}
	}
	return s.AssertExhausted()
}
