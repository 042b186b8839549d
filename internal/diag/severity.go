package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// MarshalText renders the severity in the wire form used by the
// front-end's diagnostic stream.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the wire form emitted by the front-end.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info", "note", "help":
		*s = SevInfo
	case "warning":
		*s = SevWarning
	case "error", "fatal":
		*s = SevError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}
