package diag

// Note is a sub-message attached to a primary diagnostic.
type Note struct {
	Severity Severity `json:"severity" msgpack:"severity"`
	Msg      string   `json:"message" msgpack:"message"`
}

// Diagnostic is one record emitted by the analysis front-end.
type Diagnostic struct {
	Severity Severity `json:"severity" msgpack:"severity"`
	Message  string   `json:"message" msgpack:"message"`
	Notes    []Note   `json:"children,omitempty" msgpack:"children"`
}

// Messages returns the primary message followed by every note message,
// in production order. This is the order the matching protocol consumes.
func (d Diagnostic) Messages() []string {
	out := make([]string, 0, 1+len(d.Notes))
	out = append(out, d.Message)
	for _, n := range d.Notes {
		out = append(out, n.Msg)
	}
	return out
}
