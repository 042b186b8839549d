package diag

// Sink intercepts diagnostics before the front-end's default
// presentation. Intercept returns true when the sink consumed the record
// and default presentation must be cancelled; false lets the front-end
// render it as usual.
// Implementations: BagSink (buffers into a Bag), NopSink, SinkFunc.
type Sink interface {
	Intercept(d Diagnostic) bool
}

// BagSink buffers every diagnostic into Bag and cancels presentation.
type BagSink struct{ Bag *Bag }

func (s BagSink) Intercept(d Diagnostic) bool {
	if s.Bag == nil {
		return false
	}
	s.Bag.Add(d)
	return true
}

// NopSink observes nothing and leaves presentation to the front-end.
type NopSink struct{}

func (NopSink) Intercept(Diagnostic) bool { return false }

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic) bool

func (f SinkFunc) Intercept(d Diagnostic) bool { return f(d) }
