package harness

// Status tracks a case through the pool.
type Status uint8

const (
	StatusQueued Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports one case's transition to observers (progress UI).
type Event struct {
	Path   string
	Status Status
}

// EventSink receives case transitions. Implementations must be safe for
// concurrent use: workers emit directly.
type EventSink interface {
	OnEvent(evt Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
