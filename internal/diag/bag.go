package diag

type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

func NewBag(max uint16) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add appends a diagnostic, honoring the limit.
// Returns false when the diagnostic was not added (limit reached);
// the drop is still counted, see Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped reports how many diagnostics arrived past the limit. A bag
// with drops is an incomplete record: callers must not derive a verdict
// from its items alone.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) Cap() uint16 {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors returns true if at least one diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns a read-only slice of the buffered diagnostics.
// Do not modify the returned slice; it aliases the Bag's storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
