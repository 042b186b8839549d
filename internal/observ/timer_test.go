package observ

import (
	"strings"
	"testing"
)

func TestTimer_Summary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("discover")
	timer.End(idx, "12 cases")
	idx = timer.Begin("run")
	timer.End(idx, "")

	out := timer.Summary()
	for _, want := range []string{"discover", "12 cases", "run", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTimer_EndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(3, "ignored") // must not panic
	if got := timer.Summary(); !strings.Contains(got, "total") {
		t.Fatalf("summary broken: %q", got)
	}
}
