package expect

import (
	"errors"
	"math/rand"
	"testing"

	"verdict/internal/diag"
)

func setOf(messages ...string) *Set {
	s := &Set{messages: make([]string, len(messages))}
	copy(s.messages, messages)
	return s
}

func TestMatchAndRemove_RemovesOneOccurrence(t *testing.T) {
	set := setOf("dup", "dup", "other")
	if err := set.MatchAndRemove("dup"); err != nil {
		t.Fatalf("first dup: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", set.Len())
	}
	if err := set.MatchAndRemove("dup"); err != nil {
		t.Fatalf("second dup: %v", err)
	}
	if err := set.MatchAndRemove("dup"); err == nil {
		t.Fatalf("third dup must be unexpected")
	}
}

func TestMatchAndRemove_Unexpected(t *testing.T) {
	set := setOf("expected one", "expected two")
	err := set.MatchAndRemove("surprise")
	var unexpected *UnexpectedError
	if !errors.As(err, &unexpected) {
		t.Fatalf("want UnexpectedError, got %v", err)
	}
	if unexpected.Message != "surprise" {
		t.Fatalf("offending message = %q", unexpected.Message)
	}
	if len(unexpected.Remaining) != 2 {
		t.Fatalf("remaining bag = %v", unexpected.Remaining)
	}
	if got := err.Error(); got != "unexpected diagnostic: surprise; still expected: [expected one, expected two]" {
		t.Fatalf("error text = %q", got)
	}
	// The failed match must not consume anything.
	if set.Len() != 2 {
		t.Fatalf("bag mutated by failed match: %v", set.Remaining())
	}
}

func TestAssertExhausted_Missing(t *testing.T) {
	set := setOf("use of moved value")
	err := set.AssertExhausted()
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingError, got %v", err)
	}
	if got := err.Error(); got != "missing expected diagnostics: [use of moved value]" {
		t.Fatalf("error text = %q", got)
	}
}

func TestCheck_PrimaryThenChildren(t *testing.T) {
	set := setOf("primary", "child a", "child b")
	diags := []diag.Diagnostic{{
		Severity: diag.SevError,
		Message:  "primary",
		Notes: []diag.Note{
			{Severity: diag.SevInfo, Msg: "child a"},
			{Severity: diag.SevInfo, Msg: "child b"},
		},
	}}
	if err := set.Check(diags); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheck_LeftoverFailsCase(t *testing.T) {
	set := setOf("one", "two")
	err := set.Check([]diag.Diagnostic{{Severity: diag.SevError, Message: "one"}})
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingError, got %v", err)
	}
	if len(missing.Remaining) != 1 || missing.Remaining[0] != "two" {
		t.Fatalf("remaining = %v", missing.Remaining)
	}
}

func TestCheck_NoExpectationsNoDiagnostics(t *testing.T) {
	set := setOf()
	if err := set.Check(nil); err != nil {
		t.Fatalf("empty bag and zero diagnostics must pass: %v", err)
	}
}

// Permuting the order in which a fixed multiset of diagnostics is
// matched must not change the verdict.
func TestCheck_VerdictIsOrderIndependent(t *testing.T) {
	produced := []diag.Diagnostic{
		{Severity: diag.SevError, Message: "alpha"},
		{Severity: diag.SevError, Message: "beta"},
		{Severity: diag.SevError, Message: "alpha"},
		{Severity: diag.SevWarning, Message: "gamma"},
	}
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]diag.Diagnostic, len(produced))
		copy(shuffled, produced)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		match := setOf("alpha", "alpha", "beta", "gamma")
		if err := match.Check(shuffled); err != nil {
			t.Fatalf("trial %d: matching bag must pass in any order: %v", trial, err)
		}

		mismatch := setOf("alpha", "beta", "gamma")
		if err := mismatch.Check(shuffled); err == nil {
			t.Fatalf("trial %d: short bag must fail in any order", trial)
		}
	}
}
