package testutil

import "testing"

// Given, When, Then, and And name nested subtests so a scenario reads as a
// sentence in test output.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "And", desc, fn)
}

// step skips the remaining siblings once one fails; later steps depend on the
// state earlier ones leave behind.
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if t.Failed() {
		t.Skipf("%s %s: earlier step failed", keyword, desc)
	}
	t.Run(keyword+" "+desc, fn)
}
