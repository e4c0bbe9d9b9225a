package testutil

import "testing"

// Steps run as nested subtests, so a failure is reported under its full
// scenario path ("Given a code was issued/When it is redeemed/Then ...").
// Each step returns whether its subtest passed.

// Given sets up the state the nested steps share.
func Given(t *testing.T, state string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Given", state, fn)
}

// When performs the action under test.
func When(t *testing.T, action string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "When", action, fn)
}

// Then asserts an outcome.
func Then(t *testing.T, outcome string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Then", outcome, fn)
}

// And continues the preceding step with one more clause of the same kind.
func And(t *testing.T, clause string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "And", clause, fn)
}

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+" "+desc, fn)
}
