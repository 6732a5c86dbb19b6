package rxtest

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestingT is the subset of testing.TB used by the assertion helpers.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertMessages reports an error, via t, if got differs from want. Errors
// are compared using errors.Is (in either direction).
func AssertMessages[T any](t TestingT, got []Recorded[T], want ...Recorded[T]) bool {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateErrors(), cmpopts.EquateEmpty()); diff != `` {
		t.Errorf("unexpected messages (-want +got):\n%s", diff)
		return false
	}
	return true
}

// AssertSubscriptions reports an error, via t, if got differs from want.
func AssertSubscriptions(t TestingT, got []Subscription, want ...Subscription) bool {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != `` {
		t.Errorf("unexpected subscriptions (-want +got):\n%s", diff)
		return false
	}
	return true
}
