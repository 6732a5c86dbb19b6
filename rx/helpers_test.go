package rx_test

import (
	"runtime"
	"testing"
	"time"
)

func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for runtime.NumGoroutine() > before {
			if time.Now().After(deadline) {
				t.Errorf(`goroutine leak: before=%d after=%d`, before, runtime.NumGoroutine())
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}
