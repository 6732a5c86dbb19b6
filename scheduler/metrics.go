package scheduler

import (
	"slices"
	"time"
)

// lagSampleSize is the number of dispatch lag samples retained, for
// computing percentiles.
const lagSampleSize = 1000

type (
	// Metrics is a point-in-time snapshot of EventLoop statistics, see
	// EventLoop.Metrics and WithMetrics.
	Metrics struct {
		// Scheduled is the number of items accepted by Schedule* methods.
		Scheduled uint64
		// Executed is the number of actions that ran to completion.
		Executed uint64
		// Discarded is the number of pending items dropped by teardown.
		Discarded uint64
		// Cancelled is the number of disposed items skipped by the worker.
		Cancelled uint64
		// Queue tracks the depth of the work queue.
		Queue QueueMetrics
		// Lag is the distribution of the delay between an item's due time,
		// and the moment the worker dequeued it.
		Lag LagMetrics
	}

	// QueueMetrics tracks work queue depth, including cancelled items that
	// have not yet been skipped.
	QueueMetrics struct {
		Current int
		Max     int
		// Avg is an exponential moving average with alpha=0.1.
		Avg float64
	}

	// LagMetrics summarizes the most recent dispatch lag samples.
	LagMetrics struct {
		Samples int
		P50     time.Duration
		P90     time.Duration
		P99     time.Duration
		Max     time.Duration
		Mean    time.Duration
	}

	// loopMetrics accumulates statistics, guarded by the event loop's mutex.
	loopMetrics struct {
		scheduled    uint64
		executed     uint64
		discarded    uint64
		queue        QueueMetrics
		queueEMAInit bool
		lagSamples   [lagSampleSize]time.Duration
		lagIdx       int
		lagCount     int
		lagSum       time.Duration
	}
)

func (m *loopMetrics) updateQueue(depth int) {
	m.queue.Current = depth
	if depth > m.queue.Max {
		m.queue.Max = depth
	}
	if !m.queueEMAInit {
		m.queue.Avg = float64(depth)
		m.queueEMAInit = true
	} else {
		m.queue.Avg = 0.9*m.queue.Avg + 0.1*float64(depth)
	}
}

func (m *loopMetrics) recordLag(lag time.Duration) {
	if lag < 0 {
		lag = 0
	}
	if m.lagCount >= lagSampleSize {
		m.lagSum -= m.lagSamples[m.lagIdx]
	} else {
		m.lagCount++
	}
	m.lagSamples[m.lagIdx] = lag
	m.lagSum += lag
	m.lagIdx = (m.lagIdx + 1) % lagSampleSize
}

// snapshot copies the counters, and the raw lag samples, which are sorted
// by the caller (outside the loop's mutex).
func (m *loopMetrics) snapshot(cancelled uint64) (Metrics, []time.Duration) {
	return Metrics{
		Scheduled: m.scheduled,
		Executed:  m.executed,
		Discarded: m.discarded,
		Cancelled: cancelled,
		Queue:     m.queue,
		Lag:       LagMetrics{Samples: m.lagCount, Mean: meanDuration(m.lagSum, m.lagCount)},
	}, slices.Clone(m.lagSamples[:m.lagCount])
}

func (l *LagMetrics) compute(samples []time.Duration) {
	if len(samples) == 0 {
		return
	}
	slices.Sort(samples)
	l.P50 = samples[percentileIndex(len(samples), 50)]
	l.P90 = samples[percentileIndex(len(samples), 90)]
	l.P99 = samples[percentileIndex(len(samples), 99)]
	l.Max = samples[len(samples)-1]
}

func meanDuration(sum time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return sum / time.Duration(n)
}

// percentileIndex computes the index for a given percentile (0-100).
func percentileIndex(n, p int) int {
	index := (p * n) / 100
	if index >= n {
		return n - 1
	}
	return index
}
