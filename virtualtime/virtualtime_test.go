package virtualtime

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/scheduler"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	x   *Scheduler
	log []string
}

func (r *recorder) action(name string) func() {
	return func() { r.log = append(r.log, fmt.Sprintf(`%s@%d`, name, r.x.Clock())) }
}

func TestScheduler_AdvanceTo_ordering(t *testing.T) {
	x := New()
	r := &recorder{x: x}

	for _, v := range [...]struct {
		due  int64
		name string
	}{
		{30, `c`},
		{10, `a`},
		{20, `b1`},
		{20, `b2`},
		{40, `d`},
	} {
		_, err := x.ScheduleAbsolute(v.due, r.action(v.name))
		require.NoError(t, err)
	}

	require.NoError(t, x.AdvanceTo(30))
	assert.Equal(t, []string{`a@10`, `b1@20`, `b2@20`, `c@30`}, r.log)
	assert.Equal(t, int64(30), x.Clock())

	require.NoError(t, x.AdvanceTo(35))
	assert.Equal(t, int64(35), x.Clock())
	assert.Len(t, r.log, 4)

	require.NoError(t, x.AdvanceBy(5))
	assert.Equal(t, []string{`a@10`, `b1@20`, `b2@20`, `c@30`, `d@40`}, r.log)
}

func TestScheduler_AdvanceTo_errors(t *testing.T) {
	x := New()
	require.NoError(t, x.AdvanceTo(100))

	err := x.AdvanceTo(99)
	assert.ErrorIs(t, err, scheduler.ErrInvalidArgument)
	assert.Equal(t, int64(100), x.Clock())

	assert.ErrorIs(t, x.AdvanceBy(-1), scheduler.ErrInvalidArgument)

	var nested []error
	_, err = x.ScheduleRelative(10, func() {
		nested = append(nested, x.AdvanceTo(500), x.AdvanceBy(1), x.Start())
	})
	require.NoError(t, err)
	require.NoError(t, x.AdvanceTo(200))
	assert.Equal(t, []error{ErrAlreadyRunning, ErrAlreadyRunning, ErrAlreadyRunning}, nested)
	assert.Equal(t, int64(200), x.Clock())

	_, err = x.ScheduleAbsolute(0, nil)
	assert.ErrorIs(t, err, scheduler.ErrInvalidArgument)
}

func TestScheduler_nestedScheduling(t *testing.T) {
	x := New()
	r := &recorder{x: x}

	_, err := x.ScheduleAbsolute(10, func() {
		r.action(`outer`)()
		_, _ = x.Schedule(r.action(`nested-now`))
		_, _ = x.ScheduleRelative(5, r.action(`nested-later`))
		_, _ = x.ScheduleRelative(100, r.action(`nested-beyond`))
	})
	require.NoError(t, err)
	_, err = x.ScheduleAbsolute(10, r.action(`sibling`))
	require.NoError(t, err)

	require.NoError(t, x.AdvanceTo(50))
	assert.Equal(t, []string{`outer@10`, `sibling@10`, `nested-now@10`, `nested-later@15`}, r.log)
	assert.Equal(t, 1, x.Pending())
}

func TestScheduler_pastDueDoesNotMoveClockBackwards(t *testing.T) {
	x := New()
	r := &recorder{x: x}
	require.NoError(t, x.AdvanceTo(100))

	_, err := x.ScheduleAbsolute(50, r.action(`late`))
	require.NoError(t, err)
	_, err = x.ScheduleRelative(-20, r.action(`negative`))
	require.NoError(t, err)

	require.NoError(t, x.AdvanceBy(0))
	assert.Equal(t, []string{`late@100`, `negative@100`}, r.log)
}

func TestScheduler_cancellation(t *testing.T) {
	x := New()
	r := &recorder{x: x}

	d, err := x.ScheduleAbsolute(10, r.action(`cancelled`))
	require.NoError(t, err)
	_, err = x.ScheduleAbsolute(20, r.action(`kept`))
	require.NoError(t, err)

	var later disposable.Disposable
	_, err = x.ScheduleAbsolute(15, func() { later.Dispose() })
	require.NoError(t, err)
	later, err = x.ScheduleAbsolute(30, r.action(`cancelled-by-action`))
	require.NoError(t, err)

	d.Dispose()
	require.NoError(t, x.Start())
	assert.Equal(t, []string{`kept@20`}, r.log)
	assert.Equal(t, int64(20), x.Clock(), `start leaves the clock at the last item run`)
}

func TestScheduler_StartStop(t *testing.T) {
	x := New()
	r := &recorder{x: x}

	_, err := x.ScheduleAbsolute(10, r.action(`a`))
	require.NoError(t, err)
	_, err = x.ScheduleAbsolute(20, func() {
		r.action(`stop`)()
		x.Stop()
	})
	require.NoError(t, err)
	_, err = x.ScheduleAbsolute(30, r.action(`b`))
	require.NoError(t, err)

	require.NoError(t, x.Start())
	assert.Equal(t, []string{`a@10`, `stop@20`}, r.log)
	assert.Equal(t, int64(20), x.Clock())

	x.Stop()
	require.NoError(t, x.Start())
	assert.Equal(t, []string{`a@10`, `stop@20`, `b@30`}, r.log)
}

func TestScheduler_StopDuringAdvanceTo(t *testing.T) {
	x := New()
	r := &recorder{x: x}
	_, err := x.ScheduleAbsolute(10, x.Stop)
	require.NoError(t, err)
	_, err = x.ScheduleAbsolute(20, r.action(`skipped`))
	require.NoError(t, err)

	require.NoError(t, x.AdvanceTo(50))
	assert.Empty(t, r.log)
	assert.Equal(t, int64(50), x.Clock())

	require.NoError(t, x.AdvanceTo(50))
	assert.Equal(t, []string{`skipped@50`}, r.log, `overdue items run on the next advance`)
}

func TestScheduler_SchedulePeriodic_driftFree(t *testing.T) {
	x := New()
	var ticks []int64
	var d disposable.Disposable
	d, err := x.SchedulePeriodic(100, func() {
		ticks = append(ticks, x.Clock())
	})
	require.NoError(t, err)

	require.NoError(t, x.AdvanceTo(450))
	assert.Equal(t, []int64{100, 200, 300, 400}, ticks)

	d.Dispose()
	require.NoError(t, x.AdvanceTo(1000))
	assert.Len(t, ticks, 4)
}

func TestScheduler_SchedulePeriodic_disposeFromAction(t *testing.T) {
	x := New()
	var ticks []int64
	var d disposable.Disposable
	d, err := x.SchedulePeriodic(7, func() {
		ticks = append(ticks, x.Clock())
		if len(ticks) == 3 {
			d.Dispose()
		}
	})
	require.NoError(t, err)
	require.NoError(t, x.Start())
	assert.Equal(t, []int64{7, 14, 21}, ticks)
	assert.Equal(t, 0, x.Pending())
}

func TestScheduler_Now(t *testing.T) {
	epoch := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	x := New(WithEpoch(epoch), nil)
	assert.Equal(t, epoch, x.Now())

	var at time.Time
	_, err := x.ScheduleAt(epoch.Add(time.Second), func() { at = x.Now() })
	require.NoError(t, err)
	_, err = x.ScheduleAfter(time.Millisecond, func() {})
	require.NoError(t, err)

	require.NoError(t, x.Start())
	assert.Equal(t, epoch.Add(time.Second), at)
	assert.Equal(t, int64(time.Second), x.Clock())

	assert.Equal(t, time.Unix(0, 0).UTC(), New().Now())
}

func TestScheduler_deterministic(t *testing.T) {
	run := func() []string {
		x := New()
		r := &recorder{x: x}
		for i := range 50 {
			due := int64((i * 37) % 11)
			_, _ = x.ScheduleAbsolute(due, func() {
				r.action(fmt.Sprint(`item`, i))()
				if i%3 == 0 {
					_, _ = x.ScheduleRelative(int64(i%5), r.action(fmt.Sprint(`nested`, i)))
				}
			})
		}
		periodic, _ := x.SchedulePeriodic(4, r.action(`tick`))
		_ = x.AdvanceTo(20)
		periodic.Dispose()
		return r.log
	}
	first := run()
	require.NotEmpty(t, first)
	for range 10 {
		assert.Equal(t, first, run())
	}
}

func TestScheduler_logging(t *testing.T) {
	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(&buf),
			stumpy.WithTimeField(``),
		),
		stumpy.L.WithLevel(stumpy.L.LevelTrace()),
	).Logger()

	x := New(WithLogger(logger))
	_, err := x.ScheduleAbsolute(5, func() {})
	require.NoError(t, err)
	require.NoError(t, x.AdvanceTo(10))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"virtual time advancing"`)
	assert.Contains(t, lines[1], `"msg":"virtual time item"`)
}
