package timers

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// displayRecorder feeds every display update into channels so tests can wait
// on tick processing deterministically.
type displayRecorder struct {
	countdowns chan int
	clocks     chan string
	hides      chan struct{}
}

func newDisplayRecorder() *displayRecorder {
	return &displayRecorder{
		countdowns: make(chan int, 64),
		clocks:     make(chan string, 64),
		hides:      make(chan struct{}, 64),
	}
}

func (d *displayRecorder) SetCountdown(seconds int) { d.countdowns <- seconds }

func (d *displayRecorder) HideCountdown() { d.hides <- struct{}{} }

func (d *displayRecorder) SetAnswerClock(text string) { d.clocks <- text }

func (d *displayRecorder) nextCountdown(t *testing.T) int {
	t.Helper()
	select {
	case v := <-d.countdowns:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for countdown update")
		return 0
	}
}

func (d *displayRecorder) nextClock(t *testing.T) string {
	t.Helper()
	select {
	case v := <-d.clocks:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for answer clock update")
		return ""
	}
}

func (d *displayRecorder) assertQuiet(t *testing.T) {
	t.Helper()
	select {
	case v := <-d.countdowns:
		t.Fatalf("unexpected countdown update: %d", v)
	case v := <-d.clocks:
		t.Fatalf("unexpected answer clock update: %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownStopsAtOne(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartCountdown(5)
	assert.Equal(t, 5, rec.nextCountdown(t))

	for _, want := range []int{4, 3, 2, 1} {
		clock.Advance(time.Second)
		assert.Equal(t, want, rec.nextCountdown(t))
	}

	// The display never reaches zero and the timer is stopped.
	clock.Advance(time.Second)
	clock.Advance(time.Second)
	rec.assertQuiet(t)
}

func TestCountdownRestartReplacesPrevious(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartCountdown(10)
	assert.Equal(t, 10, rec.nextCountdown(t))

	c.StartCountdown(3)
	assert.Equal(t, 3, rec.nextCountdown(t))

	clock.Advance(time.Second)
	assert.Equal(t, 2, rec.nextCountdown(t), "only the replacement ticks")
}

func TestAnswerClockFormatsAndStopsAtZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartAnswerClock(3)
	assert.Equal(t, ":03", rec.nextClock(t))

	for _, want := range []string{":02", ":01", ":00"} {
		clock.Advance(time.Second)
		assert.Equal(t, want, rec.nextClock(t))
	}

	// ":00" stays displayed; no further ticks.
	clock.Advance(time.Second)
	rec.assertQuiet(t)
}

func TestAnswerClockZeroSecondsNeverTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartAnswerClock(0)
	assert.Equal(t, ":00", rec.nextClock(t))

	clock.Advance(time.Second)
	rec.assertQuiet(t)
}

func TestCancelAllIsSynchronousAndIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartCountdown(5)
	c.StartAnswerClock(5)
	assert.Equal(t, 5, rec.nextCountdown(t))
	assert.Equal(t, ":05", rec.nextClock(t))

	c.CancelAll()
	c.CancelAll()

	// A tick scheduled before the cancel must never surface.
	clock.Advance(time.Second)
	clock.Advance(time.Second)
	rec.assertQuiet(t)
}

func TestFreezeAnswerClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	c.StartAnswerClock(8)
	assert.Equal(t, ":08", rec.nextClock(t))

	c.FreezeAnswerClock()
	assert.Equal(t, ":00", rec.nextClock(t))

	clock.Advance(time.Second)
	rec.assertQuiet(t)

	// Freezing with no clock running does nothing.
	c.FreezeAnswerClock()
	rec.assertQuiet(t)
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, ":00"},
		{7, ":07"},
		{10, ":10"},
		{99, ":99"},
		{100, ":100"},
		{105, ":105"},
		{-3, ":00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in))
	}
}

func TestTimersNeverBlockController(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newDisplayRecorder()
	c := NewController(clock, rec)

	// Start and cancel repeatedly; nothing should deadlock or leak a tick
	// past its cancellation.
	for i := 0; i < 10; i++ {
		c.StartCountdown(5)
		require.Equal(t, 5, rec.nextCountdown(t))
		c.CancelAll()
	}
	clock.Advance(time.Second)
	rec.assertQuiet(t)
}
