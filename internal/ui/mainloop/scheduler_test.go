package mainloop_test

import (
	"testing"
	"time"

	"github.com/bnema/folio/internal/ui/mainloop"
	mock_mainloop "github.com/bnema/folio/internal/ui/mainloop/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDebounce_BurstRunsOnceAfterLastEvent(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	var ranAt []time.Time
	for i := 0; i < 10; i++ {
		s.Debounce("resize", 250*time.Millisecond, func() { ranAt = append(ranAt, clock.Now()) })
		clock.Advance(5 * time.Millisecond)
	}
	// last event at +45ms
	lastEvent := epoch.Add(45 * time.Millisecond)

	clock.Advance(244 * time.Millisecond)
	loop.RunPending()
	assert.Empty(t, ranAt, "handler must wait for the full quiet interval")

	clock.Advance(time.Millisecond)
	loop.RunPending()
	require.Len(t, ranAt, 1)
	assert.Equal(t, lastEvent.Add(250*time.Millisecond), ranAt[0])
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestDebounce_RunsLatestCallback(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	value := 0
	for i := 1; i <= 3; i++ {
		v := i
		s.Debounce("k", 10*time.Millisecond, func() { value = v })
	}
	clock.Advance(10 * time.Millisecond)
	loop.RunPending()

	assert.Equal(t, 3, value)
}

func TestDebounce_KeysAreIndependent(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	var got []string
	s.Debounce("a", 10*time.Millisecond, func() { got = append(got, "a") })
	s.Debounce("b", 20*time.Millisecond, func() { got = append(got, "b") })
	clock.Advance(time.Second)
	loop.RunPending()

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDebounce_StopsPreviousTimerOnReschedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mock_mainloop.NewMockClock(ctrl)
	first := mock_mainloop.NewMockTimer(ctrl)
	second := mock_mainloop.NewMockTimer(ctrl)

	var fire func()
	gomock.InOrder(
		clock.EXPECT().AfterFunc(250*time.Millisecond, gomock.Any()).Return(first),
		first.EXPECT().Stop().Return(true),
		clock.EXPECT().AfterFunc(250*time.Millisecond, gomock.Any()).
			DoAndReturn(func(_ time.Duration, f func()) mainloop.Timer {
				fire = f
				return second
			}),
	)

	var posted []func()
	s := mainloop.NewScheduler(clock, func(fn func()) { posted = append(posted, fn) })

	ran := 0
	s.Debounce("resize", 250*time.Millisecond, func() { ran++ })
	s.Debounce("resize", 250*time.Millisecond, func() { ran++ })

	require.NotNil(t, fire)
	fire()
	require.Len(t, posted, 1)
	posted[0]()
	assert.Equal(t, 1, ran)
}

func TestDebounce_StaleTimerIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mock_mainloop.NewMockClock(ctrl)
	timer := mock_mainloop.NewMockTimer(ctrl)

	var fired []func()
	clock.EXPECT().AfterFunc(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ time.Duration, f func()) mainloop.Timer {
			fired = append(fired, f)
			return timer
		}).Times(2)
	// the first timer already fired on its goroutine, so Stop reports false
	timer.EXPECT().Stop().Return(false).Times(1)

	var posted []func()
	s := mainloop.NewScheduler(clock, func(fn func()) { posted = append(posted, fn) })

	s.Debounce("k", time.Millisecond, func() {})
	s.Debounce("k", time.Millisecond, func() {})

	fired[0]()
	assert.Empty(t, posted)
	fired[1]()
	assert.Len(t, posted, 1)
}

func TestCancel_DropsPendingCall(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	ran := false
	s.Debounce("k", 10*time.Millisecond, func() { ran = true })
	assert.True(t, s.Pending("k"))
	assert.True(t, s.Cancel("k"))
	assert.False(t, s.Pending("k"))
	assert.False(t, s.Cancel("k"))

	clock.Advance(time.Second)
	loop.RunPending()
	assert.False(t, ran)
}

func TestCoalesce_MergesBurstIntoSingleTask(t *testing.T) {
	queue := make([]func(), 0, 8)
	s := mainloop.NewScheduler(nil, func(fn func()) { queue = append(queue, fn) })

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		s.Coalesce("nav", func() { value = v })
	}

	require.Len(t, queue, 1)
	queue[0]()
	assert.Equal(t, 5, value)
}

func TestAfter_PostsOnceWhenDue(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	count := 0
	s.After(100*time.Millisecond, func() { count++ })
	s.After(100*time.Millisecond, func() { count++ })

	clock.Advance(99 * time.Millisecond)
	loop.RunPending()
	assert.Equal(t, 0, count)

	clock.Advance(time.Millisecond)
	loop.RunPending()
	assert.Equal(t, 2, count)
}

func TestDestroy_DropsEverything(t *testing.T) {
	clock := mainloop.NewManualClock(epoch)
	loop := mainloop.NewLoop()
	s := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })

	ran := false
	s.Debounce("k", 10*time.Millisecond, func() { ran = true })
	s.After(10*time.Millisecond, func() { ran = true })
	s.Coalesce("c", func() { ran = true })
	s.Destroy()

	clock.Advance(time.Second)
	loop.RunPending()
	assert.False(t, ran)
	assert.Equal(t, 0, clock.PendingTimers())

	s.Debounce("k", 10*time.Millisecond, func() { ran = true })
	assert.False(t, s.Pending("k"))
}

func TestNewScheduler_PanicsOnNilPost(t *testing.T) {
	assert.Panics(t, func() { mainloop.NewScheduler(nil, nil) })
}
