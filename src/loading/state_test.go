package loading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBeginAndClear(t *testing.T) {
	state := New(false)
	assert.False(t, state.IsLoading())

	token := state.Begin()
	assert.True(t, state.IsLoading())
	assert.True(t, token.Current())

	assert.True(t, token.Clear())
	assert.False(t, state.IsLoading())
}

func TestSupersededTokenCannotClear(t *testing.T) {
	state := New(false)
	first := state.Begin()
	second := state.Begin()

	assert.False(t, first.Current())
	assert.False(t, first.Clear())
	assert.True(t, state.IsLoading())

	assert.True(t, second.Clear())
	assert.False(t, state.IsLoading())
}

func TestClearAfterWaitsForDelay(t *testing.T) {
	state := New(false)
	token := state.Begin()
	start := time.Now()
	token.ClearAfter(50 * time.Millisecond)

	assert.True(t, state.IsLoading())
	require.Eventually(t, func() bool { return !state.IsLoading() }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestStaleDelayedClearDoesNotFire(t *testing.T) {
	state := New(false)
	stale := state.Begin()
	stale.ClearAfter(20 * time.Millisecond)

	state.Begin()
	time.Sleep(60 * time.Millisecond)
	assert.True(t, state.IsLoading())
}

func TestClearAfterFromSupersededTokenIsIgnored(t *testing.T) {
	state := New(false)
	stale := state.Begin()
	current := state.Begin()
	stale.ClearAfter(time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, state.IsLoading())
	assert.True(t, current.Clear())
}

func TestSubscribe(t *testing.T) {
	state := New(true)
	updates, cancel := state.Subscribe()
	defer cancel()

	assert.True(t, <-updates)

	token := state.Begin()
	token.Clear()
	assert.False(t, <-updates)

	state.Begin()
	assert.True(t, <-updates)
}

func TestSubscribeKeepsLatestValue(t *testing.T) {
	state := New(false)
	updates, cancel := state.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		state.Begin().Clear()
	}
	state.Begin()

	assert.True(t, <-updates)
	select {
	case v := <-updates:
		t.Fatalf("unexpected extra update %v", v)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	state := New(true)
	updates, cancel := state.Subscribe()

	cancel()
	cancel()
	assert.True(t, <-updates)
	_, ok := <-updates
	assert.False(t, ok)

	state.Begin().Clear()
	assert.False(t, state.IsLoading())
}
