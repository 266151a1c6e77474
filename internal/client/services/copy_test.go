package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClock replaces the clipboard and timer seams for one test.
func stubClock(t *testing.T, clipErr error) (*[]string, *[]*fakeTimer) {
	t.Helper()
	var written []string
	var timers []*fakeTimer

	oldWrite, oldAfter := writeClipboard, afterFunc
	t.Cleanup(func() {
		writeClipboard = oldWrite
		afterFunc = oldAfter
	})

	writeClipboard = func(s string) error {
		if clipErr != nil {
			return clipErr
		}
		written = append(written, s)
		return nil
	}
	afterFunc = func(d time.Duration, f func()) stopper {
		ft := &fakeTimer{d: d, f: f}
		timers = append(timers, ft)
		return ft
	}
	return &written, &timers
}

func TestCopyIndicator_RevertsAfterTwoSeconds(t *testing.T) {
	written, timers := stubClock(t, nil)
	var c CopyIndicator

	assert.False(t, c.Copied())
	require.NoError(t, c.Copy("hello"))
	assert.True(t, c.Copied())
	assert.Equal(t, []string{"hello"}, *written)

	require.Len(t, *timers, 1)
	assert.Equal(t, 2*time.Second, (*timers)[0].d)

	(*timers)[0].f()
	assert.False(t, c.Copied())
}

func TestCopyIndicator_RepeatedCopyKeepsFirstDeadline(t *testing.T) {
	written, timers := stubClock(t, nil)
	var c CopyIndicator

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Copy("hello"))
	}
	assert.Len(t, *written, 3)
	require.Len(t, *timers, 1)
	assert.False(t, (*timers)[0].stopped)

	(*timers)[0].f()
	assert.False(t, c.Copied())

	// the next copy starts a fresh run
	require.NoError(t, c.Copy("again"))
	assert.True(t, c.Copied())
	require.Len(t, *timers, 2)
	(*timers)[1].f()
	assert.False(t, c.Copied())
}

func TestCopyIndicator_StaleTimerAfterStop(t *testing.T) {
	_, timers := stubClock(t, nil)
	var c CopyIndicator

	require.NoError(t, c.Copy("hello"))
	c.Stop()
	require.NoError(t, c.Copy("hello"))
	require.Len(t, *timers, 2)

	// the stopped timer fired anyway; it must not clear the new run
	(*timers)[0].f()
	assert.True(t, c.Copied())

	(*timers)[1].f()
	assert.False(t, c.Copied())
}

func TestCopyIndicator_Failure(t *testing.T) {
	clipErr := errors.New("no clipboard utility")
	_, timers := stubClock(t, clipErr)
	var c CopyIndicator

	err := c.Copy("hello")
	require.ErrorIs(t, err, ErrCopyFailed)
	require.ErrorIs(t, err, clipErr)
	assert.Equal(t, "failed to copy text: no clipboard utility", err.Error())
	assert.False(t, c.Copied())
	assert.Empty(t, *timers)
}

func TestCopyIndicator_Stop(t *testing.T) {
	_, timers := stubClock(t, nil)
	var c CopyIndicator

	require.NoError(t, c.Copy("hello"))
	c.Stop()
	assert.False(t, c.Copied())
	assert.True(t, (*timers)[0].stopped)
}

func TestGreetingPage_Copy(t *testing.T) {
	written, timers := stubClock(t, nil)
	e := newEnv(t)
	e.signUp(t, "me@example.com")
	p := e.addPerson(t, "Anna", "sister")
	page := openPage(t, e, p.ID)

	text, err := page.Generate(context.Background())
	require.NoError(t, err)

	require.NoError(t, page.Copy())
	assert.True(t, page.Copied())
	assert.Equal(t, []string{text}, *written)

	require.NoError(t, page.Discard())
	assert.False(t, page.Copied())
	assert.True(t, (*timers)[0].stopped)
}
