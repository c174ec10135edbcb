package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginLimiterAdmit(t *testing.T) {
	t.Parallel()

	t.Run("admits up to the limit then refuses", func(t *testing.T) {
		now := time.Now()
		l := NewLoginLimiter(10, time.Minute)
		l.now = func() time.Time { return now }

		for i := 0; i < 10; i++ {
			require.True(t, l.Admit("203.0.113.7"), "attempt %d should be admitted", i+1)
		}
		require.False(t, l.Admit("203.0.113.7"))
		require.False(t, l.Admit("203.0.113.7"))
	})

	t.Run("refused attempts do not extend the window", func(t *testing.T) {
		now := time.Now()
		l := NewLoginLimiter(2, time.Minute)
		l.now = func() time.Time { return now }

		require.True(t, l.Admit("key"))
		require.True(t, l.Admit("key"))

		// Hammering while refused must not push the window forward.
		for i := 0; i < 50; i++ {
			require.False(t, l.Admit("key"))
		}

		now = now.Add(time.Minute + time.Second)
		require.True(t, l.Admit("key"))
	})

	t.Run("window slides rather than resets", func(t *testing.T) {
		now := time.Now()
		l := NewLoginLimiter(3, time.Minute)
		l.now = func() time.Time { return now }

		require.True(t, l.Admit("key"))
		now = now.Add(30 * time.Second)
		require.True(t, l.Admit("key"))
		require.True(t, l.Admit("key"))
		require.False(t, l.Admit("key"))

		// 35s later the first attempt has aged out but not the other two.
		now = now.Add(35 * time.Second)
		require.True(t, l.Admit("key"))
		require.False(t, l.Admit("key"))
	})

	t.Run("identities are limited independently", func(t *testing.T) {
		l := NewLoginLimiter(1, time.Minute)

		require.True(t, l.Admit("198.51.100.1"))
		require.False(t, l.Admit("198.51.100.1"))
		require.True(t, l.Admit("198.51.100.2"))
	})

	t.Run("defaults applied for non-positive settings", func(t *testing.T) {
		l := NewLoginLimiter(0, 0)
		require.Equal(t, DefaultLoginLimit, l.limit)
		require.Equal(t, DefaultLoginWindow, l.window)
	})
}

func TestLoginLimiterConcurrent(t *testing.T) {
	t.Parallel()

	l := NewLoginLimiter(10, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit("shared") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, admitted)
}
