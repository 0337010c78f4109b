package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`free key runs immediately check`, func(t *testing.T) {
		ran := false
		success, err := WithDelay(context.Background(), "k1", time.Second, func() error {
			ran = true
			return nil
		})
		require.Nil(t, err)
		require.True(t, success)
		require.True(t, ran)
	})

	t.Run(`held key times out without running check`, func(t *testing.T) {
		release := make(chan struct{})
		held := make(chan struct{})
		go func() {
			WithDelay(context.Background(), "k2", time.Second, func() error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		ran := false
		success, err := WithDelay(context.Background(), "k2", 100*time.Millisecond, func() error {
			ran = true
			return nil
		})
		require.Nil(t, err)
		require.False(t, success)
		require.False(t, ran)
		close(release)
	})

	t.Run(`critical sections never overlap check`, func(t *testing.T) {
		var inside int32
		var overlaps int32
		wg := sync.WaitGroup{}
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				WithDelay(context.Background(), "k3", 5*time.Second, func() error {
					if atomic.AddInt32(&inside, 1) > 1 {
						atomic.AddInt32(&overlaps, 1)
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					return nil
				})
			}()
		}
		wg.Wait()
		require.Equal(t, int32(0), overlaps)
	})

	t.Run(`different keys do not block each other check`, func(t *testing.T) {
		release := make(chan struct{})
		held := make(chan struct{})
		go func() {
			WithDelay(context.Background(), "k4", time.Second, func() error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		success, err := WithDelay(context.Background(), "k5", 100*time.Millisecond, func() error {
			return nil
		})
		require.Nil(t, err)
		require.True(t, success)
		close(release)
	})

	t.Run(`cancelled context gives up check`, func(t *testing.T) {
		release := make(chan struct{})
		held := make(chan struct{})
		go func() {
			WithDelay(context.Background(), "k6", time.Second, func() error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		success, err := WithDelay(ctx, "k6", 5*time.Second, func() error {
			return nil
		})
		require.Nil(t, err)
		require.False(t, success)
		close(release)
	})
}
