package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/notes/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterSetup(t *testing.T) {
	t.Run("nil subscriber", func(t *testing.T) {
		b := channels.NewBroadcaster[[]byte]()

		require.ErrorContains(t, b.Subscribe(nil), "cannot be nil")
		require.ErrorContains(t, b.SubscribeWithTimeout(nil, time.Second), "cannot be nil")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		b := channels.NewBroadcaster[[]byte]()

		require.ErrorContains(t, b.SubscribeWithTimeout(make(chan []byte), 0), "must be positive")
	})

	t.Run("run without subscribers", func(t *testing.T) {
		_, err := channels.NewBroadcaster[[]byte]().Run(t.Context())
		require.ErrorContains(t, err, "no subscribers")
	})

	t.Run("run twice", func(t *testing.T) {
		b := channels.NewBroadcaster[[]byte]()
		require.NoError(t, b.Subscribe(make(chan []byte, 1)))

		_, err := b.Run(t.Context())
		require.NoError(t, err)

		_, err = b.Run(t.Context())
		require.ErrorContains(t, err, "already started")
	})
}

// TestBroadcasterFanOut mirrors a capture session: one roomy subscriber that
// must see every packet and one small one that may drop.
func TestBroadcasterFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	engineC := make(chan []byte, 64)
	meterC := make(chan []byte, 1)

	b := channels.NewBroadcaster[[]byte]()
	require.NoError(t, b.Subscribe(engineC))
	require.NoError(t, b.Subscribe(meterC))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	for i := range 10 {
		input <- []byte{byte(i)}
	}

	cancel()
	b.Wait()
	close(engineC)
	close(meterC)

	var got []byte
	for p := range engineC {
		got = append(got, p...)
	}
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	stats := b.Stats()
	require.Len(t, stats, 2)
	assert.Zero(t, stats[0].Dropped)
	assert.Equal(t, 9, stats[1].Dropped)
	assert.Len(t, meterC, 1)
}

func TestBroadcasterSlowSubscriberWithTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	slow := make(chan int)
	b := channels.NewBroadcaster[int]()
	require.NoError(t, b.SubscribeWithTimeout(slow, 50*time.Millisecond))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	done := make(chan int)
	go func() {
		time.Sleep(10 * time.Millisecond)
		done <- <-slow
	}()

	input <- 5
	assert.Equal(t, 5, <-done)

	input <- 6
	cancel()
	b.Wait()

	assert.Equal(t, 1, b.Stats()[0].Dropped)
}

func TestBroadcasterClosedSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gone := make(chan int, 4)
	close(gone)

	b := channels.NewBroadcaster[int]()
	require.NoError(t, b.Subscribe(gone))

	input, err := b.Run(ctx)
	require.NoError(t, err)

	input <- 1
	input <- 2
	cancel()
	b.Wait()

	stats := b.Stats()
	assert.True(t, stats[0].Inactive)
	assert.Equal(t, 2, stats[0].Dropped)
}
