package chanx

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_FIFO(t *testing.T) {
	tx, rx := NewChannel[int]()
	for i := 0; i < 5; i++ {
		require.NoError(t, tx.Send(i))
	}
	tx.Close()

	got, err := Collect(context.Background(), rx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestChannel_SendNeverBlocks(t *testing.T) {
	tx, rx := NewChannel[int]()
	defer tx.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100_000; i++ {
			_ = tx.Send(i)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sends blocked without a consumer")
	}
	assert.Equal(t, 100_000, rx.Len())
}

func TestChannel_EOFAfterAllSendersClosed(t *testing.T) {
	tx, rx := NewChannel[string]()
	clone := tx.Clone()

	require.NoError(t, tx.Send("a"))
	tx.Close()
	require.NoError(t, clone.Send("b"))

	ctx := context.Background()
	v, err := rx.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = rx.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	// clone still open: nothing queued, so Next must wait.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = rx.Next(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	clone.Close()
	_, err = rx.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestChannel_SendAfterReceiverClosed(t *testing.T) {
	tx, rx := NewChannel[int]()
	defer tx.Close()

	require.NoError(t, tx.Send(1))
	rx.Close()
	assert.True(t, tx.ReceiverClosed())
	assert.Equal(t, 0, rx.Len())

	err := tx.Send(42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReceiverClosed)

	var se *SendError[int]
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 42, se.Value)

	_, err = rx.Next(context.Background())
	assert.ErrorIs(t, err, ErrReceiverClosed)
}

func TestChannel_SendOnClosedSender(t *testing.T) {
	tx, _ := NewChannel[int]()
	tx.Close()
	tx.Close() // idempotent

	assert.ErrorIs(t, tx.Send(1), ErrSenderClosed)
	assert.Panics(t, func() { tx.Clone() })
}

func TestChannel_NextWakesOnSend(t *testing.T) {
	tx, rx := NewChannel[int]()
	defer tx.Close()

	got := make(chan int, 1)
	go func() {
		v, err := rx.Next(context.Background())
		if err == nil {
			got <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tx.Send(9))

	select {
	case v := <-got:
		assert.Equal(t, 9, v)
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken by send")
	}
}

func TestChannel_ConcurrentSendersPreserveOwnOrder(t *testing.T) {
	const senders, perSender = 8, 500

	tx, rx := NewChannel[[2]int]()
	clones := make([]*Sender[[2]int], senders)
	clones[0] = tx
	for i := 1; i < senders; i++ {
		clones[i] = tx.Clone()
	}

	var wg sync.WaitGroup
	for id, s := range clones {
		wg.Add(1)
		go func(id int, s *Sender[[2]int]) {
			defer wg.Done()
			defer s.Close()
			for seq := 0; seq < perSender; seq++ {
				_ = s.Send([2]int{id, seq})
			}
		}(id, s)
	}

	got, err := Collect(context.Background(), rx)
	require.NoError(t, err)
	wg.Wait()

	require.Len(t, got, senders*perSender)
	next := make([]int, senders)
	for _, v := range got {
		assert.Equal(t, next[v[0]], v[1], "sender %d out of order", v[0])
		next[v[0]]++
	}
}

func TestChannel_TryNext(t *testing.T) {
	tx, rx := NewChannel[int]()
	defer tx.Close()

	_, ok := rx.TryNext()
	assert.False(t, ok)

	require.NoError(t, tx.Send(3))
	v, ok := rx.TryNext()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestChannel_Compaction(t *testing.T) {
	tx, rx := NewChannel[int]()
	defer tx.Close()

	for i := 0; i < 3*compactThreshold; i++ {
		require.NoError(t, tx.Send(i))
	}
	for i := 0; i < 2*compactThreshold; i++ {
		v, ok := rx.TryNext()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	assert.Equal(t, compactThreshold, rx.Len())

	v, ok := rx.TryNext()
	require.True(t, ok)
	assert.Equal(t, 2*compactThreshold, v)
}
