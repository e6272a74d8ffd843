package channel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/runtime/channel"
)

// TestBufferedChannelFIFORoundTrip exercises scenario S5: a capacity-2
// buffered channel round-trips three sent messages in FIFO order and
// reports matching sent/received counts with the observed max queue
// size.
func TestBufferedChannelFIFORoundTrip(t *testing.T) {
	t.Parallel()

	ch := channel.New[int](2, false, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, v := range []int{1, 2, 3} {
			outcome, err := ch.Send(v, 0, channel.Block)
			require.NoError(t, err)
			require.Equal(t, channel.Delivered, outcome)
		}
	}()

	var got []int
	for i := 0; i < 3; i++ {
		v, outcome, err := ch.Receive(channel.Block)
		require.NoError(t, err)
		require.Equal(t, channel.Delivered, outcome)
		got = append(got, v)
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3}, got)
	stats := ch.Stats()
	assert.Equal(t, uint64(3), stats.MessagesSent)
	assert.Equal(t, uint64(3), stats.MessagesReceived)
	assert.Equal(t, uint32(2), stats.MaxQueueSize)
}

// TestRendezvousCloseUnblocksReceiver exercises scenario S6: an
// unbuffered channel's blocked receive returns "closed" once Close runs,
// and a subsequent send also reports "closed".
func TestRendezvousCloseUnblocksReceiver(t *testing.T) {
	t.Parallel()

	ch := channel.New[string](0, false, nil)
	done := make(chan channel.Outcome, 1)
	go func() {
		_, outcome, _ := ch.Receive(channel.Block)
		done <- outcome
	}()

	time.Sleep(20 * time.Millisecond) // let the receive start waiting
	ch.Close()

	select {
	case outcome := <-done:
		assert.Equal(t, channel.ChannelClosedOutcome, outcome)
	case <-time.After(time.Second):
		t.Fatal("receive did not unblock after close")
	}

	outcome, err := ch.Send("x", 0, channel.NoWait)
	assert.Equal(t, channel.ChannelClosedOutcome, outcome)
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	ch := channel.New[int](1, false, nil)
	ch.Close()
	ch.Close()
	assert.True(t, ch.Closed())
}

// TestPriorityChannelOrdersByPriorityThenFIFO exercises scenario S7:
// messages sent as {p=1}, {p=5}, {p=3} in that order come back 5, 3, 1.
func TestPriorityChannelOrdersByPriorityThenFIFO(t *testing.T) {
	t.Parallel()

	ch := channel.New[string](8, true, nil)
	_, err := ch.Send("p1", 1, channel.NoWait)
	require.NoError(t, err)
	_, err = ch.Send("p5", 5, channel.NoWait)
	require.NoError(t, err)
	_, err = ch.Send("p3", 3, channel.NoWait)
	require.NoError(t, err)

	var got []string
	for i := 0; i < 3; i++ {
		v, outcome, err := ch.Receive(channel.NoWait)
		require.NoError(t, err)
		require.Equal(t, channel.Delivered, outcome)
		got = append(got, v)
	}
	assert.Equal(t, []string{"p5", "p3", "p1"}, got)
}

func TestPriorityTiesResolveFIFO(t *testing.T) {
	t.Parallel()

	ch := channel.New[string](8, true, nil)
	_, _ = ch.Send("first", 2, channel.NoWait)
	_, _ = ch.Send("second", 2, channel.NoWait)
	_, _ = ch.Send("third", 2, channel.NoWait)

	var got []string
	for i := 0; i < 3; i++ {
		v, _, _ := ch.Receive(channel.NoWait)
		got = append(got, v)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestSendNoWaitReturnsWouldBlockWhenFull(t *testing.T) {
	t.Parallel()

	ch := channel.New[int](1, false, nil)
	_, err := ch.Send(1, 0, channel.NoWait)
	require.NoError(t, err)

	outcome, err := ch.Send(2, 0, channel.NoWait)
	assert.Equal(t, channel.WouldBlock, outcome)
	assert.Error(t, err)
}

func TestReceiveTimesOutWhenEmpty(t *testing.T) {
	t.Parallel()

	ch := channel.New[int](1, false, nil)
	start := time.Now()
	_, outcome, err := ch.Receive(30)
	assert.Equal(t, channel.TimedOut, outcome)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
	assert.Equal(t, uint64(1), ch.Stats().RecvTimeouts)
}

func TestPubSubDeliversOnlyToPrefixMatchingSubscribers(t *testing.T) {
	t.Parallel()

	ps := channel.NewPubSub[string](nil)
	matching := ps.Subscribe("orders.", 4)
	other := ps.Subscribe("billing.", 4)

	delivered := ps.Publish("orders.created", "payload")
	assert.Equal(t, 1, delivered)

	v, outcome, err := matching.Receive(channel.NoWait)
	require.NoError(t, err)
	require.Equal(t, channel.Delivered, outcome)
	assert.Equal(t, "payload", v)

	_, outcome, _ = other.Receive(channel.NoWait)
	assert.Equal(t, channel.WouldBlock, outcome)
}

func TestPushPullDistributesRoundRobin(t *testing.T) {
	t.Parallel()

	pp := channel.NewPushPull[int](nil)
	a := pp.Connect(4)
	b := pp.Connect(4)

	for i := 0; i < 4; i++ {
		_, err := pp.Push(i, 0, channel.NoWait)
		require.NoError(t, err)
	}

	var gotA, gotB []int
	for {
		v, outcome, _ := a.Receive(channel.NoWait)
		if outcome != channel.Delivered {
			break
		}
		gotA = append(gotA, v)
	}
	for {
		v, outcome, _ := b.Receive(channel.NoWait)
		if outcome != channel.Delivered {
			break
		}
		gotB = append(gotB, v)
	}

	assert.Equal(t, []int{0, 2}, gotA)
	assert.Equal(t, []int{1, 3}, gotB)
}

func TestReqRepRoundTripsCorrelatedReply(t *testing.T) {
	t.Parallel()

	rr := channel.NewReqRep[int](1, nil)
	defer rr.Close()

	go rr.Serve(func(req int) int { return req * 2 })

	reply, outcome, err := rr.Request(21, time.Second.Milliseconds())
	require.NoError(t, err)
	require.Equal(t, channel.Delivered, outcome)
	assert.Equal(t, 42, reply)
}

func TestSelectPicksReadyCase(t *testing.T) {
	t.Parallel()

	a := channel.New[int](1, false, nil)
	b := channel.New[int](1, false, nil)
	_, err := b.Send(99, 0, channel.NoWait)
	require.NoError(t, err)

	var got int
	idx, ok := channel.Select(channel.NoWait,
		channel.RecvCase(a, &got),
		channel.RecvCase(b, &got),
	)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 99, got)
}

func TestSelectTimesOutWhenNothingReady(t *testing.T) {
	t.Parallel()

	a := channel.New[int](1, false, nil)
	var got int
	_, ok := channel.Select(30, channel.RecvCase(a, &got))
	assert.False(t, ok)
}

func TestParallelForVisitsEveryIndexExactlyOnce(t *testing.T) {
	t.Parallel()

	pool := channel.NewPool(4)
	const n = 97
	var mu sync.Mutex
	seen := make(map[int]bool, n)

	err := channel.ParallelFor(context.Background(), pool, 0, n, 1, func(i int) error {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, n)
}

func TestParallelReduceSumsMatchSequentialSum(t *testing.T) {
	t.Parallel()

	pool := channel.NewPool(4)
	const n = 1000
	sum, err := channel.ParallelReduce(context.Background(), pool, 0, n, 1, 0,
		func(lo, hi int) int {
			local := 0
			for i := lo; i < hi; i++ {
				local += i
			}
			return local
		},
		func(acc, v int) int { return acc + v },
	)
	require.NoError(t, err)
	assert.Equal(t, n*(n-1)/2, sum)
}

func TestPoolWaitAllBlocksUntilTasksFinish(t *testing.T) {
	t.Parallel()

	pool := channel.NewPool(2)
	var done int32
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() {
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			done++
			mu.Unlock()
		}))
	}
	pool.WaitAll()
	assert.EqualValues(t, 5, done)
}
