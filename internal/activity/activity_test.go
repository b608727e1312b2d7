package activity_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dimasbt/internal/activity"
	"dimasbt/internal/lifecycle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	broker := activity.NewBroker()

	received := make(chan activity.Message, 1)
	sub := activity.NewSubscriber(broker, "demo/topic", func(m activity.Message) {
		received <- m
	}, nil)
	pub := activity.NewPublisher(broker, "demo/topic")

	require.NoError(t, lifecycle.Manage(sub, lifecycle.Active))
	require.NoError(t, lifecycle.Manage(pub, lifecycle.Active))
	defer func() {
		require.NoError(t, lifecycle.Manage(pub, lifecycle.Created))
		require.NoError(t, lifecycle.Manage(sub, lifecycle.Created))
	}()

	require.NoError(t, pub.Put([]byte("hello")))

	select {
	case m := <-received:
		assert.Equal(t, "demo/topic", m.Selector)
		assert.Equal(t, []byte("hello"), m.Payload)
	case <-time.After(time.Second):
		t.Fatal("subscriber callback never fired")
	}
}

func TestPublisherRejectsPutBeforeActive(t *testing.T) {
	broker := activity.NewBroker()
	pub := activity.NewPublisher(broker, "demo/topic")

	err := pub.Put([]byte("too early"))
	require.Error(t, err)
}

func TestQueryAnsweredByQueryable(t *testing.T) {
	broker := activity.NewBroker()
	q := activity.NewQueryable(broker, "demo/query", func(req []byte) ([]byte, error) {
		return append([]byte("echo:"), req...), nil
	})
	require.NoError(t, lifecycle.Manage(q, lifecycle.Active))
	defer func() { require.NoError(t, lifecycle.Manage(q, lifecycle.Created)) }()

	resp, err := broker.Query("demo/query", []byte("ping"), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte("echo:ping"), resp)
}

func TestQueryTimesOutAfterBoundedAttempts(t *testing.T) {
	broker := activity.NewBroker()

	start := time.Now()
	_, err := broker.Query("nobody/home", nil, time.Millisecond)
	elapsed := time.Since(start)

	var timeoutErr *activity.QueryTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 5, timeoutErr.Attempts)
	// 5 attempts with 4 inter-attempt sleeps of one timeout each.
	assert.GreaterOrEqual(t, elapsed, 4*time.Millisecond)
}

func TestLivelinessFollowsPublisherLifecycle(t *testing.T) {
	broker := activity.NewBroker()

	events := make(chan activity.LivelinessEvent, 2)
	watcher := activity.NewLivelinessSubscriber(broker, func(ev activity.LivelinessEvent) {
		events <- ev
	})
	require.NoError(t, lifecycle.Manage(watcher, lifecycle.Active))
	defer func() { require.NoError(t, lifecycle.Manage(watcher, lifecycle.Created)) }()

	pub := activity.NewPublisher(broker, "demo/topic")
	require.NoError(t, lifecycle.Manage(pub, lifecycle.Active))

	ev := <-events
	assert.True(t, ev.Alive)
	assert.Equal(t, "demo/topic", ev.Selector)

	require.NoError(t, lifecycle.Manage(pub, lifecycle.Created))
	ev = <-events
	assert.False(t, ev.Alive)
}

func TestTimerFiresWhileActiveOnly(t *testing.T) {
	var ticks atomic.Int64
	timer := activity.NewTimer("heartbeat", time.Millisecond, func() {
		ticks.Add(1)
	})

	require.NoError(t, lifecycle.Manage(timer, lifecycle.Active))
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, lifecycle.Manage(timer, lifecycle.Created))
	settled := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load())
}

func TestObserverStreamsFeedbackAndCancels(t *testing.T) {
	started := make(chan struct{})
	results := make(chan error, 1)
	obs := activity.NewObserver("demo/long",
		func(ctx context.Context, req []byte, feedback chan<- activity.Feedback) ([]byte, error) {
			feedback <- activity.Feedback{Selector: "demo/long", Payload: []byte("working")}
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
		nil,
		func(_ []byte, err error) { results <- err },
	)

	require.NoError(t, lifecycle.Manage(obs, lifecycle.Active))
	require.NoError(t, obs.Request([]byte("go")))
	<-started

	require.NoError(t, lifecycle.Manage(obs, lifecycle.Created))
	assert.ErrorIs(t, <-results, context.Canceled)
}
