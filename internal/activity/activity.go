package activity

import (
	"context"
	"fmt"
	"time"

	"dimasbt/internal/lifecycle"
)

// QueryTimeoutError reports that every attempt against a queryable's
// selector expired or found no queryable registered.
type QueryTimeoutError struct {
	Selector string
	Attempts int
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("activity: query on %q timed out after %d attempts", e.Selector, e.Attempts)
}

// Publisher is a lifecycle-managed activity that puts and deletes payloads
// under one selector. Activation announces liveliness on the broker;
// deactivation withdraws it.
type Publisher struct {
	lifecycle.Base
	broker   *Broker
	selector string
}

// NewPublisher returns a Publisher for selector on broker, starting at
// Created.
func NewPublisher(broker *Broker, selector string) *Publisher {
	p := &Publisher{broker: broker, selector: selector}
	p.SetState(lifecycle.Created)
	return p
}

func (p *Publisher) Name() string { return "publisher:" + p.selector }

// Activate announces the publisher's liveliness.
func (p *Publisher) Activate() (lifecycle.State, error) {
	p.broker.announce(p.selector, true)
	return lifecycle.Active, nil
}

// Deactivate withdraws the publisher's liveliness.
func (p *Publisher) Deactivate() (lifecycle.State, error) {
	p.broker.announce(p.selector, false)
	return lifecycle.Standby, nil
}

// Put publishes payload under the publisher's selector. Only valid while
// Active.
func (p *Publisher) Put(payload []byte) error {
	if p.State() != lifecycle.Active {
		return fmt.Errorf("activity: publisher %q put while %s", p.selector, p.State())
	}
	p.broker.put(p.selector, payload)
	return nil
}

// Delete publishes a deletion under the publisher's selector.
func (p *Publisher) Delete() error {
	if p.State() != lifecycle.Active {
		return fmt.Errorf("activity: publisher %q delete while %s", p.selector, p.State())
	}
	p.broker.delete(p.selector)
	return nil
}

// Subscriber is a lifecycle-managed activity receiving put and delete
// callbacks for one selector. Callbacks run on a dedicated goroutine
// started by Activate and stopped by Deactivate, so a slow callback never
// blocks a publisher.
type Subscriber struct {
	lifecycle.Base
	broker   *Broker
	selector string
	onPut    func(Message)
	onDelete func(Message)

	inbox  chan inboxItem
	cancel context.CancelFunc
	done   chan struct{}
}

type inboxItem struct {
	msg     Message
	deleted bool
}

// NewSubscriber returns a Subscriber for selector on broker, starting at
// Created. Either callback may be nil.
func NewSubscriber(broker *Broker, selector string, onPut, onDelete func(Message)) *Subscriber {
	s := &Subscriber{broker: broker, selector: selector, onPut: onPut, onDelete: onDelete}
	s.SetState(lifecycle.Created)
	return s
}

func (s *Subscriber) Name() string { return "subscriber:" + s.selector }

func (s *Subscriber) deliver(msg Message, deleted bool) {
	select {
	case s.inbox <- inboxItem{msg: msg, deleted: deleted}:
	default:
	}
}

// Activate attaches the subscriber to its broker and starts the callback
// loop.
func (s *Subscriber) Activate() (lifecycle.State, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s.inbox = make(chan inboxItem, 16)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.broker.subscribe(s)

	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case item := <-s.inbox:
				if item.deleted {
					if s.onDelete != nil {
						s.onDelete(item.msg)
					}
				} else if s.onPut != nil {
					s.onPut(item.msg)
				}
			}
		}
	}()
	return lifecycle.Active, nil
}

// Deactivate detaches from the broker and stops the callback loop, waiting
// for it to drain.
func (s *Subscriber) Deactivate() (lifecycle.State, error) {
	s.broker.unsubscribe(s)
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	return lifecycle.Standby, nil
}

// Queryable is a lifecycle-managed activity answering requests addressed to
// one selector.
type Queryable struct {
	lifecycle.Base
	broker   *Broker
	selector string
	handler  QueryHandler
}

// NewQueryable returns a Queryable for selector on broker, starting at
// Created.
func NewQueryable(broker *Broker, selector string, handler QueryHandler) *Queryable {
	q := &Queryable{broker: broker, selector: selector, handler: handler}
	q.SetState(lifecycle.Created)
	return q
}

func (q *Queryable) Name() string { return "queryable:" + q.selector }

// Activate registers the handler on the broker.
func (q *Queryable) Activate() (lifecycle.State, error) {
	q.broker.registerQueryable(q.selector, q.handler)
	return lifecycle.Active, nil
}

// Deactivate unregisters the handler.
func (q *Queryable) Deactivate() (lifecycle.State, error) {
	q.broker.unregisterQueryable(q.selector)
	return lifecycle.Standby, nil
}

// LivelinessSubscriber is a lifecycle-managed activity notified when
// publishers appear or disappear.
type LivelinessSubscriber struct {
	lifecycle.Base
	broker *Broker
	onPut  func(LivelinessEvent)
}

// NewLivelinessSubscriber returns a LivelinessSubscriber on broker,
// starting at Created.
func NewLivelinessSubscriber(broker *Broker, onEvent func(LivelinessEvent)) *LivelinessSubscriber {
	l := &LivelinessSubscriber{broker: broker, onPut: onEvent}
	l.SetState(lifecycle.Created)
	return l
}

func (l *LivelinessSubscriber) Name() string { return "liveliness" }

func (l *LivelinessSubscriber) deliver(ev LivelinessEvent) {
	if l.State() == lifecycle.Active && l.onPut != nil {
		l.onPut(ev)
	}
}

// Activate attaches to the broker's liveliness feed.
func (l *LivelinessSubscriber) Activate() (lifecycle.State, error) {
	l.broker.watchLiveliness(l)
	return lifecycle.Active, nil
}

// Deactivate detaches from the feed.
func (l *LivelinessSubscriber) Deactivate() (lifecycle.State, error) {
	l.broker.unwatchLiveliness(l)
	return lifecycle.Standby, nil
}

// Timer is a lifecycle-managed interval timer invoking a callback on its
// own goroutine while Active.
type Timer struct {
	lifecycle.Base
	name     string
	interval time.Duration
	onTick   func()

	cancel context.CancelFunc
	done   chan struct{}
}

// NewTimer returns a Timer named name firing onTick every interval once
// Active, starting at Created.
func NewTimer(name string, interval time.Duration, onTick func()) *Timer {
	t := &Timer{name: name, interval: interval, onTick: onTick}
	t.SetState(lifecycle.Created)
	return t
}

func (t *Timer) Name() string { return "timer:" + t.name }

// Activate starts the timer goroutine.
func (t *Timer) Activate() (lifecycle.State, error) {
	if t.interval <= 0 {
		return lifecycle.Error, fmt.Errorf("activity: timer %q has non-positive interval", t.name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.onTick()
			}
		}
	}()
	return lifecycle.Active, nil
}

// Deactivate stops the timer goroutine and waits for it to return.
func (t *Timer) Deactivate() (lifecycle.State, error) {
	if t.cancel != nil {
		t.cancel()
		<-t.done
	}
	return lifecycle.Standby, nil
}
