package activity

import (
	"context"
	"fmt"

	"dimasbt/internal/lifecycle"
)

// Feedback is one intermediate progress report from an observable
// operation.
type Feedback struct {
	Selector string
	Payload  []byte
}

// ObservableHandler executes one long-running request. It reports progress
// through feedback (which it must not close) and honors ctx cancelation;
// its return is the operation's final response.
type ObservableHandler func(ctx context.Context, request []byte, feedback chan<- Feedback) (response []byte, err error)

// Observer is a lifecycle-managed activity driving one long-running
// request with streamed feedback and explicit cancelation. One request may
// be in flight at a time.
type Observer struct {
	lifecycle.Base
	selector   string
	handler    ObservableHandler
	onFeedback func(Feedback)
	onResult   func(response []byte, err error)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewObserver returns an Observer for selector, starting at Created.
// onFeedback and onResult may be nil.
func NewObserver(selector string, handler ObservableHandler, onFeedback func(Feedback), onResult func([]byte, error)) *Observer {
	o := &Observer{selector: selector, handler: handler, onFeedback: onFeedback, onResult: onResult}
	o.SetState(lifecycle.Created)
	return o
}

func (o *Observer) Name() string { return "observer:" + o.selector }

// Request launches the long-running operation. It fails if the observer is
// not Active or a request is already in flight.
func (o *Observer) Request(request []byte) error {
	if o.State() != lifecycle.Active {
		return fmt.Errorf("activity: observer %q request while %s", o.selector, o.State())
	}
	if o.done != nil {
		select {
		case <-o.done:
		default:
			return fmt.Errorf("activity: observer %q already has a request in flight", o.selector)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	done := make(chan struct{})
	o.done = done

	feedback := make(chan Feedback, 16)
	go func() {
		for f := range feedback {
			if o.onFeedback != nil {
				o.onFeedback(f)
			}
		}
	}()
	go func() {
		defer close(done)
		resp, err := o.handler(ctx, request, feedback)
		close(feedback)
		if o.onResult != nil {
			o.onResult(resp, err)
		}
	}()
	return nil
}

// Cancel aborts the in-flight request, if any, and waits for the handler
// to return.
func (o *Observer) Cancel() {
	if o.cancel != nil {
		o.cancel()
		<-o.done
	}
}

// Deactivate cancels any in-flight request before stepping down.
func (o *Observer) Deactivate() (lifecycle.State, error) {
	o.Cancel()
	return lifecycle.Standby, nil
}
