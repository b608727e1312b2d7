// Package agent wires a BehaviorTree into the operational-state lifecycle:
// the Agent is the root Entity a host process manages up to Active (which
// starts the tick loop) and back down to Created (which stops it).
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"dimasbt/internal/behavior"
	"dimasbt/internal/lifecycle"
	"dimasbt/internal/logging"
	"dimasbt/internal/tree"
)

// Agent owns a BehaviorTree and any external activities registered under
// it, stepping them through the lifecycle ladder as one Entity tree rooted
// at itself.
type Agent struct {
	lifecycle.Base

	name         string
	tree         *tree.BehaviorTree
	tickInterval time.Duration
	activities   []lifecycle.Entity

	mu         sync.Mutex
	cancel     context.CancelFunc
	group      *errgroup.Group
	done       chan struct{}
	lastStatus behavior.Status

	log *logging.Logger
}

// New returns an Agent named name driving t, ticking at tickInterval once
// Active, with activities as additional sub-entities stepped alongside the
// tree (registered before the Agent is first activated).
func New(name string, t *tree.BehaviorTree, tickInterval time.Duration, activities ...lifecycle.Entity) *Agent {
	a := &Agent{name: name, tree: t, tickInterval: tickInterval, activities: activities}
	a.SetState(lifecycle.Created)
	a.log = logging.Get(logging.CategoryAgent)
	return a
}

// Name returns the agent's name, used in diagnostics and audit events.
func (a *Agent) Name() string { return a.name }

// SubEntities returns the agent's registered activities. The tree itself is
// not an Entity, it is driven directly by Activate/Deactivate below, so it
// is not listed here.
func (a *Agent) SubEntities() []lifecycle.Entity { return a.activities }

// Activate starts the tick loop in a supervised goroutine and reports
// Active immediately; loop failures surface through Run's returned error,
// not through this call.
func (a *Agent) Activate() (lifecycle.State, error) {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	a.mu.Lock()
	a.cancel = cancel
	a.group = g
	a.done = done
	a.mu.Unlock()

	runID := uuid.NewString()
	g.Go(func() error {
		defer close(done)
		logging.Audit(logging.AuditEvent{RunID: runID, Type: logging.AuditTreeStarted, Path: a.name, TS: time.Now().UnixMilli()})
		status, err := a.tree.TickWhileRunning(gctx, a.tickInterval)
		a.mu.Lock()
		a.lastStatus = status
		a.mu.Unlock()
		logging.Audit(logging.AuditEvent{RunID: runID, Type: logging.AuditStatusChanged, Path: a.name, Status: status.String(), TS: time.Now().UnixMilli()})
		if err != nil && gctx.Err() == nil {
			a.log.Error("tree run failed: %v", err)
			return err
		}
		a.log.Info("tree completed with status %s", status)
		return nil
	})

	a.log.Info("agent %s activated", a.name)
	return lifecycle.Active, nil
}

// Deactivate cancels the tick loop, waits for it to return (or for the
// tree's own halt to settle), and reports the errgroup's outcome.
func (a *Agent) Deactivate() (lifecycle.State, error) {
	a.mu.Lock()
	cancel, g := a.cancel, a.group
	a.mu.Unlock()

	if cancel == nil {
		return lifecycle.Standby, nil
	}
	a.tree.Halt()
	cancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		return lifecycle.Standby, fmt.Errorf("agent: tick loop: %w", err)
	}
	a.log.Info("agent %s deactivated", a.name)
	return lifecycle.Standby, nil
}

// Run manages the agent up to Active, blocks until ctx is canceled or the
// tick loop finishes, then steps back down to Created, the full
// boot-to-shutdown cycle a host's main function drives.
func (a *Agent) Run(ctx context.Context, shutdownGrace time.Duration) error {
	if err := lifecycle.Manage(a, lifecycle.Active); err != nil {
		return fmt.Errorf("agent: activation: %w", err)
	}

	a.mu.Lock()
	done := a.done
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		a.log.Info("agent %s received shutdown signal", a.name)
	case <-done:
		a.log.Info("agent %s tick loop finished", a.name)
	}

	downCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	downDone := make(chan error, 1)
	go func() { downDone <- lifecycle.Manage(a, lifecycle.Created) }()

	select {
	case err := <-downDone:
		if err != nil {
			return fmt.Errorf("agent: shutdown: %w", err)
		}
		return nil
	case <-downCtx.Done():
		return fmt.Errorf("agent: shutdown grace period exceeded")
	}
}

// Status returns the tree's most recent completion status once the tick
// loop has finished, or the root's live status while it is still running —
// a convenience for CLI/UI callers that don't need the full Entity
// surface. The distinction matters because halting a completed tree
// resets its root to Idle; the returned result is the loop's, not the
// node's.
func (a *Agent) Status() behavior.Status {
	a.mu.Lock()
	done, last := a.done, a.lastStatus
	a.mu.Unlock()
	if done != nil {
		select {
		case <-done:
			return last
		default:
		}
	}
	return a.tree.Root().Status()
}
