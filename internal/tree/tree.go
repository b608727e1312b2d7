// Package tree implements the top-level BehaviorTree: the owner of a root
// subtree node (and any other subtree roots reachable from it) that drives
// execution with tick_once/tick_while_running and propagates halt/reset.
package tree

import (
	"context"
	"time"

	"dimasbt/internal/behavior"
)

// Handle identifies one subtree root within a BehaviorTree, in the order
// the factory instantiated them (main tree first).
type Handle int

// BehaviorTree owns the root node produced by the XML factory and the full
// list of subtree roots (including the main tree itself at index 0),
// exposing the tick/halt/reset surface the host drives.
type BehaviorTree struct {
	root     behavior.Behavior
	subtrees []behavior.Behavior
}

// New wraps root as a BehaviorTree. subtrees, if given, lists every
// subtree root the factory instantiated (root included, conventionally at
// index 0) so callers can address one directly via Subtree.
func New(root behavior.Behavior, subtrees ...behavior.Behavior) *BehaviorTree {
	if len(subtrees) == 0 {
		subtrees = []behavior.Behavior{root}
	}
	return &BehaviorTree{root: root, subtrees: subtrees}
}

// Root returns the tree's root node.
func (t *BehaviorTree) Root() behavior.Behavior { return t.root }

// Subtree returns the subtree root registered at index.
func (t *BehaviorTree) Subtree(h Handle) (behavior.Behavior, error) {
	if h < 0 || int(h) >= len(t.subtrees) {
		return nil, &behavior.IndexOutOfBoundsError{Index: int(h)}
	}
	return t.subtrees[h], nil
}

// TickOnce invokes the root's tick exactly once and returns its result.
func (t *BehaviorTree) TickOnce() (behavior.Status, error) {
	return t.root.Tick()
}

// Halt halts the root, recursively halting every Running descendant and
// resetting their status to Idle.
func (t *BehaviorTree) Halt() {
	if t.root.Status() == behavior.Running {
		t.root.Halt()
	}
	t.root.SetStatus(behavior.Idle)
}

// Reset halts the root, clearing all Running children.
func (t *BehaviorTree) Reset() {
	t.Halt()
}

// TickWhileRunning loops tick_once until the root completes (Success or
// Failure), halting it before returning. Idle and Running both continue
// the loop. Wake-up conditions and back-off scheduling belong to the
// host, so between iterations this sleeps for interval (the agent-level
// tick interval from configuration) or returns early if ctx is canceled,
// the one suspension point this loop defines.
func (t *BehaviorTree) TickWhileRunning(ctx context.Context, interval time.Duration) (behavior.Status, error) {
	for {
		status, err := t.TickOnce()
		if err != nil {
			t.Halt()
			return status, err
		}
		if status.IsCompleted() {
			t.Halt()
			return status, nil
		}
		if interval <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			t.Halt()
			return t.root.Status(), ctx.Err()
		case <-time.After(interval):
		}
	}
}
