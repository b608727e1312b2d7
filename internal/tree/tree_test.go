package tree_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/behavior"
	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
	"dimasbt/internal/tree"
)

func newCfg() behavior.Config {
	return behavior.Config{
		Blackboard:  blackboard.New(),
		InputRemap:  port.NewRemapping(),
		OutputRemap: port.NewRemapping(),
	}
}

func TestTickOnce(t *testing.T) {
	cfg := newCfg()
	root := behavior.NewSequence("seq", cfg, []behavior.Behavior{
		behavior.NewAlwaysSuccess("a", cfg),
	})
	bt := tree.New(root)

	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestSubtreeHandleOrdering(t *testing.T) {
	cfg := newCfg()
	main := behavior.NewAlwaysSuccess("main", cfg)
	nested := behavior.NewAlwaysSuccess("nested", cfg)
	bt := tree.New(main, main, nested)

	root, err := bt.Subtree(0)
	require.NoError(t, err)
	assert.Same(t, main, root)

	sub, err := bt.Subtree(1)
	require.NoError(t, err)
	assert.Same(t, nested, sub)

	_, err = bt.Subtree(2)
	assert.Error(t, err)
}

func TestTickWhileRunningCompletesAndHalts(t *testing.T) {
	cfg := newCfg()
	root := behavior.NewSequence("seq", cfg, []behavior.Behavior{
		behavior.NewAlwaysSuccess("a", cfg),
	})
	bt := tree.New(root)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := bt.TickWhileRunning(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
	assert.Equal(t, behavior.Idle, root.Status())
}

func TestTickWhileRunningStopsOnContextCancel(t *testing.T) {
	cfg := newCfg()
	spin := behavior.NewNode("spin", cfg, nil)
	runner := &alwaysRunning{Node: spin}
	bt := tree.New(runner)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := bt.TickWhileRunning(ctx, 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type alwaysRunning struct {
	behavior.Node
}

func (r *alwaysRunning) Tick() (behavior.Status, error) {
	r.SetStatus(behavior.Running)
	return behavior.Running, nil
}

func (r *alwaysRunning) Halt() {
	r.SetStatus(behavior.Idle)
}
