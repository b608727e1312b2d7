package behavior_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/behavior"
	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
	"dimasbt/internal/script"
)

func newCfg() behavior.Config {
	return behavior.Config{
		Blackboard:  blackboard.New(),
		InputRemap:  port.NewRemapping(),
		OutputRemap: port.NewRemapping(),
	}
}

// scripted is a tiny test double that returns a scripted sequence of
// statuses, one per call to Tick (repeating the last once the plan runs
// out), counting its Tick calls in call and recording the status it held
// at each Halt, used to probe a composite's child-management contract
// without building a full leaf behavior for every scenario.
type scripted struct {
	behavior.Node
	plan     []behavior.Status
	call     int
	haltedAt []behavior.Status
}

func newScripted(name string, cfg behavior.Config, plan ...behavior.Status) *scripted {
	return &scripted{Node: behavior.NewNode(name, cfg, nil), plan: plan}
}

func (s *scripted) Tick() (behavior.Status, error) {
	i := s.call
	if i >= len(s.plan) {
		i = len(s.plan) - 1
	}
	st := s.plan[i]
	s.call++
	s.SetStatus(st)
	return st, nil
}

func (s *scripted) Halt() {
	s.haltedAt = append(s.haltedAt, s.Status())
	s.SetStatus(behavior.Idle)
}

func TestUniversalInvariant_NeverReturnsIdle(t *testing.T) {
	cfg := newCfg()
	seq := behavior.NewSequence("seq", cfg, []behavior.Behavior{
		behavior.NewAlwaysSuccess("a", cfg),
		behavior.NewAlwaysSuccess("b", cfg),
	})
	st, err := seq.Tick()
	require.NoError(t, err)
	assert.NotEqual(t, behavior.Idle, st)
}

func TestUniversalInvariant_CompletionHaltsRunningChildren(t *testing.T) {
	cfg := newCfg()
	running := newScripted("running-child", cfg, behavior.Running)
	fails := newScripted("failing-child", cfg, behavior.Failure)

	// Sequence where a later sibling fails; the earlier Running sibling
	// must never be left Running once the composite itself completes.
	seq := behavior.NewSequence("seq", cfg, []behavior.Behavior{running, fails})

	// First tick: "running" reports Running, so the sequence itself is
	// Running and "fails" is never reached.
	st, err := seq.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Running, st)

	// "running" now resolves to Success, so "fails" is ticked and the
	// sequence as a whole fails; the once-Running sibling must be halted.
	running.plan = []behavior.Status{behavior.Success}
	running.call = 0
	st, err = seq.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
	assert.Equal(t, behavior.Idle, running.Status())
}

// TestEndToEnd_SequenceShortCircuit matches scenario 1: a Sequence of three
// children where the second fails must never tick the third.
func TestEndToEnd_SequenceShortCircuit(t *testing.T) {
	cfg := newCfg()
	third := behavior.NewAlwaysSuccess("third", cfg)
	seq := behavior.NewSequence("seq", cfg, []behavior.Behavior{
		behavior.NewAlwaysSuccess("first", cfg),
		behavior.NewAlwaysFailure("second", cfg),
		third,
	})
	st, err := seq.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
	assert.Equal(t, behavior.Idle, third.Status())
}

// TestEndToEnd_ReactiveFallbackHaltsPrecedingRunning matches scenario 2: a
// ReactiveFallback whose first child is Running must halt it once a later
// tick resolves the condition and a prior sibling now succeeds outright.
func TestEndToEnd_ReactiveFallbackHaltsPrecedingRunning(t *testing.T) {
	cfg := newCfg()
	first := newScripted("first", cfg, behavior.Failure, behavior.Failure, behavior.Success)
	second := newScripted("second", cfg, behavior.Running, behavior.Running)
	fb := behavior.NewReactiveFallback("fb", cfg, []behavior.Behavior{first, second})

	st, err := fb.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Running, st)

	second.plan = append(second.plan, behavior.Running)
	st, err = fb.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Running, st)

	// Third tick: "first" now succeeds, so "second" (still Running) must
	// be halted even though it was never re-ticked this round.
	st, err = fb.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
	assert.Equal(t, behavior.Idle, second.Status())
	assert.Contains(t, second.haltedAt, behavior.Running)
}

// TestEndToEnd_ParallelFailureThreshold matches scenario 3: a Parallel with
// failure_count=3 over five children must return Failure exactly when the
// third failure lands, without waiting on the remaining children.
func TestEndToEnd_ParallelFailureThreshold(t *testing.T) {
	cfg := newCfg()
	children := []behavior.Behavior{
		behavior.NewAlwaysFailure("c0", cfg),
		behavior.NewAlwaysFailure("c1", cfg),
		newScripted("c2", cfg, behavior.Running, behavior.Failure),
		behavior.NewAlwaysSuccess("c3", cfg),
		behavior.NewAlwaysSuccess("c4", cfg),
	}
	par, err := behavior.NewParallel("par", cfg, children, 3, 3)
	require.NoError(t, err)

	st, err := par.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Running, st)

	st, err = par.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
}

// erroring is a test double whose Tick always returns an error, for
// probing how composites unwind siblings on abnormal completion.
type erroring struct {
	behavior.Node
}

func (e *erroring) Tick() (behavior.Status, error) {
	return behavior.Failure, errors.New("tick exploded")
}

func (e *erroring) Halt() { e.SetStatus(behavior.Idle) }

func TestParallel_ChildErrorHaltsRunningSiblings(t *testing.T) {
	cfg := newCfg()
	running := newScripted("running", cfg, behavior.Running)
	boom := &erroring{Node: behavior.NewNode("boom", cfg, nil)}
	par, err := behavior.NewParallel("par", cfg, []behavior.Behavior{running, boom}, -1, 1)
	require.NoError(t, err)

	// the first child sticks at Running, then the second errors out of the
	// same tick; the error must not leave the first child Running.
	_, err = par.Tick()
	require.Error(t, err)
	assert.Len(t, running.haltedAt, 1)
	assert.Equal(t, behavior.Idle, running.Status())
	assert.Equal(t, behavior.Idle, par.Status())
}

func TestParallelAll_ChildErrorHaltsRunningSiblings(t *testing.T) {
	cfg := newCfg()
	running := newScripted("running", cfg, behavior.Running)
	boom := &erroring{Node: behavior.NewNode("boom", cfg, nil)}
	par := behavior.NewParallelAll("par", cfg, []behavior.Behavior{running, boom}, 1)

	_, err := par.Tick()
	require.Error(t, err)
	assert.Len(t, running.haltedAt, 1)
	assert.Equal(t, behavior.Idle, running.Status())
	assert.Equal(t, behavior.Idle, par.Status())
}

func TestSequenceWithMemory_ResumesFromFailedChild(t *testing.T) {
	cfg := newCfg()
	first := newScripted("first", cfg, behavior.Success)
	second := newScripted("second", cfg, behavior.Failure, behavior.Success)
	third := behavior.NewAlwaysSuccess("third", cfg)

	seq := behavior.NewSequenceWithMemory("seq", cfg, []behavior.Behavior{first, second, third})

	st, err := seq.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
	assert.Equal(t, 1, first.call) // first only ticked once, not re-run

	st, err = seq.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
	assert.Equal(t, 1, first.call) // still not re-ticked on resume
}

func TestRepeat_ExhaustsCyclesAndReturnsSuccess(t *testing.T) {
	cfg := newCfg()
	child := behavior.NewAlwaysSuccess("child", cfg)
	rep, err := behavior.NewRepeat("rep", cfg, []behavior.Behavior{child}, 3)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		st, err := rep.Tick()
		require.NoError(t, err)
		assert.Equal(t, behavior.Running, st)
	}
	st, err := rep.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestRepeat_FailureResetsCounter(t *testing.T) {
	cfg := newCfg()
	child := newScripted("child", cfg, behavior.Success, behavior.Failure)
	rep, err := behavior.NewRepeat("rep", cfg, []behavior.Behavior{child}, 5)
	require.NoError(t, err)

	st, err := rep.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Running, st)

	st, err = rep.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
}

func TestRetryUntilSuccessful_LoopsWithinOneTick(t *testing.T) {
	cfg := newCfg()
	child := newScripted("child", cfg, behavior.Failure, behavior.Failure, behavior.Success)
	retry, err := behavior.NewRetryUntilSuccessful("retry", cfg, []behavior.Behavior{child}, 5)
	require.NoError(t, err)

	st, err := retry.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
	assert.Equal(t, 3, child.call)
}

func TestRunOnce_CachesFirstResultAndSkipsAfter(t *testing.T) {
	cfg := newCfg()
	child := newScripted("child", cfg, behavior.Success)
	once, err := behavior.NewRunOnce("once", cfg, []behavior.Behavior{child}, true)
	require.NoError(t, err)

	st, err := once.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)

	st, err = once.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Skipped, st)
	assert.Equal(t, 1, child.call)
}

func TestInverter_SwapsSuccessAndFailure(t *testing.T) {
	cfg := newCfg()
	inv, err := behavior.NewInverter("inv", cfg, []behavior.Behavior{behavior.NewAlwaysSuccess("c", cfg)})
	require.NoError(t, err)
	st, err := inv.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
}

func TestScriptCondition_EvaluatesTruthiness(t *testing.T) {
	cfg := newCfg()
	require.NoError(t, script.Run("var threshold = 10;", cfg.Blackboard))
	cond := behavior.NewScriptCondition("cond", cfg, "threshold > 5")
	st, err := cond.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestSetBlackboard_WritesThroughOutputRemap(t *testing.T) {
	cfg := newCfg()
	require.NoError(t, cfg.OutputRemap.(*port.Remapping).Set("out", "message"))
	set := behavior.NewSetBlackboard("set", cfg, "out", "hello")
	st, err := set.Tick()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)

	got, err := blackboard.Get[string](cfg.Blackboard, "message")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestRegistry_BuiltinsAndExtendedRegisterWithoutDuplicates(t *testing.T) {
	r := behavior.NewRegistry()
	require.NoError(t, behavior.RegisterBuiltins(r))
	require.NoError(t, behavior.RegisterExtended(r))

	m, ctor, ok := r.Lookup("Parallel")
	require.True(t, ok)
	assert.Equal(t, behavior.Control, m.Category)
	assert.NotNil(t, ctor)

	_, _, ok = r.Lookup("NotRegistered")
	assert.False(t, ok)
}
