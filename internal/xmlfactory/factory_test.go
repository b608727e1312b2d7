package xmlfactory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/behavior"
	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
	"dimasbt/internal/xmlfactory"
)

// testRegistry builds a behavior.Registry carrying the required builtins
// plus a handful of leaves useful for exercising the factory end to end:
// AlwaysSuccess/AlwaysFailure (no ports), SetBlackboard (declared input
// and output ports) and ScriptCondition (a raw "code" param, no declared
// ports).
func testRegistry(t *testing.T) *behavior.Registry {
	t.Helper()
	r := behavior.NewRegistry()
	require.NoError(t, r.Register("AlwaysSuccess", behavior.Action, port.List{}, "", func(name string, cfg behavior.Config, _ []behavior.Behavior, _ map[string]string) (behavior.Behavior, error) {
		return behavior.NewAlwaysSuccess(name, cfg), nil
	}))
	require.NoError(t, r.Register("AlwaysFailure", behavior.Action, port.List{}, "", func(name string, cfg behavior.Config, _ []behavior.Behavior, _ map[string]string) (behavior.Behavior, error) {
		return behavior.NewAlwaysFailure(name, cfg), nil
	}))
	outPort, err := port.NewDefinition(port.Out, "string", "output_key", "")
	require.NoError(t, err)
	valuePort, err := port.NewDefinition(port.In, "string", "value", "")
	require.NoError(t, err)
	outPorts, err := port.NewList(outPort, valuePort)
	require.NoError(t, err)
	require.NoError(t, r.Register("SetBlackboard", behavior.Action, outPorts, "", func(name string, cfg behavior.Config, _ []behavior.Behavior, params map[string]string) (behavior.Behavior, error) {
		return behavior.NewSetBlackboard(name, cfg, "output_key", params["value"]), nil
	}))
	require.NoError(t, r.Register("ScriptCondition", behavior.Condition, port.List{}, "", func(name string, cfg behavior.Config, _ []behavior.Behavior, params map[string]string) (behavior.Behavior, error) {
		return behavior.NewScriptCondition(name, cfg, params["code"]), nil
	}))
	require.NoError(t, behavior.RegisterBuiltins(r))
	require.NoError(t, behavior.RegisterExtended(r))
	return r
}

func TestBuildSequenceShortCircuit(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <Sequence>
      <AlwaysFailure/>
      <AlwaysSuccess/>
    </Sequence>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)

	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
}

func TestBuildReactiveFallbackSucceedsOnLaterChild(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <ReactiveFallback>
      <AlwaysFailure/>
      <AlwaysSuccess/>
    </ReactiveFallback>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)

	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestBuildParallelThreshold(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <Parallel success_count="2" failure_count="1">
      <AlwaysSuccess/>
      <AlwaysSuccess/>
      <AlwaysFailure/>
    </Parallel>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)

	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestBuildSubtreeRemap(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <Sequence>
      <SubTree ID="Producer" result="{final_value}"/>
      <ScriptCondition code="final_value == '42'"/>
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="Producer">
    <SetBlackboard output_key="{result}" value="42"/>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)

	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)
}

func TestBuildSubtreeInputRemapTracksParentUpdates(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <Sequence>
      <AlwaysSuccess/>
      <SubTree ID="Reader" y="{x}"/>
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="Reader">
    <ScriptCondition code="y == '42'"/>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)

	_, err = blackboard.Set(bt.Root().Config().Blackboard, "x", "42")
	require.NoError(t, err)
	st, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, st)

	// the subtree reads through the remap, so rebinding x in the parent
	// scope is visible on the very next tick.
	_, err = blackboard.Set(bt.Root().Config().Blackboard, "x", "17")
	require.NoError(t, err)
	st, err = bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Failure, st)
}

func TestBuildLoopDetected(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <SubTree ID="Main"/>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	_, err := f.Build(xml)
	require.Error(t, err)
	var loopErr *xmlfactory.LoopDetectedError
	assert.ErrorAs(t, err, &loopErr)
}

func TestBuildUnknownBehaviorErrors(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <NotRegistered/>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	_, err := f.Build(xml)
	require.Error(t, err)
	var unknownErr *xmlfactory.UnknownBehaviorError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestCanonicalizeCollapsesWhitespaceAndEqualsSpacing(t *testing.T) {
	raw := "<root   BTCPP_format = \"4\"\n  main_tree_to_execute=\"Main\" >\n</root>"
	got := xmlfactory.Canonicalize(raw)
	assert.Equal(t, `<root BTCPP_format="4" main_tree_to_execute="Main" > </root>`, got)
}

func TestBlackboardDumpReachableAfterBuild(t *testing.T) {
	xml := `
<root BTCPP_format="4" main_tree_to_execute="Main">
  <BehaviorTree ID="Main">
    <SetBlackboard output_key="count" value="7"/>
  </BehaviorTree>
</root>`
	f := xmlfactory.New(testRegistry(t))
	bt, err := f.Build(xml)
	require.NoError(t, err)
	_, err = bt.TickOnce()
	require.NoError(t, err)

	bb := bt.Root().Config().Blackboard
	v, err := blackboard.Get[string](bb, "count")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}
