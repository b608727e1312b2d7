package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/lifecycle"
)

// order records the sequence in which hooks fire across a whole entity
// tree, so step ordering (children-then-self on the way up, self-then-
// children-reversed on the way down) can be asserted directly.
type order struct {
	events *[]string
	lifecycle.Base
	name string
	subs []lifecycle.Entity
}

func newOrder(events *[]string, name string, subs ...lifecycle.Entity) *order {
	o := &order{events: events, name: name, subs: subs}
	o.SetState(lifecycle.Created)
	return o
}

func (o *order) SubEntities() []lifecycle.Entity { return o.subs }

func (o *order) Configure() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":configure")
	return lifecycle.Configured, nil
}
func (o *order) Commission() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":commission")
	return lifecycle.Inactive, nil
}
func (o *order) Wakeup() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":wakeup")
	return lifecycle.Standby, nil
}
func (o *order) Activate() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":activate")
	return lifecycle.Active, nil
}
func (o *order) Deactivate() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":deactivate")
	return lifecycle.Standby, nil
}
func (o *order) Suspend() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":suspend")
	return lifecycle.Inactive, nil
}
func (o *order) Decommission() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":decommission")
	return lifecycle.Configured, nil
}
func (o *order) Deconfigure() (lifecycle.State, error) {
	*o.events = append(*o.events, o.name+":deconfigure")
	return lifecycle.Created, nil
}

func TestManageStepsOneRungAtATime(t *testing.T) {
	var events []string
	child := newOrder(&events, "child")
	root := newOrder(&events, "root", child)

	require.NoError(t, lifecycle.Manage(root, lifecycle.Active))
	assert.Equal(t, lifecycle.Active, root.State())
	assert.Equal(t, []string{
		"child:configure", "root:configure",
		"child:commission", "root:commission",
		"child:wakeup", "root:wakeup",
		"child:activate", "root:activate",
	}, events)
}

func TestManageStepsDownReverseOrder(t *testing.T) {
	var events []string
	a := newOrder(&events, "a")
	b := newOrder(&events, "b")
	root := newOrder(&events, "root", a, b)
	require.NoError(t, lifecycle.Manage(root, lifecycle.Active))

	events = nil
	require.NoError(t, lifecycle.Manage(root, lifecycle.Created))
	assert.Equal(t, lifecycle.Created, root.State())
	assert.Equal(t, []string{
		"root:deactivate", "b:deactivate", "a:deactivate",
		"root:suspend", "b:suspend", "a:suspend",
		"root:decommission", "b:decommission", "a:decommission",
		"root:deconfigure", "b:deconfigure", "a:deconfigure",
	}, events)
}

func TestManageInvalidStepUpFromActive(t *testing.T) {
	var events []string
	root := newOrder(&events, "root")
	require.NoError(t, lifecycle.Manage(root, lifecycle.Active))

	err := lifecycle.Manage(root, lifecycle.Active+1)
	require.Error(t, err)
	var stepErr *lifecycle.InvalidStepError
	assert.True(t, errors.As(err, &stepErr))
}

func TestManageHookErrorMovesEntityToError(t *testing.T) {
	failing := &failingEntity{}
	failing.SetState(lifecycle.Created)
	err := lifecycle.Manage(failing, lifecycle.Configured)
	require.Error(t, err)
	assert.Equal(t, lifecycle.Error, failing.State())
}

type failingEntity struct {
	lifecycle.Base
}

func (f *failingEntity) Configure() (lifecycle.State, error) {
	return lifecycle.Error, errors.New("boom")
}
