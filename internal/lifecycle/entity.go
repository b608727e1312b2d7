package lifecycle

// Entity is anything that participates in the operational-state ladder:
// agents, components, and activities alike. Each transition hook is asked
// to perform the work of moving one rung and returns the state it actually
// landed on, normally the expected next rung, but a hook may return
// something else (e.g. Error) to report it did not complete the step.
type Entity interface {
	State() State
	SetState(State)
	ActivationState() State
	SetActivationState(State)

	Configure() (State, error)
	Commission() (State, error)
	Wakeup() (State, error)
	Activate() (State, error)
	Deactivate() (State, error)
	Suspend() (State, error)
	Decommission() (State, error)
	Deconfigure() (State, error)

	// SubEntities returns this entity's direct children in declaration
	// order, recursed into by Manage before (stepping up) or after
	// (stepping down) self.
	SubEntities() []Entity
}

// Base is the embeddable default implementation of Entity: plain
// monotonic transitions with no side effect beyond landing on the next
// rung, and no sub-entities. Aggregates (Component, Agent) embed Base and
// override SubEntities; leaf activities can use Base's transitions as-is
// or override the ones that need real setup/teardown work.
type Base struct {
	state      State
	activation State
}

func (b *Base) State() State              { return b.state }
func (b *Base) SetState(s State)          { b.state = s }
func (b *Base) ActivationState() State    { return b.activation }
func (b *Base) SetActivationState(s State) { b.activation = s }

func (b *Base) Configure() (State, error)    { return Configured, nil }
func (b *Base) Commission() (State, error)   { return Inactive, nil }
func (b *Base) Wakeup() (State, error)       { return Standby, nil }
func (b *Base) Activate() (State, error)     { return Active, nil }
func (b *Base) Deactivate() (State, error)   { return Standby, nil }
func (b *Base) Suspend() (State, error)      { return Inactive, nil }
func (b *Base) Decommission() (State, error) { return Configured, nil }
func (b *Base) Deconfigure() (State, error)  { return Created, nil }
func (b *Base) SubEntities() []Entity        { return nil }
