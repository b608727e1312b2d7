package behavior

import "dimasbt/internal/blackboard"

// Manifest is the static, immutable-after-registration metadata attached to
// a registered behavior type: its category, the registration id it was
// registered under, its declared ports, and a human description.
type Manifest struct {
	Category       Category
	RegistrationID string
	Ports          PortLister
	Description    string
}

// PortLister is satisfied by port.List; declared here rather than imported
// directly so this package does not need to know port.List's internals
// beyond what a manifest must expose.
type PortLister interface {
	Names() []string
}

// Config is the per-instance wiring a constructor receives: the blackboard
// scope it executes against, its input/output port remaps, a pointer to its
// manifest, a unique id, and its fully qualified path (ancestor names joined
// by "->", used in diagnostics and subtree loop detection).
type Config struct {
	Blackboard   *blackboard.Blackboard
	InputRemap   Remapper
	OutputRemap  Remapper
	Manifest     *Manifest
	UID          string
	Path         string
	InstanceName string
}

// Remapper is satisfied by *port.Remapping.
type Remapper interface {
	Get(local string) (string, bool)
}

// Behavior is the contract every tree node satisfies: composites,
// decorators and leaves alike share tick/halt/status/children, matching the
// source's function-pointer table with Go interface dispatch instead.
type Behavior interface {
	Name() string
	Config() *Config
	Status() Status
	SetStatus(Status)
	Children() []Behavior
	Tick() (Status, error)
	Halt()
}

// Node is the common embeddable state every Behavior implementation shares:
// its instance name, its wiring, its current status and its child list.
// Composite- or decorator-specific cursors (running index, all-skipped
// flag, retry counters) live on the wrapping type, not here, since they are
// reset on entry from Idle rather than carried across the whole tree.
type Node struct {
	name     string
	config   Config
	status   Status
	children []Behavior
}

// NewNode builds the common embeddable state for a behavior instance.
func NewNode(name string, config Config, children []Behavior) Node {
	return Node{name: name, config: config, children: children}
}

func (n *Node) Name() string         { return n.name }
func (n *Node) Config() *Config      { return &n.config }
func (n *Node) Status() Status       { return n.status }
func (n *Node) SetStatus(s Status)   { n.status = s }
func (n *Node) Children() []Behavior { return n.children }

// haltChild halts children[i] if it is Running, then resets its status to
// Idle.
func haltChild(children []Behavior, i int) {
	c := children[i]
	if c.Status() == Running {
		c.Halt()
	}
	c.SetStatus(Idle)
}

// resetChildren halts every child from index 0, used whenever a composite
// or decorator completes (Success/Failure) and must leave all descendants
// Idle for the next tick.
func resetChildren(children []Behavior) {
	for i := range children {
		haltChild(children, i)
	}
}

// checkNotIdle turns a child's Idle return into the contract-violation
// error every composite must raise rather than silently propagate.
func checkNotIdle(path string, s Status) error {
	if s == Idle {
		return &IdleStatusError{Path: path}
	}
	return nil
}
