package lifecycle

// Component is an aggregated Entity owning a declaration-ordered list of
// sub-entities, stepped by Manage in that order on the way up and in
// reverse on the way down. It carries no behavior of its own beyond the
// default ladder transitions, the agent's root component wraps the
// running behavior tree, and a component's sub-entities are whatever
// external activities (publishers, subscribers, timers) were registered
// under it.
type Component struct {
	Base
	name string
	subs []Entity
}

// NewComponent returns a Component named name, starting at Created, owning
// subs as its sub-entities in the given order.
func NewComponent(name string, subs ...Entity) *Component {
	c := &Component{name: name, subs: subs}
	c.SetState(Created)
	return c
}

// Name returns the component's name, used in diagnostics.
func (c *Component) Name() string { return c.name }

// SubEntities returns the component's sub-entities in declaration order.
func (c *Component) SubEntities() []Entity { return c.subs }

// AddSubEntity appends e to the component's sub-entity list. Intended for
// use before the component first steps past Created; adding a sub-entity
// to an already-Active component does not itself bring it up to Active —
// a subsequent Manage call with the same target does.
func (c *Component) AddSubEntity(e Entity) {
	c.subs = append(c.subs, e)
}
