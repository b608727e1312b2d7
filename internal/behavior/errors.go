package behavior

// IdleStatusError reports a leaf or composite returning Idle from a tick,
// which is always a contract violation.
type IdleStatusError struct{ Path string }

func (e *IdleStatusError) Error() string { return "behavior: " + e.Path + " returned Idle" }

// ChildrenNotAllowedError reports an Action or Condition given children.
type ChildrenNotAllowedError struct{ Category string }

func (e *ChildrenNotAllowedError) Error() string {
	return "behavior: children not allowed on " + e.Category
}

// DecoratorChildrenError reports a decorator not given exactly one child.
type DecoratorChildrenError struct{ Name string }

func (e *DecoratorChildrenError) Error() string {
	return "behavior: decorator " + e.Name + " requires exactly one child"
}

// NodeStructureError reports any other structural malformation.
type NodeStructureError struct{ Reason string }

func (e *NodeStructureError) Error() string { return "behavior: " + e.Reason }

// IndexOutOfBoundsError reports an out-of-range child or subtree index.
type IndexOutOfBoundsError struct{ Index int }

func (e *IndexOutOfBoundsError) Error() string {
	return "behavior: index out of bounds"
}

// ReactiveMultipleRunningError reports a second child returning Running
// within a single reactive composite's tick, which violates its contract.
type ReactiveMultipleRunningError struct{ Path string }

func (e *ReactiveMultipleRunningError) Error() string {
	return "behavior: " + e.Path + " had more than one child Running in the same tick"
}
