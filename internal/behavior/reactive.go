package behavior

// ReactiveSequence re-evaluates every child from the first on every tick,
// rather than resuming from a cached index: conditions that depend on
// fresh blackboard state are re-checked each time. A child returning
// Running halts every preceding child (already-completed this pass) and
// the node returns Running; a Failure halts all children and returns
// Failure; a Skipped child is halted and the scan advances; a full pass of
// non-Failure results returns Success, or Skipped if every child skipped.
type ReactiveSequence struct {
	Node
}

// NewReactiveSequence constructs a ReactiveSequence control node.
func NewReactiveSequence(name string, cfg Config, children []Behavior) *ReactiveSequence {
	return &ReactiveSequence{Node: NewNode(name, cfg, children)}
}

func (r *ReactiveSequence) Tick() (Status, error) {
	children := r.Children()
	allSkipped := true
	for i, c := range children {
		st, err := c.Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(r.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			for j := 0; j < i; j++ {
				haltChild(children, j)
			}
			r.SetStatus(Running)
			return Running, nil
		case Failure:
			resetChildren(children)
			r.SetStatus(Idle)
			return Failure, nil
		case Skipped:
			haltChild(children, i)
		case Success:
			allSkipped = false
		}
	}
	resetChildren(children)
	r.SetStatus(Idle)
	if allSkipped {
		return Skipped, nil
	}
	return Success, nil
}

func (r *ReactiveSequence) Halt() {
	resetChildren(r.Children())
	r.SetStatus(Idle)
}

// ReactiveFallback is the dual of ReactiveSequence: Running halts preceding
// children and short-circuits with Running; Success halts all children and
// short-circuits with Success; Failure advances; a Skipped child is halted
// and the scan advances. A full pass returns Skipped if every child
// skipped, else Failure.
type ReactiveFallback struct {
	Node
}

// NewReactiveFallback constructs a ReactiveFallback control node.
func NewReactiveFallback(name string, cfg Config, children []Behavior) *ReactiveFallback {
	return &ReactiveFallback{Node: NewNode(name, cfg, children)}
}

func (r *ReactiveFallback) Tick() (Status, error) {
	children := r.Children()
	allSkipped := true
	for i, c := range children {
		st, err := c.Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(r.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			for j := 0; j < i; j++ {
				haltChild(children, j)
			}
			r.SetStatus(Running)
			return Running, nil
		case Success:
			resetChildren(children)
			r.SetStatus(Idle)
			return Success, nil
		case Skipped:
			haltChild(children, i)
		case Failure:
			allSkipped = false
		}
	}
	resetChildren(children)
	r.SetStatus(Idle)
	if allSkipped {
		return Skipped, nil
	}
	return Failure, nil
}

func (r *ReactiveFallback) Halt() {
	resetChildren(r.Children())
	r.SetStatus(Idle)
}
