package behavior

// Fallback is the mirror of Sequence: Failure/Skipped advances; Success
// short-circuits with Success; if every child fails or skips, the node
// resets and returns Failure, or Skipped if every traversed child was
// Skipped.
type Fallback struct {
	Node
	idx        int
	allSkipped bool
}

// NewFallback constructs a Fallback control node.
func NewFallback(name string, cfg Config, children []Behavior) *Fallback {
	return &Fallback{Node: NewNode(name, cfg, children)}
}

func (f *Fallback) Tick() (Status, error) {
	if f.Status() != Running {
		f.idx = 0
		f.allSkipped = true
	}
	children := f.Children()
	for f.idx < len(children) {
		st, err := children[f.idx].Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(f.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			f.SetStatus(Running)
			return Running, nil
		case Success:
			resetChildren(children)
			f.SetStatus(Idle)
			return Success, nil
		case Failure:
			f.allSkipped = false
			f.idx++
		case Skipped:
			f.idx++
		}
	}
	resetChildren(children)
	f.SetStatus(Idle)
	if f.allSkipped {
		return Skipped, nil
	}
	return Failure, nil
}

func (f *Fallback) Halt() {
	resetChildren(f.Children())
	f.idx = 0
	f.SetStatus(Idle)
}
