package behavior

// WhileDoElse has 2 or 3 children: a condition, a "do" branch, and an
// optional "else" branch. The condition is re-evaluated every tick
// (reactive): on Success it runs the "do" branch (halting "else" first if
// present); on Failure (or Skipped) it runs the "else" branch if present,
// else returns Failure outright. Completion of whichever branch ran resets
// the children.
type WhileDoElse struct {
	Node
}

// NewWhileDoElse constructs a WhileDoElse control node. children must have
// length 2 or 3.
func NewWhileDoElse(name string, cfg Config, children []Behavior) (*WhileDoElse, error) {
	if len(children) != 2 && len(children) != 3 {
		return nil, &NodeStructureError{Reason: "while_do_else: requires 2 or 3 children"}
	}
	return &WhileDoElse{Node: NewNode(name, cfg, children)}, nil
}

func (w *WhileDoElse) Tick() (Status, error) {
	children := w.Children()
	condSt, err := children[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(w.Config().Path, condSt); err != nil {
		return Failure, err
	}
	if condSt == Running {
		w.SetStatus(Running)
		return Running, nil
	}
	if condSt == Success {
		if len(children) == 3 {
			haltChild(children, 2)
		}
		return w.runBranch(children, 1)
	}
	// Failure or Skipped condition takes the else branch.
	if len(children) < 3 {
		haltChild(children, 1)
		w.SetStatus(Idle)
		return Failure, nil
	}
	haltChild(children, 1)
	return w.runBranch(children, 2)
}

func (w *WhileDoElse) runBranch(children []Behavior, idx int) (Status, error) {
	st, err := children[idx].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(w.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Running {
		w.SetStatus(Running)
		return Running, nil
	}
	resetChildren(children)
	w.SetStatus(Idle)
	return st, nil
}

func (w *WhileDoElse) Halt() {
	resetChildren(w.Children())
	w.SetStatus(Idle)
}

// IfThenElse behaves like WhileDoElse except non-reactively: once the
// condition commits to Success or Failure, the selected branch runs to
// completion across subsequent ticks without re-evaluating the condition —
// tracked via a small "which branch is committed" index.
type IfThenElse struct {
	Node
	committed int // 0 = none, 1 = "then", 2 = "else"
}

// NewIfThenElse constructs an IfThenElse control node. children must have
// length 2 or 3.
func NewIfThenElse(name string, cfg Config, children []Behavior) (*IfThenElse, error) {
	if len(children) != 2 && len(children) != 3 {
		return nil, &NodeStructureError{Reason: "if_then_else: requires 2 or 3 children"}
	}
	return &IfThenElse{Node: NewNode(name, cfg, children)}, nil
}

func (i *IfThenElse) Tick() (Status, error) {
	children := i.Children()
	if i.committed == 0 {
		condSt, err := children[0].Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(i.Config().Path, condSt); err != nil {
			return Failure, err
		}
		switch condSt {
		case Running:
			i.SetStatus(Running)
			return Running, nil
		case Success:
			i.committed = 1
		default:
			if len(children) < 3 {
				i.SetStatus(Idle)
				return Failure, nil
			}
			i.committed = 2
		}
	}

	st, err := children[i.committed].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(i.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Running {
		i.SetStatus(Running)
		return Running, nil
	}
	resetChildren(children)
	i.committed = 0
	i.SetStatus(Idle)
	return st, nil
}

func (i *IfThenElse) Halt() {
	resetChildren(i.Children())
	i.committed = 0
	i.SetStatus(Idle)
}
