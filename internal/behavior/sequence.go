package behavior

// Sequence ticks children left to right. Running short-circuits with
// Running; Failure short-circuits with Failure and resets all children;
// Success/Skipped advances. When every child has completed, the node
// resets and returns Success, or Skipped if every traversed child was
// Skipped. The cursor restarts from 0 whenever the node is entered with a
// status other than Running (first tick, or any tick following a prior
// completion).
type Sequence struct {
	Node
	idx        int
	allSkipped bool
}

// NewSequence constructs a Sequence control node.
func NewSequence(name string, cfg Config, children []Behavior) *Sequence {
	return &Sequence{Node: NewNode(name, cfg, children)}
}

func (s *Sequence) Tick() (Status, error) {
	if s.Status() != Running {
		s.idx = 0
		s.allSkipped = true
	}
	children := s.Children()
	for s.idx < len(children) {
		st, err := children[s.idx].Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(s.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			s.SetStatus(Running)
			return Running, nil
		case Failure:
			resetChildren(children)
			s.SetStatus(Idle)
			return Failure, nil
		case Success:
			s.allSkipped = false
			s.idx++
		case Skipped:
			s.idx++
		}
	}
	resetChildren(children)
	s.SetStatus(Idle)
	if s.allSkipped {
		return Skipped, nil
	}
	return Success, nil
}

func (s *Sequence) Halt() {
	resetChildren(s.Children())
	s.idx = 0
	s.SetStatus(Idle)
}

// SequenceWithMemory behaves like Sequence, except a Failure does not
// reset the cursor: only children already past the failing index are
// halted, so the next tick resumes from the same child rather than
// restarting the whole sequence. The cursor is cleared only on full
// success or an explicit Halt.
type SequenceWithMemory struct {
	Node
	idx        int
	allSkipped bool
}

// NewSequenceWithMemory constructs a SequenceWithMemory control node.
func NewSequenceWithMemory(name string, cfg Config, children []Behavior) *SequenceWithMemory {
	return &SequenceWithMemory{Node: NewNode(name, cfg, children)}
}

func (s *SequenceWithMemory) Tick() (Status, error) {
	if s.Status() == Idle && s.idx == 0 {
		s.allSkipped = true
	}
	children := s.Children()
	for s.idx < len(children) {
		st, err := children[s.idx].Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(s.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			s.SetStatus(Running)
			return Running, nil
		case Failure:
			for i := s.idx + 1; i < len(children); i++ {
				haltChild(children, i)
			}
			s.SetStatus(Idle)
			return Failure, nil
		case Success:
			s.allSkipped = false
			s.idx++
		case Skipped:
			s.idx++
		}
	}
	resetChildren(children)
	s.idx = 0
	s.SetStatus(Idle)
	if s.allSkipped {
		return Skipped, nil
	}
	return Success, nil
}

func (s *SequenceWithMemory) Halt() {
	resetChildren(s.Children())
	s.idx = 0
	s.SetStatus(Idle)
}
