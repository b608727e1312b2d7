package behavior

// resolveThreshold turns a possibly-negative success/failure_count
// parameter into a concrete child count: -1 means "all children" (count),
// -2 means "all but one" (count-1), and so on; a non-negative value passes
// through unchanged.
func resolveThreshold(count, children int) int {
	if count < 0 {
		return children + count + 1
	}
	return count
}

// Parallel ticks every not-yet-completed child once per tick and tallies
// Success/Failure as they complete, until either threshold fires or every
// child has completed. success_count reached (counting Skipped toward
// success when the configured threshold was itself negative) returns
// Success; failure_count reached, or too few children left for
// success_count to still be reached, returns Failure. A full pass in which
// every child returned Skipped returns Skipped.
type Parallel struct {
	Node
	successThreshold int
	failureThreshold int
	successRaw       int
	childStatus      []Status
}

// NewParallel constructs a Parallel control node, resolving successCount and
// failureCount (which may be negative, see resolveThreshold) against the
// child count. It errors if the child count cannot satisfy either
// threshold.
func NewParallel(name string, cfg Config, children []Behavior, successCount, failureCount int) (*Parallel, error) {
	n := len(children)
	succT := resolveThreshold(successCount, n)
	failT := resolveThreshold(failureCount, n)
	if n < succT || n < failT {
		return nil, &NodeStructureError{Reason: "parallel: child count below required success/failure threshold"}
	}
	return &Parallel{
		Node:             NewNode(name, cfg, children),
		successThreshold: succT,
		failureThreshold: failT,
		successRaw:       successCount,
		childStatus:      make([]Status, n),
	}, nil
}

func (p *Parallel) Tick() (Status, error) {
	children := p.Children()
	if p.Status() != Running {
		for i := range p.childStatus {
			p.childStatus[i] = Idle
		}
	}

	successes, failures, skips := 0, 0, 0
	for i, c := range children {
		st := p.childStatus[i]
		if st != Success && st != Failure {
			var err error
			st, err = c.Tick()
			if err != nil {
				p.resetAll()
				return Failure, err
			}
			if err := checkNotIdle(p.Config().Path, st); err != nil {
				p.resetAll()
				return Failure, err
			}
			p.childStatus[i] = st
		}
		switch st {
		case Success:
			successes++
		case Failure:
			failures++
		case Skipped:
			skips++
		}
	}

	effectiveSuccesses := successes
	if p.successRaw < 0 {
		effectiveSuccesses += skips
	}
	completed := successes + failures + skips

	if skips == len(children) {
		p.resetAll()
		return Skipped, nil
	}
	if effectiveSuccesses >= p.successThreshold {
		p.resetAll()
		return Success, nil
	}
	remaining := len(children) - completed
	if failures >= p.failureThreshold || effectiveSuccesses+remaining < p.successThreshold {
		p.resetAll()
		return Failure, nil
	}
	if completed == len(children) {
		p.resetAll()
		return Failure, nil
	}
	p.SetStatus(Running)
	return Running, nil
}

// resetAll halts any still-Running children and clears the per-child
// completion tracking, returning the node to Idle for its next fresh entry.
func (p *Parallel) resetAll() {
	children := p.Children()
	for i := range children {
		if p.childStatus[i] == Running {
			haltChild(children, i)
		} else {
			children[i].SetStatus(Idle)
		}
		p.childStatus[i] = Idle
	}
	p.SetStatus(Idle)
}

func (p *Parallel) Halt() { p.resetAll() }

// ParallelAll ticks every child to completion every tick, never halting one
// early: once every child is Success or Failure (Skipped tolerated), it
// returns Failure if the failure count reached max_failures, else Success.
type ParallelAll struct {
	Node
	maxFailures int
	childStatus []Status
}

// NewParallelAll constructs a ParallelAll control node. maxFailures
// defaults to 1 if given as zero or negative.
func NewParallelAll(name string, cfg Config, children []Behavior, maxFailures int) *ParallelAll {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &ParallelAll{Node: NewNode(name, cfg, children), maxFailures: maxFailures, childStatus: make([]Status, len(children))}
}

func (p *ParallelAll) Tick() (Status, error) {
	children := p.Children()
	if p.Status() != Running {
		for i := range p.childStatus {
			p.childStatus[i] = Idle
		}
	}

	failures := 0
	allDone := true
	for i, c := range children {
		st := p.childStatus[i]
		if st == Idle || st == Running {
			var err error
			st, err = c.Tick()
			if err != nil {
				p.Halt()
				return Failure, err
			}
			if err := checkNotIdle(p.Config().Path, st); err != nil {
				p.Halt()
				return Failure, err
			}
			p.childStatus[i] = st
		}
		if st == Failure {
			failures++
		}
		if st != Success && st != Failure && st != Skipped {
			allDone = false
		}
	}

	if !allDone {
		p.SetStatus(Running)
		return Running, nil
	}
	resetChildren(children)
	for i := range p.childStatus {
		p.childStatus[i] = Idle
	}
	p.SetStatus(Idle)
	if failures >= p.maxFailures {
		return Failure, nil
	}
	return Success, nil
}

func (p *ParallelAll) Halt() {
	resetChildren(p.Children())
	for i := range p.childStatus {
		p.childStatus[i] = Idle
	}
	p.SetStatus(Idle)
}
