package behavior

// oneChild validates that a decorator constructor received exactly one
// child, as every decorator in this package requires.
func oneChild(name string, children []Behavior) error {
	if len(children) != 1 {
		return &DecoratorChildrenError{Name: name}
	}
	return nil
}

// ForceSuccess passes Running through and otherwise resets its child and
// always returns Success.
type ForceSuccess struct{ Node }

// NewForceSuccess constructs a ForceSuccess decorator.
func NewForceSuccess(name string, cfg Config, children []Behavior) (*ForceSuccess, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &ForceSuccess{Node: NewNode(name, cfg, children)}, nil
}

func (f *ForceSuccess) Tick() (Status, error) {
	st, err := f.Children()[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(f.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Running {
		f.SetStatus(Running)
		return Running, nil
	}
	haltChild(f.Children(), 0)
	f.SetStatus(Idle)
	return Success, nil
}

func (f *ForceSuccess) Halt() { resetChildren(f.Children()); f.SetStatus(Idle) }

// ForceFailure passes Running through and otherwise resets its child and
// always returns Failure.
type ForceFailure struct{ Node }

// NewForceFailure constructs a ForceFailure decorator.
func NewForceFailure(name string, cfg Config, children []Behavior) (*ForceFailure, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &ForceFailure{Node: NewNode(name, cfg, children)}, nil
}

func (f *ForceFailure) Tick() (Status, error) {
	st, err := f.Children()[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(f.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Running {
		f.SetStatus(Running)
		return Running, nil
	}
	haltChild(f.Children(), 0)
	f.SetStatus(Idle)
	return Failure, nil
}

func (f *ForceFailure) Halt() { resetChildren(f.Children()); f.SetStatus(Idle) }

// Inverter swaps Success and Failure, passing Running and Skipped through
// unchanged.
type Inverter struct{ Node }

// NewInverter constructs an Inverter decorator.
func NewInverter(name string, cfg Config, children []Behavior) (*Inverter, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &Inverter{Node: NewNode(name, cfg, children)}, nil
}

func (v *Inverter) Tick() (Status, error) {
	st, err := v.Children()[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(v.Config().Path, st); err != nil {
		return Failure, err
	}
	switch st {
	case Running:
		v.SetStatus(Running)
		return Running, nil
	case Success:
		haltChild(v.Children(), 0)
		v.SetStatus(Idle)
		return Failure, nil
	case Failure:
		haltChild(v.Children(), 0)
		v.SetStatus(Idle)
		return Success, nil
	default: // Skipped
		haltChild(v.Children(), 0)
		v.SetStatus(Idle)
		return Skipped, nil
	}
}

func (v *Inverter) Halt() { resetChildren(v.Children()); v.SetStatus(Idle) }

// KeepRunningUntilFailure maps Success to Running, passes Running through,
// and stops at the first Failure.
type KeepRunningUntilFailure struct{ Node }

// NewKeepRunningUntilFailure constructs a KeepRunningUntilFailure decorator.
func NewKeepRunningUntilFailure(name string, cfg Config, children []Behavior) (*KeepRunningUntilFailure, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &KeepRunningUntilFailure{Node: NewNode(name, cfg, children)}, nil
}

func (k *KeepRunningUntilFailure) Tick() (Status, error) {
	st, err := k.Children()[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(k.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Failure {
		haltChild(k.Children(), 0)
		k.SetStatus(Idle)
		return Failure, nil
	}
	k.SetStatus(Running)
	return Running, nil
}

func (k *KeepRunningUntilFailure) Halt() { resetChildren(k.Children()); k.SetStatus(Idle) }

// Repeat re-runs its child up to numCycles times on Success (-1 means
// infinite); a Failure resets the counter and returns Failure; exhausting
// the count returns Success, or Skipped if every pass was Skipped.
type Repeat struct {
	Node
	numCycles  int
	count      int
	allSkipped bool
}

// NewRepeat constructs a Repeat decorator.
func NewRepeat(name string, cfg Config, children []Behavior, numCycles int) (*Repeat, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &Repeat{Node: NewNode(name, cfg, children), numCycles: numCycles}, nil
}

func (r *Repeat) Tick() (Status, error) {
	if r.Status() != Running {
		r.count = 0
		r.allSkipped = true
	}
	child := r.Children()[0]
	st, err := child.Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(r.Config().Path, st); err != nil {
		return Failure, err
	}
	switch st {
	case Running:
		r.SetStatus(Running)
		return Running, nil
	case Failure:
		haltChild(r.Children(), 0)
		r.count = 0
		r.SetStatus(Idle)
		return Failure, nil
	case Success:
		r.allSkipped = false
		haltChild(r.Children(), 0)
		r.count++
	case Skipped:
		haltChild(r.Children(), 0)
		r.count++
	}
	if r.numCycles < 0 || r.count < r.numCycles {
		r.SetStatus(Running)
		return Running, nil
	}
	r.count = 0
	r.SetStatus(Idle)
	if r.allSkipped {
		return Skipped, nil
	}
	return Success, nil
}

func (r *Repeat) Halt() {
	resetChildren(r.Children())
	r.count = 0
	r.SetStatus(Idle)
}

// Retry re-runs its child up to numAttempts times on Failure; Success
// returns Success; exhausting the attempt count returns Failure. One
// attempt is made per tick (reactive): a Failure counts an attempt and the
// node returns Running to be re-ticked, rather than retrying within the
// same tick.
type Retry struct {
	Node
	numAttempts int
	attempt     int
}

// NewRetry constructs a Retry decorator.
func NewRetry(name string, cfg Config, children []Behavior, numAttempts int) (*Retry, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &Retry{Node: NewNode(name, cfg, children), numAttempts: numAttempts}, nil
}

func (r *Retry) Tick() (Status, error) {
	if r.Status() != Running {
		r.attempt = 0
	}
	child := r.Children()[0]
	st, err := child.Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(r.Config().Path, st); err != nil {
		return Failure, err
	}
	switch st {
	case Running:
		r.SetStatus(Running)
		return Running, nil
	case Success, Skipped:
		haltChild(r.Children(), 0)
		r.attempt = 0
		r.SetStatus(Idle)
		return st, nil
	default: // Failure
		haltChild(r.Children(), 0)
		r.attempt++
		if r.numAttempts >= 0 && r.attempt >= r.numAttempts {
			r.attempt = 0
			r.SetStatus(Idle)
			return Failure, nil
		}
		r.SetStatus(Running)
		return Running, nil
	}
}

func (r *Retry) Halt() {
	resetChildren(r.Children())
	r.attempt = 0
	r.SetStatus(Idle)
}

// RetryUntilSuccessful is Retry's non-reactive dual: it loops within a
// single tick, re-running its child immediately after a Failure instead of
// returning Running to wait for the next external tick.
type RetryUntilSuccessful struct {
	Node
	numAttempts int
}

// NewRetryUntilSuccessful constructs a RetryUntilSuccessful decorator.
func NewRetryUntilSuccessful(name string, cfg Config, children []Behavior, numAttempts int) (*RetryUntilSuccessful, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &RetryUntilSuccessful{Node: NewNode(name, cfg, children), numAttempts: numAttempts}, nil
}

func (r *RetryUntilSuccessful) Tick() (Status, error) {
	child := r.Children()[0]
	attempt := 0
	for {
		st, err := child.Tick()
		if err != nil {
			return Failure, err
		}
		if err := checkNotIdle(r.Config().Path, st); err != nil {
			return Failure, err
		}
		switch st {
		case Running:
			r.SetStatus(Running)
			return Running, nil
		case Success, Skipped:
			haltChild(r.Children(), 0)
			r.SetStatus(Idle)
			return st, nil
		default: // Failure
			haltChild(r.Children(), 0)
			attempt++
			if r.numAttempts >= 0 && attempt >= r.numAttempts {
				r.SetStatus(Idle)
				return Failure, nil
			}
		}
	}
}

func (r *RetryUntilSuccessful) Halt() { resetChildren(r.Children()); r.SetStatus(Idle) }

// RunOnce caches the result of its first completion; subsequent ticks
// return Skipped if thenSkip is true, else the cached status.
type RunOnce struct {
	Node
	thenSkip bool
	done     bool
	result   Status
}

// NewRunOnce constructs a RunOnce decorator.
func NewRunOnce(name string, cfg Config, children []Behavior, thenSkip bool) (*RunOnce, error) {
	if err := oneChild(name, children); err != nil {
		return nil, err
	}
	return &RunOnce{Node: NewNode(name, cfg, children), thenSkip: thenSkip}, nil
}

func (r *RunOnce) Tick() (Status, error) {
	if r.done {
		if r.thenSkip {
			return Skipped, nil
		}
		return r.result, nil
	}
	st, err := r.Children()[0].Tick()
	if err != nil {
		return Failure, err
	}
	if err := checkNotIdle(r.Config().Path, st); err != nil {
		return Failure, err
	}
	if st == Running {
		r.SetStatus(Running)
		return Running, nil
	}
	haltChild(r.Children(), 0)
	r.done = true
	r.result = st
	r.SetStatus(Idle)
	return st, nil
}

func (r *RunOnce) Halt() { resetChildren(r.Children()); r.SetStatus(Idle) }
