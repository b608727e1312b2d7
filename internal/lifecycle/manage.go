package lifecycle

// Manage steps e's operational state toward target, one rung at a time,
// one rung at a time. Each rung recurses into e's
// sub-entities before invoking the corresponding hook on e itself when
// stepping up, or after when stepping down, the transition a sub-entity
// performs is asked to land on the same rung direction as the parent's.
func Manage(e Entity, target State) error {
	for e.State() != target {
		if target > e.State() {
			if err := stepOnce(e, true); err != nil {
				return err
			}
			continue
		}
		if err := stepOnce(e, false); err != nil {
			return err
		}
	}
	return nil
}

func stepOnce(e Entity, up bool) error {
	cur := e.State()
	if up {
		if cur == Error || cur == Active {
			return &InvalidStepError{Up: true, From: cur}
		}
		hook := nextUp(cur)
		if hook == "" {
			return &InvalidStepError{Up: true, From: cur}
		}
		for _, sub := range e.SubEntities() {
			if err := stepOnce(sub, true); err != nil {
				return err
			}
		}
		return invoke(e, hook)
	}

	if cur == Error || cur == Created {
		return &InvalidStepError{Up: false, From: cur}
	}
	hook := nextDown(cur)
	if hook == "" {
		return &InvalidStepError{Up: false, From: cur}
	}
	if err := invoke(e, hook); err != nil {
		return err
	}
	subs := e.SubEntities()
	for i := len(subs) - 1; i >= 0; i-- {
		if err := stepOnce(subs[i], false); err != nil {
			return err
		}
	}
	return nil
}

// nextUp/nextDown name the hook that performs one rung of the ladder.
func nextUp(cur State) (hook string) {
	switch cur {
	case Created:
		return "configure"
	case Configured:
		return "commission"
	case Inactive:
		return "wakeup"
	case Standby:
		return "activate"
	default:
		return ""
	}
}

func nextDown(cur State) (hook string) {
	switch cur {
	case Active:
		return "deactivate"
	case Standby:
		return "suspend"
	case Inactive:
		return "decommission"
	case Configured:
		return "deconfigure"
	default:
		return ""
	}
}

// invoke calls the named hook on e and applies its result: on success
// whatever state the hook returns becomes e's new state, even one other
// than the next rung, since there is no separate expected-state check; on
// error e moves to Error and the error is returned.
func invoke(e Entity, hook string) error {
	var got State
	var err error
	switch hook {
	case "configure":
		got, err = e.Configure()
	case "commission":
		got, err = e.Commission()
	case "wakeup":
		got, err = e.Wakeup()
	case "activate":
		got, err = e.Activate()
	case "deactivate":
		got, err = e.Deactivate()
	case "suspend":
		got, err = e.Suspend()
	case "decommission":
		got, err = e.Decommission()
	case "deconfigure":
		got, err = e.Deconfigure()
	}
	if err != nil {
		e.SetState(Error)
		return err
	}
	e.SetState(got)
	return nil
}
