package lifecycle

// InvalidStepError reports an attempt to step up from Error/Active, or
// down from Error/Created, the un-steppable endpoints of the ladder
// in that direction.
type InvalidStepError struct {
	Up   bool
	From State
}

func (e *InvalidStepError) Error() string {
	dir := "down from "
	if e.Up {
		dir = "up from "
	}
	return "lifecycle: cannot step " + dir + e.From.String()
}
