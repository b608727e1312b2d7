package behavior

import (
	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
	"dimasbt/internal/script"
)

// AlwaysSuccess is a leaf action that always returns Success.
type AlwaysSuccess struct{ Node }

// NewAlwaysSuccess constructs an AlwaysSuccess leaf.
func NewAlwaysSuccess(name string, cfg Config) *AlwaysSuccess {
	return &AlwaysSuccess{Node: NewNode(name, cfg, nil)}
}

func (a *AlwaysSuccess) Tick() (Status, error) { a.SetStatus(Idle); return Success, nil }
func (a *AlwaysSuccess) Halt()                 {}

// AlwaysFailure is a leaf action that always returns Failure.
type AlwaysFailure struct{ Node }

// NewAlwaysFailure constructs an AlwaysFailure leaf.
func NewAlwaysFailure(name string, cfg Config) *AlwaysFailure {
	return &AlwaysFailure{Node: NewNode(name, cfg, nil)}
}

func (a *AlwaysFailure) Tick() (Status, error) { a.SetStatus(Idle); return Failure, nil }
func (a *AlwaysFailure) Halt()                 {}

// SetBlackboard is a leaf action that writes a literal value, resolved
// through its output port remap, onto the blackboard. It is the simplest
// possible data-producing leaf, useful for exercising port remapping and
// data flow without any domain-specific behavior attached.
type SetBlackboard struct {
	Node
	outputPort string
	value      string
}

// NewSetBlackboard constructs a SetBlackboard leaf. outputPort names the
// declared output port (looked up through cfg.OutputRemap at tick time);
// value is the literal text written.
func NewSetBlackboard(name string, cfg Config, outputPort, value string) *SetBlackboard {
	return &SetBlackboard{Node: NewNode(name, cfg, nil), outputPort: outputPort, value: value}
}

func (s *SetBlackboard) Tick() (Status, error) {
	cfg := s.Config()
	key := s.outputPort
	if raw, ok := cfg.OutputRemap.Get(s.outputPort); ok {
		key, _ = port.ResolveKey(raw, s.outputPort)
	}
	if _, err := blackboard.Set(cfg.Blackboard, key, s.value); err != nil {
		s.SetStatus(Idle)
		return Failure, err
	}
	s.SetStatus(Idle)
	return Success, nil
}

func (s *SetBlackboard) Halt() {}

// Script is a leaf action that runs an embedded-script program against the
// node's blackboard scope. A clean run returns Success; a compile or
// runtime error surfaces as Failure alongside the error itself so the
// caller of tick_once sees both.
type Script struct {
	Node
	source string
}

// NewScript constructs a Script leaf running source on every tick.
func NewScript(name string, cfg Config, source string) *Script {
	return &Script{Node: NewNode(name, cfg, nil), source: source}
}

func (s *Script) Tick() (Status, error) {
	s.SetStatus(Idle)
	if err := script.Run(s.source, s.Config().Blackboard); err != nil {
		return Failure, err
	}
	return Success, nil
}

func (s *Script) Halt() {}

// ScriptCondition is a leaf condition that evaluates an embedded-script
// expression and maps its truthiness to Success/Failure: it compiles
// "var <tmp> = (<source>);" against the node's blackboard scope (which
// implements script.Environment directly) and reads the temporary back.
type ScriptCondition struct {
	Node
	source string
	tmpVar string
}

// NewScriptCondition constructs a ScriptCondition leaf evaluating source.
// The temporary's name is derived from the node's uid with any
// non-identifier characters stripped, so it always lexes as one token.
func NewScriptCondition(name string, cfg Config, source string) *ScriptCondition {
	return &ScriptCondition{Node: NewNode(name, cfg, nil), source: source, tmpVar: "__cond_" + identifierSafe(cfg.UID)}
}

func identifierSafe(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		}
	}
	return string(out)
}

func (s *ScriptCondition) Tick() (Status, error) {
	bb := s.Config().Blackboard
	if err := script.Run("var "+s.tmpVar+" = ("+s.source+");", bb); err != nil {
		s.SetStatus(Idle)
		return Failure, err
	}
	v, err := bb.Get(s.tmpVar)
	if err != nil {
		s.SetStatus(Idle)
		return Failure, err
	}
	s.SetStatus(Idle)
	if v.Truthy() {
		return Success, nil
	}
	return Failure, nil
}

func (s *ScriptCondition) Halt() {}
