package behavior

import (
	"strconv"

	"dimasbt/internal/port"
)

// Constructor builds a Behavior instance from its wiring, already-built
// children, and the raw (non-port) XML attributes the factory collected for
// it, e.g. a Repeat's "num_cycles" or a Parallel's "success_count".
type Constructor func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error)

type registration struct {
	manifest Manifest
	build    Constructor
}

// Registry maps a registration id (the XML tag or ID attribute a tree
// references) to the manifest and constructor registered under it.
type Registry struct {
	entries map[string]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register binds id to a manifest and constructor, rejecting a duplicate id.
func (r *Registry) Register(id string, category Category, ports port.List, description string, build Constructor) error {
	if _, exists := r.entries[id]; exists {
		return &NodeStructureError{Reason: "registry: duplicate registration id " + id}
	}
	m := Manifest{Category: category, RegistrationID: id, Ports: ports, Description: description}
	r.entries[id] = registration{manifest: m, build: build}
	return nil
}

// Lookup returns the manifest and constructor registered under id.
func (r *Registry) Lookup(id string) (*Manifest, Constructor, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, nil, false
	}
	return &e.manifest, e.build, true
}

// IDs returns every registered id, in no particular order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// RegisterBuiltins registers the small always-available control set:
// Sequence, Fallback and Parallel. Every tree, however minimal, can rely on
// these three being present without opting into the extended set.
func RegisterBuiltins(r *Registry) error {
	if err := r.Register("Sequence", Control, port.List{}, "Ticks children in order until one fails.", func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
		return NewSequence(name, cfg, children), nil
	}); err != nil {
		return err
	}
	if err := r.Register("Fallback", Control, port.List{}, "Ticks children in order until one succeeds.", func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
		return NewFallback(name, cfg, children), nil
	}); err != nil {
		return err
	}
	return r.Register("Parallel", Control, mustPorts(
		mustPort(port.NewDefinition(port.In, "int", "success_count", "how many successes are required")),
		mustPort(port.NewDefinition(port.In, "int", "failure_count", "how many failures cause an overall failure")),
	), "Ticks every child concurrently until a threshold fires.", func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
		succ := intParam(params, "success_count", -1)
		fail := intParam(params, "failure_count", 1)
		return NewParallel(name, cfg, children, succ, fail)
	})
}

// RegisterExtended adds every remaining built-in composite and decorator on
// top of RegisterBuiltins: the reactive composites, the two parallel
// variants' sibling, the branch-selecting controls, and the full decorator
// set. Consumers that want the extended set in addition to the required
// builtins call both.
func RegisterExtended(r *Registry) error {
	registrations := []struct {
		id   string
		cat  Category
		desc string
		ctor Constructor
	}{
		{"SequenceWithMemory", Control, "Like Sequence, but a failure resumes from the failed child rather than restarting.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewSequenceWithMemory(name, cfg, children), nil
			}},
		{"ReactiveSequence", Control, "Like Sequence, but re-evaluates every child from the first on every tick.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewReactiveSequence(name, cfg, children), nil
			}},
		{"ReactiveFallback", Control, "Like Fallback, but re-evaluates every child from the first on every tick.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewReactiveFallback(name, cfg, children), nil
			}},
		{"ParallelAll", Control, "Ticks every child to completion, tolerating up to max_failures failures.",
			func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
				return NewParallelAll(name, cfg, children, intParam(params, "max_failures", 1)), nil
			}},
		{"WhileDoElse", Control, "Re-evaluates a condition child every tick, running a do or else branch.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewWhileDoElse(name, cfg, children)
			}},
		{"IfThenElse", Control, "Evaluates a condition child once, then runs a then or else branch to completion.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewIfThenElse(name, cfg, children)
			}},
		{"ForceSuccess", Decorator, "Always returns Success once its child completes.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewForceSuccess(name, cfg, children)
			}},
		{"ForceFailure", Decorator, "Always returns Failure once its child completes.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewForceFailure(name, cfg, children)
			}},
		{"Inverter", Decorator, "Swaps Success and Failure.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewInverter(name, cfg, children)
			}},
		{"KeepRunningUntilFailure", Decorator, "Maps Success to Running; stops at the first Failure.",
			func(name string, cfg Config, children []Behavior, _ map[string]string) (Behavior, error) {
				return NewKeepRunningUntilFailure(name, cfg, children)
			}},
		{"Repeat", Decorator, "Re-runs its child up to num_cycles times on Success.",
			func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
				return NewRepeat(name, cfg, children, intParam(params, "num_cycles", 1))
			}},
		{"Retry", Decorator, "Re-runs its child, one attempt per tick, up to num_attempts times on Failure.",
			func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
				return NewRetry(name, cfg, children, intParam(params, "num_attempts", 1))
			}},
		{"RetryUntilSuccessful", Decorator, "Re-runs its child within a single tick, up to num_attempts times on Failure.",
			func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
				return NewRetryUntilSuccessful(name, cfg, children, intParam(params, "num_attempts", 1))
			}},
		{"RunOnce", Decorator, "Caches its child's first completed result.",
			func(name string, cfg Config, children []Behavior, params map[string]string) (Behavior, error) {
				return NewRunOnce(name, cfg, children, boolParam(params, "then_skip", false))
			}},
	}

	for _, reg := range registrations {
		if err := r.Register(reg.id, reg.cat, port.List{}, reg.desc, reg.ctor); err != nil {
			return err
		}
	}
	return nil
}

func intParam(params map[string]string, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolParam(params map[string]string, key string, fallback bool) bool {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func mustPort(d port.Definition, err error) port.Definition {
	if err != nil {
		panic(err)
	}
	return d
}

func mustPorts(defs ...port.Definition) port.List {
	l, err := port.NewList(defs...)
	if err != nil {
		panic(err)
	}
	return l
}
