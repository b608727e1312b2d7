package main

import (
	"fmt"
	"os"

	"dimasbt/internal/behavior"
	"dimasbt/internal/config"
	"dimasbt/internal/port"
	"dimasbt/internal/tree"
	"dimasbt/internal/xmlfactory"
)

// newRegistry builds the CLI's behavior registry: the always-present
// builtins, the extended composite/decorator set when enabled, and the
// leaf behaviors an operator-driven tree can use without a host program
// registering its own.
func newRegistry(cfg *config.Config) (*behavior.Registry, error) {
	r := behavior.NewRegistry()
	if err := behavior.RegisterBuiltins(r); err != nil {
		return nil, err
	}
	if cfg.Factory.ExtendedRegistrations {
		if err := behavior.RegisterExtended(r); err != nil {
			return nil, err
		}
	}
	if err := registerLeaves(r); err != nil {
		return nil, err
	}
	return r, nil
}

// registerLeaves adds the CLI's standalone leaves: trivial
// always-succeed/always-fail actions, the script action and condition
// backed by the embedded VM, and a blackboard-writing action for wiring
// data between subtrees.
func registerLeaves(r *behavior.Registry) error {
	if err := r.Register("AlwaysSuccess", behavior.Action, port.List{},
		"Returns Success on every tick.",
		func(name string, cfg behavior.Config, _ []behavior.Behavior, _ map[string]string) (behavior.Behavior, error) {
			return behavior.NewAlwaysSuccess(name, cfg), nil
		}); err != nil {
		return err
	}
	if err := r.Register("AlwaysFailure", behavior.Action, port.List{},
		"Returns Failure on every tick.",
		func(name string, cfg behavior.Config, _ []behavior.Behavior, _ map[string]string) (behavior.Behavior, error) {
			return behavior.NewAlwaysFailure(name, cfg), nil
		}); err != nil {
		return err
	}

	codePort, err := port.NewDefinition(port.In, "string", "code", "script source to execute")
	if err != nil {
		return err
	}
	scriptPorts, err := port.NewList(codePort)
	if err != nil {
		return err
	}
	if err := r.Register("Script", behavior.Action, scriptPorts,
		"Runs an embedded-script program against the node's blackboard scope.",
		func(name string, cfg behavior.Config, _ []behavior.Behavior, params map[string]string) (behavior.Behavior, error) {
			source, ok := params["code"]
			if !ok {
				return nil, &xmlfactory.MissingAttributeError{Tag: name, Attribute: "code"}
			}
			return behavior.NewScript(name, cfg, source), nil
		}); err != nil {
		return err
	}
	if err := r.Register("ScriptCondition", behavior.Condition, scriptPorts,
		"Evaluates a script expression; truthy maps to Success, else Failure.",
		func(name string, cfg behavior.Config, _ []behavior.Behavior, params map[string]string) (behavior.Behavior, error) {
			source, ok := params["code"]
			if !ok {
				return nil, &xmlfactory.MissingAttributeError{Tag: name, Attribute: "code"}
			}
			return behavior.NewScriptCondition(name, cfg, source), nil
		}); err != nil {
		return err
	}

	valuePort, err := port.NewDefinition(port.In, "string", "value", "the value to write")
	if err != nil {
		return err
	}
	outPort, err := port.NewDefinition(port.Out, "string", "output_key", "where to write it")
	if err != nil {
		return err
	}
	setPorts, err := port.NewList(valuePort, outPort)
	if err != nil {
		return err
	}
	return r.Register("SetBlackboard", behavior.Action, setPorts,
		"Writes a value onto the blackboard through its output port.",
		func(name string, cfg behavior.Config, _ []behavior.Behavior, params map[string]string) (behavior.Behavior, error) {
			value, ok := params["value"]
			if !ok {
				return nil, &xmlfactory.MissingAttributeError{Tag: name, Attribute: "value"}
			}
			return behavior.NewSetBlackboard(name, cfg, "output_key", value), nil
		})
}

// buildFromFile reads path and constructs its tree through factory.
func buildFromFile(factory *xmlfactory.Factory, path string) (*tree.BehaviorTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return factory.Build(string(data))
}
