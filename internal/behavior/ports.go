package behavior

import (
	"fmt"
	"strconv"

	"dimasbt/internal/blackboard"
	"dimasbt/internal/port"
)

// InputPort reads portName as a behavior input: a pointer
// attribute fetches T from the blackboard; a literal attribute is parsed as
// T; an attribute omitted entirely falls back to the port's declared
// default, or MissingInputError if it has none.
func InputPort[T any](cfg *Config, portName string) (T, error) {
	var zero T
	raw, found, def, hasDef := resolveInputAttr(cfg, portName)
	if !found {
		if !hasDef {
			return zero, &port.MissingInputError{Port: portName, Path: cfg.Path}
		}
		raw = def
	}
	if key, isPointer := port.ResolveKey(raw, portName); isPointer {
		return blackboard.Get[T](cfg.Blackboard, key)
	}
	v, err := parseLiteral[T](portName, raw)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// resolveInputAttr looks up portName's raw remap value (the XML attribute
// text, verbatim) and, separately, its manifest default.
func resolveInputAttr(cfg *Config, portName string) (raw string, found bool, def string, hasDefault bool) {
	lister, ok := cfg.Manifest.Ports.(interface {
		Find(string) (port.Definition, bool)
	})
	if ok {
		if d, ok := lister.Find(portName); ok {
			def, hasDefault = d.Default, d.HasDefault
		}
	}
	raw, found = cfg.InputRemap.Get(portName)
	return raw, found, def, hasDefault
}

// OutputPort writes value to the blackboard key named by portName's output
// remap: "{=}" or an omitted attribute
// resolves to the port's own name; a pointer or literal attribute names the
// key directly.
func OutputPort[T any](cfg *Config, portName string, value T) error {
	key := portName
	if raw, ok := cfg.OutputRemap.Get(portName); ok {
		key, _ = port.ResolveKey(raw, portName)
	}
	_, err := blackboard.Set(cfg.Blackboard, key, value)
	return err
}

// parseLiteral converts a literal XML attribute string into T for the
// bounded set of primitive port types the factory and built-in behaviors
// use. Unsupported T returns a ParseLiteralError.
func parseLiteral[T any](portName, raw string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, &port.ParseLiteralError{Port: portName, Value: raw, Type: "bool"}
		}
		return any(v).(T), nil
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, &port.ParseLiteralError{Port: portName, Value: raw, Type: "int"}
		}
		return any(v).(T), nil
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, &port.ParseLiteralError{Port: portName, Value: raw, Type: "int64"}
		}
		return any(v).(T), nil
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, &port.ParseLiteralError{Port: portName, Value: raw, Type: "float64"}
		}
		return any(v).(T), nil
	default:
		return zero, &port.ParseLiteralError{Port: portName, Value: raw, Type: fmt.Sprintf("%T", zero)}
	}
}
