// Package port defines the named, typed endpoints (ports) behaviors expose,
// the ordered lists and remapping tables that connect them to a blackboard,
// and the blackboard-pointer syntax used in XML attribute values.
package port

import "strings"

// Direction classifies how a port moves data relative to its owning behavior.
type Direction uint8

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "unknown"
	}
}

// reserved lists attribute names that are never port names: they configure
// the behavior node itself, a decorator condition script, or an XML
// structural slot rather than naming a data port.
var reserved = map[string]bool{
	"name":        true,
	"ID":          true,
	"_autoremap":  true,
	"_failureIf":  true,
	"_successIf":  true,
	"_skipIf":     true,
	"_while":      true,
	"_onHalted":   true,
	"_onFailure":  true,
	"_onSuccess":  true,
	"_post":       true,
}

// IsReserved reports whether name is a reserved non-port attribute.
func IsReserved(name string) bool { return reserved[name] }

// Definition describes a single port on a behavior's manifest: its
// direction, a type tag (the Go type name of the value it carries), its
// name, an optional default literal, and an optional human description.
type Definition struct {
	Direction   Direction
	Type        string
	Name        string
	Default     string
	HasDefault  bool
	Description string
}

// NewDefinition validates name and constructs a Definition.
func NewDefinition(direction Direction, typ, name string, description string) (Definition, error) {
	if err := ValidateName(name); err != nil {
		return Definition{}, err
	}
	return Definition{Direction: direction, Type: typ, Name: name, Description: description}, nil
}

// WithDefault returns a copy of d carrying the given default literal.
func (d Definition) WithDefault(value string) Definition {
	d.Default = value
	d.HasDefault = true
	return d
}

// ValidateName enforces the port-name rules: non-empty, starts with a
// letter, and not a reserved attribute name.
func ValidateName(name string) error {
	if name == "" {
		return &NameNotAllowedError{Name: name, Reason: "empty"}
	}
	c := name[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return &NameNotAllowedError{Name: name, Reason: "must start with a letter"}
	}
	if IsReserved(name) {
		return &NameNotAllowedError{Name: name, Reason: "reserved"}
	}
	return nil
}

// List is an ordered sequence of port definitions with unique names. Lookup
// is a linear scan: port counts per behavior are small (single digits) and
// a stable declaration order matters more than asymptotic lookup cost for a
// list whose shape is fixed at registration time.
type List struct {
	ports []Definition
}

// NewList builds a List, rejecting duplicate names.
func NewList(defs ...Definition) (List, error) {
	l := List{}
	for _, d := range defs {
		if err := l.Add(d); err != nil {
			return List{}, err
		}
	}
	return l, nil
}

// Add appends d, rejecting a duplicate name.
func (l *List) Add(d Definition) error {
	if _, ok := l.Find(d.Name); ok {
		return &DuplicatePortError{Name: d.Name}
	}
	l.ports = append(l.ports, d)
	return nil
}

// Find looks up a port by name.
func (l List) Find(name string) (Definition, bool) {
	for _, d := range l.ports {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// All returns the ports in declaration order. Callers must not mutate the
// returned slice.
func (l List) All() []Definition { return l.ports }

// Names returns the declared port names in order, used to build the
// diagnostic list on a PortInvalid error.
func (l List) Names() []string {
	names := make([]string, len(l.ports))
	for i, d := range l.ports {
		names[i] = d.Name
	}
	return names
}

// Remapping is an ordered sequence of (local, remapped) pairs with unique
// local names; the first match wins on lookup, mirroring List's linear-scan
// rationale.
type Remapping struct {
	locals   []string
	remapped []string
}

// NewRemapping builds an empty Remapping.
func NewRemapping() *Remapping { return &Remapping{} }

// Set records local → remapped, rejecting a duplicate local name.
func (r *Remapping) Set(local, remapped string) error {
	if _, ok := r.Get(local); ok {
		return &DuplicateRemapError{Local: local}
	}
	r.locals = append(r.locals, local)
	r.remapped = append(r.remapped, remapped)
	return nil
}

// Get returns the remapped name bound to local, if any.
func (r *Remapping) Get(local string) (string, bool) {
	for i, l := range r.locals {
		if l == local {
			return r.remapped[i], true
		}
	}
	return "", false
}

// Pairs returns the (local, remapped) pairs in declaration order.
func (r *Remapping) Pairs() []struct{ Local, Remapped string } {
	out := make([]struct{ Local, Remapped string }, len(r.locals))
	for i := range r.locals {
		out[i] = struct{ Local, Remapped string }{r.locals[i], r.remapped[i]}
	}
	return out
}

// IsPointer reports whether value is a blackboard pointer ("{key}" or
// "{=}"), and if so returns the key with braces stripped ("=" for the
// self-reference form).
func IsPointer(value string) (key string, ok bool) {
	if len(value) >= 2 && value[0] == '{' && value[len(value)-1] == '}' {
		return value[1 : len(value)-1], true
	}
	return "", false
}

// ResolveKey resolves an attribute value against portName: a literal passes
// through unchanged with ok=false; a pointer returns its key, substituting
// portName for the "=" self-reference form.
func ResolveKey(value, portName string) (key string, isPointer bool) {
	k, ok := IsPointer(value)
	if !ok {
		return value, false
	}
	if k == "=" {
		return portName, true
	}
	return k, true
}

// IsRootEscape reports whether key is root-escaped ("@"-prefixed) and
// returns the key with the prefix stripped.
func IsRootEscape(key string) (stripped string, ok bool) {
	if strings.HasPrefix(key, "@") {
		return key[1:], true
	}
	return key, false
}
