package port

import "strings"

// NameNotAllowedError reports a port name that fails validation: empty,
// not starting with a letter, or reserved.
type NameNotAllowedError struct {
	Name, Reason string
}

func (e *NameNotAllowedError) Error() string {
	return "port: name not allowed: " + e.Name + " (" + e.Reason + ")"
}

// DuplicatePortError reports a second port definition with an already-used name.
type DuplicatePortError struct{ Name string }

func (e *DuplicatePortError) Error() string { return "port: duplicate port name: " + e.Name }

// DuplicateRemapError reports a second remap entry for an already-used local name.
type DuplicateRemapError struct{ Local string }

func (e *DuplicateRemapError) Error() string {
	return "port: duplicate remap local name: " + e.Local
}

// PortInvalidError reports an XML attribute that does not match any
// manifest port, listing the manifest's declared names for diagnosis.
type PortInvalidError struct {
	Attribute string
	Known     []string
}

func (e *PortInvalidError) Error() string {
	return "port: unknown attribute " + e.Attribute + "; known ports: " + strings.Join(e.Known, ", ")
}

// PortNotDeclaredError reports a read/write against a port name absent from
// the owning behavior's manifest.
type PortNotDeclaredError struct {
	Port, Path string
}

func (e *PortNotDeclaredError) Error() string {
	return "port: not declared: " + e.Port + " at " + e.Path
}

// MissingInputError reports an In-direction port left both unset by the
// XML attribute and without a declared default.
type MissingInputError struct {
	Port, Path string
}

func (e *MissingInputError) Error() string {
	return "port: missing required input " + e.Port + " at " + e.Path
}

// ParseLiteralError reports a literal attribute value that could not be
// parsed as a port's declared type.
type ParseLiteralError struct {
	Port, Value, Type string
}

func (e *ParseLiteralError) Error() string {
	return "port: cannot parse " + e.Port + " value " + e.Value + " as " + e.Type
}
