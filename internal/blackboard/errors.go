package blackboard

// NotFoundError reports that a key could not be resolved anywhere along the
// lookup chain (local entry, same-level remap target, or recursively up
// through parent scopes). Path is the original key, and, if a remap
// substitution was attempted along the way, the remapped key, joined by
// '/' for diagnosis.
type NotFoundError struct{ Path string }

func (e *NotFoundError) Error() string { return "blackboard: not found: " + e.Path }

// WrongTypeError reports a get<T>/set<T> whose T does not match (and
// cannot be parsed into) the entry's stored type.
type WrongTypeError struct {
	Key, Stored, Wanted string
}

func (e *WrongTypeError) Error() string {
	return "blackboard: wrong type for " + e.Key + ": stored " + e.Stored + ", wanted " + e.Wanted
}

// ParsePortValueError reports a failed string→T parse attempted because the
// stored entry held a string but T required a different concrete type.
type ParsePortValueError struct{ Key, Expected string }

func (e *ParsePortValueError) Error() string {
	return "blackboard: cannot parse " + e.Key + " as " + e.Expected
}
