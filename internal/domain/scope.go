package domain

// scope is the set of names bound inside the entry function at the current
// point of the walk. A name present here shadows any captured binding of the
// same name, so references to it are left untouched.
type scope struct {
	names map[string]struct{}
}

func newScope() *scope {
	return &scope{names: make(map[string]struct{})}
}

// clone copies the set so nested regions can add shadows without leaking
// them back into the enclosing region.
func (s *scope) clone() *scope {
	child := &scope{names: make(map[string]struct{}, len(s.names))}

	for name := range s.names {
		child.names[name] = struct{}{}
	}

	return child
}

func (s *scope) add(name string) {
	s.names[name] = struct{}{}
}

func (s *scope) has(name string) bool {
	_, ok := s.names[name]

	return ok
}
