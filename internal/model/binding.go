package model

// Binding is one top-level name captured into the locals object.
type Binding struct {
	Name    string
	Mutable bool
}

// Bindings is an ordered binding list, in source declaration order.
type Bindings []Binding

// Names returns the binding names in order.
func (bs Bindings) Names() []string {
	names := make([]string, 0, len(bs))
	for _, b := range bs {
		names = append(names, b.Name)
	}

	return names
}

// CountMutable returns how many bindings are reassignable.
func (bs Bindings) CountMutable() int {
	n := 0

	for _, b := range bs {
		if b.Mutable {
			n++
		}
	}

	return n
}
