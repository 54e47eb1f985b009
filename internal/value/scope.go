package value

import (
	"log/slog"

	"jabroni/internal/errs"
)

// Scope maps identifiers to bindings, one frame per lexical context.
// Lookup walks frames innermost to outermost, so a nested frame may
// legally shadow an outer identifier.
type Scope struct {
	bindings map[string]*Binding
	outer    *Scope
}

func NewScope() *Scope {
	return &Scope{bindings: make(map[string]*Binding)}
}

// NewNestedContext returns a child context that sees all outer bindings but
// keeps its own definitions in a fresh top frame. Creation is O(1); outer
// frames are shared, not copied.
func (s *Scope) NewNestedContext() *Scope {
	return &Scope{
		bindings: make(map[string]*Binding),
		outer:    s,
	}
}

// HasOnTop reports whether the identifier exists in the top frame only.
// Double-definition checks stop here so that shadowing stays legal.
func (s *Scope) HasOnTop(ident string) bool {
	_, ok := s.bindings[ident]
	return ok
}

// DefineBinding inserts a new binding into the top frame.
func (s *Scope) DefineBinding(ident string, value Value, mutable bool) error {
	if s.HasOnTop(ident) {
		return errs.DoubleDefinition("cannot define '%s' because it has already been defined", ident)
	}
	slog.Debug("defining binding",
		slog.String("name", ident),
		slog.String("type", string(value.Type())),
		slog.Bool("mutable", mutable))
	s.bindings[ident] = NewBinding(value, mutable)
	return nil
}

// Set maps an identifier straight to a binding in the top frame. Used by
// hosts assembling object values; script definitions go through
// DefineBinding.
func (s *Scope) Set(ident string, binding *Binding) {
	s.bindings[ident] = binding
}

// Get returns the binding for ident, searching frames innermost to
// outermost. The returned binding is the live slot, so callers may mutate
// it through SetValue.
func (s *Scope) Get(ident string) (*Binding, error) {
	for scope := s; scope != nil; scope = scope.outer {
		if binding, ok := scope.bindings[ident]; ok {
			return binding, nil
		}
	}
	return nil, errs.Reference("'%s' does not exist", ident)
}

// Clone deep-copies the scope: every frame, binding and value. Subroutine
// values stay shared; everything else is copied.
func (s *Scope) Clone() *Scope {
	if s == nil {
		return nil
	}
	clone := &Scope{
		bindings: make(map[string]*Binding, len(s.bindings)),
		outer:    s.outer.Clone(),
	}
	for ident, binding := range s.bindings {
		clone.bindings[ident] = binding.clone()
	}
	return clone
}

// Idents returns the identifiers bound in the top frame. Used for
// diagnostics only.
func (s *Scope) Idents() []string {
	idents := make([]string, 0, len(s.bindings))
	for ident := range s.bindings {
		idents = append(idents, ident)
	}
	return idents
}
