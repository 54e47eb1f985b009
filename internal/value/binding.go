package value

import "jabroni/internal/errs"

// Binding is a named storage slot holding one Value plus a mutability flag.
// The value's tag is fixed for the binding's lifetime.
type Binding struct {
	mutable bool
	value   Value
}

func NewBinding(value Value, mutable bool) *Binding {
	return &Binding{mutable: mutable, value: value}
}

// Constant builds an immutable binding.
func Constant(value Value) *Binding {
	return &Binding{mutable: false, value: value}
}

// Variable builds a mutable binding.
func Variable(value Value) *Binding {
	return &Binding{mutable: true, value: value}
}

func (b *Binding) Mutable() bool {
	return b.mutable
}

func (b *Binding) Value() Value {
	return b.value
}

// SetValue replaces the bound value. The new value must carry the same tag
// as the current one, and the binding must be mutable.
func (b *Binding) SetValue(value Value) error {
	if !SameType(b.value, value) {
		return errs.Type("type mismatch in binding assignment")
	}

	if !b.mutable {
		return errs.Type("cannot mutably access binding because it is constant")
	}

	b.value = value
	return nil
}

func (b *Binding) clone() *Binding {
	return &Binding{mutable: b.mutable, value: b.value.Clone()}
}
