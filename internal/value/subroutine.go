package value

import "jabroni/internal/errs"

// ArityVariadic marks a subroutine that accepts any argument count.
const ArityVariadic = -1

// Callback is the native calling convention. Interpreted subroutines are
// wrapped in the same shape, so the evaluator invokes both identically.
type Callback func(ctx *Scope, args []Value) (Value, error)

// Subroutine is a callable value. It is always handled by pointer, so
// cloning is O(1) and equality is identity-based: every clone shares the
// same underlying callback.
type Subroutine struct {
	arity    int
	callback Callback
}

func NewSubroutine(arity int, callback Callback) *Subroutine {
	return &Subroutine{arity: arity, callback: callback}
}

func NewVariadicSubroutine(callback Callback) *Subroutine {
	return &Subroutine{arity: ArityVariadic, callback: callback}
}

func (s *Subroutine) Type() Type      { return SUBROUTINE_OBJ }
func (s *Subroutine) Inspect() string { return "[function]" }
func (s *Subroutine) Clone() Value    { return s }

func (s *Subroutine) Arity() int {
	return s.arity
}

// Call checks fixed arity and invokes the callback with the given context
// and already-evaluated arguments.
func (s *Subroutine) Call(ctx *Scope, args []Value) (Value, error) {
	if s.arity != ArityVariadic && len(args) != s.arity {
		return nil, errs.InvalidArguments("incorrect number of arguments: expected %d, got %d", s.arity, len(args))
	}
	return s.callback(ctx, args)
}
