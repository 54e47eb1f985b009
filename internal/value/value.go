package value

import (
	"fmt"
	"jabroni/internal/errs"
	"strconv"
)

const (
	NUMBER_OBJ     = "NUMBER"
	BOOLEAN_OBJ    = "BOOLEAN"
	STRING_OBJ     = "STRING"
	OBJECT_OBJ     = "OBJECT"
	SUBROUTINE_OBJ = "SUBROUTINE"
	NULL_OBJ       = "NULL"
)

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Type string

// Value is the tagged runtime datum. Two values are type-compatible iff
// they carry the same tag, independent of payload.
type Value interface {
	Type() Type
	Inspect() string
	Clone() Value
}

type Number struct {
	Value int32
}

func (n *Number) Type() Type      { return NUMBER_OBJ }
func (n *Number) Inspect() string { return strconv.FormatInt(int64(n.Value), 10) }
func (n *Number) Clone() Value    { return &Number{Value: n.Value} }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() Type      { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) Clone() Value    { return FromNativeBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }
func (s *String) Clone() Value    { return &String{Value: s.Value} }

// Object is a record whose fields are bindings in an owned scope.
type Object struct {
	Fields *Scope
}

func (o *Object) Type() Type      { return OBJECT_OBJ }
func (o *Object) Inspect() string { return "[object]" }
func (o *Object) Clone() Value    { return &Object{Fields: o.Fields.Clone()} }

type Null struct{}

func (n *Null) Type() Type      { return NULL_OBJ }
func (n *Null) Inspect() string { return "null" }
func (n *Null) Clone() Value    { return NULL }

func FromNativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// FromStringLiteral builds a String from a quoted literal, resolving
// backslash escapes.
func FromStringLiteral(literal string) (Value, error) {
	unquoted, err := Unquote(literal)
	if err != nil {
		return nil, err
	}
	return &String{Value: unquoted}, nil
}

// FromNumericLiteral builds a Number from signed decimal text.
func FromNumericLiteral(literal string) (Value, error) {
	n, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return nil, errs.Parse("couldn't form numeric literal from '%s'", literal)
	}
	return &Number{Value: int32(n)}, nil
}

// FromBooleanLiteral accepts exactly "true" or "false".
func FromBooleanLiteral(literal string) (Value, error) {
	switch literal {
	case "true":
		return TRUE, nil
	case "false":
		return FALSE, nil
	default:
		return nil, errs.Parse("couldn't form boolean literal from '%s'", literal)
	}
}

// SameType reports tag compatibility, independent of payload.
func SameType(a, b Value) bool {
	return a.Type() == b.Type()
}

func Add(left, right Value) (Value, error) {
	l, r, err := bothNumbers(left, right)
	if err != nil {
		return nil, err
	}
	return &Number{Value: l + r}, nil
}

func Subtract(left, right Value) (Value, error) {
	l, r, err := bothNumbers(left, right)
	if err != nil {
		return nil, err
	}
	return &Number{Value: l - r}, nil
}

func Multiply(left, right Value) (Value, error) {
	l, r, err := bothNumbers(left, right)
	if err != nil {
		return nil, err
	}
	return &Number{Value: l * r}, nil
}

// Negate is arithmetic negation, defined for Numbers only.
func Negate(v Value) (Value, error) {
	n, ok := v.(*Number)
	if !ok {
		return nil, errs.Type("expected number, got %s", v.Type())
	}
	return &Number{Value: -n.Value}, nil
}

// Inverse is logical NOT, defined for Boolean only.
func Inverse(v Value) (Value, error) {
	b, ok := v.(*Boolean)
	if !ok {
		return nil, errs.Type("cannot inverse a non-boolean")
	}
	return FromNativeBool(!b.Value), nil
}

// Compare implements both equality operators. With allowTypeDiff (the
// `===`/`!==` family) a tag mismatch compares as false and Null may be
// compared. Without it (`==`/`!=`) a tag mismatch or a Null operand is a
// TypeError; only same-tag payloads are compared.
func Compare(left, right Value, allowTypeDiff bool) (Value, error) {
	if !SameType(left, right) {
		if allowTypeDiff {
			return FALSE, nil
		}
		return nil, errs.Type("cannot compare between values of different types, try using '===' or '!=='")
	}

	if left.Type() == NULL_OBJ && !allowTypeDiff {
		return nil, errs.Type("can't compare null values, use '===' or '!=='")
	}

	switch l := left.(type) {
	case *Boolean:
		return FromNativeBool(l.Value == right.(*Boolean).Value), nil
	case *Number:
		return FromNativeBool(l.Value == right.(*Number).Value), nil
	case *String:
		return FromNativeBool(l.Value == right.(*String).Value), nil
	case *Null:
		return TRUE, nil
	default:
		return nil, errs.Type("cannot compare values of this type")
	}
}

// CompareInequality implements < > <= >=, defined for Numbers only.
func CompareInequality(operator string, left, right Value) (Value, error) {
	l, r, err := bothNumbers(left, right)
	if err != nil {
		return nil, err
	}
	switch operator {
	case "<":
		return FromNativeBool(l < r), nil
	case ">":
		return FromNativeBool(l > r), nil
	case "<=":
		return FromNativeBool(l <= r), nil
	case ">=":
		return FromNativeBool(l >= r), nil
	default:
		return nil, errs.Parse("unknown inequality operator '%s'", operator)
	}
}

func bothNumbers(left, right Value) (int32, int32, error) {
	l, ok := left.(*Number)
	if !ok {
		return 0, 0, errs.Type("expected number, got %s", left.Type())
	}
	r, ok := right.(*Number)
	if !ok {
		return 0, 0, errs.Type("expected number, got %s", right.Type())
	}
	return l.Value, r.Value, nil
}
