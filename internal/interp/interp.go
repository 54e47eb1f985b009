package interp

import (
	"log/slog"

	"jabroni/internal/ast"
	"jabroni/internal/errs"
	"jabroni/internal/parser"
	"jabroni/internal/value"
)

// Interp evaluates parsed syntax trees against a layered scope. It is the
// host embedding surface: hosts define bindings (including native
// subroutines) and then run expressions or scripts against them.
//
// Execution is single-threaded and synchronous; an Interp must not be
// shared across goroutines.
type Interp struct {
	bindings *value.Scope
}

func New() *Interp {
	return &Interp{bindings: value.NewScope()}
}

// DefineConstant binds ident immutably in the current top frame.
func (e *Interp) DefineConstant(ident string, val value.Value) error {
	return e.bindings.DefineBinding(ident, val, false)
}

// DefineVariable binds ident mutably in the current top frame.
func (e *Interp) DefineVariable(ident string, val value.Value) error {
	return e.bindings.DefineBinding(ident, val, true)
}

// UpdateVariable reassigns an existing binding, subject to the binding's
// mutability and type-invariance rules.
func (e *Interp) UpdateVariable(ident string, val value.Value) error {
	binding, err := e.bindings.Get(ident)
	if err != nil {
		return err
	}
	return binding.SetValue(val)
}

// RunExpression parses code with the expression entry rule and evaluates it.
func (e *Interp) RunExpression(code string) (value.Value, error) {
	node, err := parser.ParseExpression(code)
	if err != nil {
		return nil, err
	}
	return e.interpretExpression(node)
}

// RunScript parses code with the script entry rule and evaluates each
// statement in order. The result is the value of the last statement, or the
// value of the first `return` reached. Execution stops at the first failing
// statement.
func (e *Interp) RunScript(code string) (value.Value, error) {
	program, err := parser.ParseScript(code)
	if err != nil {
		return nil, err
	}

	var result value.Value = value.NULL
	for _, statement := range program.Statements {
		result, err = e.interpretStatement(statement)
		if err != nil {
			return nil, err
		}
		if rv, ok := result.(*returnValue); ok {
			return rv.inner, nil
		}
	}
	return result, nil
}

// interpretLvalue resolves the binding an identifier or member-access
// expression refers to. The returned binding is the live storage slot, used
// by assignment and by function-call resolution alike.
func (e *Interp) interpretLvalue(node ast.Expression, scope *value.Scope) (*value.Binding, error) {
	switch node := node.(type) {
	case *ast.Identifier:
		return scope.Get(node.Value)
	case *ast.MemberAccess:
		binding, err := e.interpretLvalue(node.Object, scope)
		if err != nil {
			return nil, err
		}
		object, ok := binding.Value().(*value.Object)
		if !ok {
			return nil, errs.Type("'%s' is not an object", node.Object.String())
		}
		return object.Fields.Get(node.Property.Value)
	default:
		return nil, errs.Parse("cannot make out lvalue expression: %s", node.String())
	}
}

func (e *Interp) interpretExpression(node ast.Expression) (value.Value, error) {
	switch node := node.(type) {

	case *ast.Identifier, *ast.MemberAccess:
		binding, err := e.interpretLvalue(node, e.bindings)
		if err != nil {
			return nil, err
		}
		return binding.Value().Clone(), nil

	case *ast.NumberLiteral:
		return value.FromNumericLiteral(node.Literal)

	case *ast.StringLiteral:
		return value.FromStringLiteral(node.Literal)

	case *ast.BooleanLiteral:
		return value.FromBooleanLiteral(node.Literal)

	case *ast.NullLiteral:
		return value.NULL, nil

	case *ast.PrefixExpression:
		right, err := e.interpretExpression(node.Right)
		if err != nil {
			return nil, err
		}
		switch node.Operator {
		case "!":
			return value.Inverse(right)
		case "-":
			return value.Negate(right)
		default:
			return nil, errs.Parse("unimplemented prefix operator: %s", node.Operator)
		}

	case *ast.CallExpression:
		return e.interpretCall(node)

	case *ast.TernaryExpression:
		condition, err := e.interpretExpression(node.Condition)
		if err != nil {
			return nil, err
		}
		boolean, ok := condition.(*value.Boolean)
		if !ok {
			return nil, errs.Type("ternary condition must be boolean, got %s", condition.Type())
		}
		// Only the selected branch is evaluated.
		if boolean.Value {
			return e.interpretExpression(node.Consequence)
		}
		return e.interpretExpression(node.Alternative)

	case *ast.AssignExpression:
		if node.Operator != "=" {
			return nil, errs.Parse("unimplemented assignment operator: %s", node.Operator)
		}
		operand, err := e.interpretExpression(node.Value)
		if err != nil {
			return nil, err
		}
		binding, err := e.interpretLvalue(node.Target, e.bindings)
		if err != nil {
			return nil, err
		}
		if err := binding.SetValue(operand); err != nil {
			return nil, err
		}
		// Assignments yield Null so they can never pose as comparisons.
		return value.NULL, nil

	case *ast.InfixExpression:
		left, err := e.interpretExpression(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.interpretExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return e.applyOperator(node.Operator, left, right)

	default:
		return nil, errs.Parse("unimplemented expression: %s", node.String())
	}
}

func (e *Interp) applyOperator(operator string, left, right value.Value) (value.Value, error) {
	switch operator {
	case "==":
		return value.Compare(left, right, false)
	case "===":
		return value.Compare(left, right, true)
	case "!=":
		result, err := value.Compare(left, right, false)
		if err != nil {
			return nil, err
		}
		return value.Inverse(result)
	case "!==":
		result, err := value.Compare(left, right, true)
		if err != nil {
			return nil, err
		}
		return value.Inverse(result)
	case "+":
		return value.Add(left, right)
	case "-":
		return value.Subtract(left, right)
	case "*":
		return value.Multiply(left, right)
	case "<", ">", "<=", ">=":
		return value.CompareInequality(operator, left, right)
	default:
		return nil, errs.Parse("unimplemented operator: %s", operator)
	}
}

func (e *Interp) interpretCall(node *ast.CallExpression) (value.Value, error) {
	binding, err := e.interpretLvalue(node.Function, e.bindings)
	if err != nil {
		return nil, err
	}
	subroutine, ok := binding.Value().(*value.Subroutine)
	if !ok {
		return nil, errs.Type("'%s' is not a function", node.Function.String())
	}

	args := make([]value.Value, 0, len(node.Arguments))
	for _, argument := range node.Arguments {
		arg, err := e.interpretExpression(argument)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	slog.Debug("calling subroutine",
		slog.String("callee", node.Function.String()),
		slog.Int("args", len(args)))

	return subroutine.Call(e.bindings, args)
}

func (e *Interp) interpretStatement(statement ast.Statement) (value.Value, error) {
	switch statement := statement.(type) {

	case *ast.ExpressionStatement:
		return e.interpretExpression(statement.Expression)

	case *ast.BlockStatement:
		return e.interpretBlock(statement)

	case *ast.FunctionStatement:
		return e.interpretFunctionStatement(statement)

	case *ast.ReturnStatement:
		result, err := e.interpretExpression(statement.ReturnValue)
		if err != nil {
			return nil, err
		}
		return &returnValue{inner: result}, nil

	default:
		return nil, errs.Parse("unimplemented statement: %s", statement.String())
	}
}

// interpretBlock runs the block's statements in a nested context. The value
// of a block is the value of its last statement, Null if empty.
func (e *Interp) interpretBlock(block *ast.BlockStatement) (value.Value, error) {
	outer := e.bindings
	e.bindings = outer.NewNestedContext()
	defer func() { e.bindings = outer }()

	var result value.Value = value.NULL
	for _, statement := range block.Statements {
		var err error
		result, err = e.interpretStatement(statement)
		if err != nil {
			return nil, err
		}
		if _, ok := result.(*returnValue); ok {
			return result, nil
		}
	}
	return result, nil
}

// interpretFunctionStatement binds the declared name as a constant
// Subroutine. The body source is kept unevaluated; invocation runs it as a
// script against a brand-new scope holding only the parameter constants, so
// the function sees nothing of the caller's bindings beyond its arguments.
func (e *Interp) interpretFunctionStatement(statement *ast.FunctionStatement) (value.Value, error) {
	params := make([]string, 0, len(statement.Parameters))
	for _, param := range statement.Parameters {
		params = append(params, param.Value)
	}
	body := statement.Body

	callback := func(_ *value.Scope, args []value.Value) (value.Value, error) {
		substate := New()
		for i, param := range params {
			substate.bindings.Set(param, value.Constant(args[i].Clone()))
		}
		return substate.RunScript(body)
	}

	subroutine := value.NewSubroutine(len(params), callback)
	if err := e.bindings.DefineBinding(statement.Name.Value, subroutine, false); err != nil {
		return nil, err
	}
	return value.NULL, nil
}

// returnValue wraps the result of a `return` statement so it can propagate
// out of nested blocks to the script boundary.
type returnValue struct {
	inner value.Value
}

func (rv *returnValue) Type() value.Type { return "RETURN_VALUE" }
func (rv *returnValue) Inspect() string  { return rv.inner.Inspect() }
func (rv *returnValue) Clone() value.Value {
	return &returnValue{inner: rv.inner.Clone()}
}
