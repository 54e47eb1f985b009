package interp

import (
	"testing"

	"jabroni/internal/errs"
	"jabroni/internal/value"
)

func evalNumber(t *testing.T, ip *Interp, input string) int32 {
	t.Helper()
	result, err := ip.RunExpression(input)
	if err != nil {
		t.Fatalf("%q failed: %v", input, err)
	}
	n, ok := result.(*value.Number)
	if !ok {
		t.Fatalf("%q is %T (%s), want *value.Number", input, result, result.Inspect())
	}
	return n.Value
}

func evalBoolean(t *testing.T, ip *Interp, input string) bool {
	t.Helper()
	result, err := ip.RunExpression(input)
	if err != nil {
		t.Fatalf("%q failed: %v", input, err)
	}
	b, ok := result.(*value.Boolean)
	if !ok {
		t.Fatalf("%q is %T (%s), want *value.Boolean", input, result, result.Inspect())
	}
	return b.Value
}

func evalString(t *testing.T, ip *Interp, input string) string {
	t.Helper()
	result, err := ip.RunExpression(input)
	if err != nil {
		t.Fatalf("%q failed: %v", input, err)
	}
	s, ok := result.(*value.String)
	if !ok {
		t.Fatalf("%q is %T (%s), want *value.String", input, result, result.Inspect())
	}
	return s.Value
}

func runNumber(t *testing.T, ip *Interp, script string) int32 {
	t.Helper()
	result, err := ip.RunScript(script)
	if err != nil {
		t.Fatalf("%q failed: %v", script, err)
	}
	n, ok := result.(*value.Number)
	if !ok {
		t.Fatalf("%q is %T (%s), want *value.Number", script, result, result.Inspect())
	}
	return n.Value
}

func TestSimpleExpressions(t *testing.T) {
	numberTests := []struct {
		input    string
		expected int32
	}{
		{"4", 4},
		{"2+2", 4},
		{"3*10-5", 25},
		{"1+(10-7)*3", 10},
		{"1==1?100:200", 100},
		{"1==2?100:200", 200},
	}
	booleanTests := []struct {
		input    string
		expected bool
	}{
		{"2+2==4", true},
		{"2+2==5", false},
		{"2+2==4==false", false},
		{"true==true", true},
		{"1!=2", true},
		{"1 < 2", true},
		{"2 <= 1", false},
		{"3 > 2", true},
		{"3 >= 3", true},
		{"!false", true},
	}

	ip := New()
	for _, tt := range numberTests {
		if got := evalNumber(t, ip, tt.input); got != tt.expected {
			t.Errorf("%q = %d, want %d", tt.input, got, tt.expected)
		}
	}
	for _, tt := range booleanTests {
		if got := evalBoolean(t, ip, tt.input); got != tt.expected {
			t.Errorf("%q = %t, want %t", tt.input, got, tt.expected)
		}
	}
}

func TestNegativeNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected int32
	}{
		{"-5", -5},
		{"--5", 5},
		{"3+-4", -1},
		{"-2*3", -6},
		{"-(2+3)", -5},
		{"10--5", 15},
	}

	ip := New()
	for _, tt := range tests {
		if got := evalNumber(t, ip, tt.input); got != tt.expected {
			t.Errorf("%q = %d, want %d", tt.input, got, tt.expected)
		}
	}

	if got := evalBoolean(t, ip, "-4==-4"); !got {
		t.Errorf("-4==-4 = %t, want true", got)
	}
	if _, err := ip.RunExpression("-true"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("negating a boolean should fail with a type error, got %v", err)
	}
}

func TestStrictComparison(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"4===4", true},
		{"4===5", false},
		{"4===false", false},
		{"4!==false", true},
		{"null===null", true},
		{"null!==null", false},
		{"null==='x'", false},
	}

	ip := New()
	for _, tt := range tests {
		if got := evalBoolean(t, ip, tt.input); got != tt.expected {
			t.Errorf("%q = %t, want %t", tt.input, got, tt.expected)
		}
	}
}

func TestForbidTypeMismatch(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("x", &value.Number{Value: 4}); err != nil {
		t.Fatal(err)
	}

	for _, input := range []string{"4==false", "true==4", "null==null", "x=true"} {
		if _, err := ip.RunExpression(input); !errs.IsKind(err, errs.KindType) {
			t.Errorf("%q should fail with a type error, got %v", input, err)
		}
	}

	// Assignments yield Null, which the exact comparison rejects.
	if _, err := ip.RunExpression("4==(x=4)"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("comparing against an assignment should fail with a type error, got %v", err)
	}
}

func TestConstants(t *testing.T) {
	ip := New()
	if err := ip.DefineConstant("FOO", &value.Number{Value: 42}); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "FOO"); got != 42 {
		t.Errorf("FOO = %d, want 42", got)
	}
	if got := evalNumber(t, ip, "FOO*10"); got != 420 {
		t.Errorf("FOO*10 = %d, want 420", got)
	}

	if _, err := ip.RunExpression("FOO=8"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("assigning a constant should fail with a type error, got %v", err)
	}
	if err := ip.DefineConstant("FOO", &value.Number{Value: 42}); !errs.IsKind(err, errs.KindDoubleDefinition) {
		t.Errorf("redefining FOO should fail with a double-definition error, got %v", err)
	}
	if err := ip.DefineVariable("FOO", &value.Number{Value: 42}); !errs.IsKind(err, errs.KindDoubleDefinition) {
		t.Errorf("redefining FOO as a variable should fail with a double-definition error, got %v", err)
	}
	if err := ip.UpdateVariable("FOO", &value.Number{Value: 42}); !errs.IsKind(err, errs.KindType) {
		t.Errorf("updating FOO should fail with a type error, got %v", err)
	}
}

func TestVariables(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("foo", &value.Number{Value: 42}); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "foo"); got != 42 {
		t.Errorf("foo = %d, want 42", got)
	}

	if _, err := ip.RunExpression("foo=420"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "foo"); got != 420 {
		t.Errorf("foo = %d, want 420", got)
	}

	if err := ip.DefineVariable("foo", &value.Number{Value: 42}); !errs.IsKind(err, errs.KindDoubleDefinition) {
		t.Errorf("redefining foo should fail with a double-definition error, got %v", err)
	}
	if err := ip.DefineConstant("foo", &value.Number{Value: 42}); !errs.IsKind(err, errs.KindDoubleDefinition) {
		t.Errorf("redefining foo as a constant should fail with a double-definition error, got %v", err)
	}

	if err := ip.UpdateVariable("foo", &value.Number{Value: 16}); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "foo"); got != 16 {
		t.Errorf("foo = %d, want 16", got)
	}
}

func TestStrings(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("foo", &value.String{Value: "Hello World!"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		assignment string
		expected   string
	}{
		{`foo='Shut up!'`, "Shut up!"},
		{`foo='\''`, "'"},
		{`foo="Hello!"`, "Hello!"},
		{`foo='\n\t\r'`, "\n\t\r"},
	}

	for _, tt := range tests {
		if _, err := ip.RunExpression(tt.assignment); err != nil {
			t.Fatalf("%q failed: %v", tt.assignment, err)
		}
		if got := evalString(t, ip, "foo"); got != tt.expected {
			t.Errorf("after %q, foo = %q, want %q", tt.assignment, got, tt.expected)
		}
	}
}

func TestObjects(t *testing.T) {
	ip := New()

	fields := value.NewScope()
	fields.Set("bar", value.Variable(&value.Number{Value: 8}))
	fields.Set("baz", value.Constant(&value.Number{Value: 42}))
	if err := ip.DefineVariable("foo", &value.Object{Fields: fields}); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "foo.bar"); got != 8 {
		t.Errorf("foo.bar = %d, want 8", got)
	}
	if got := evalNumber(t, ip, "foo.baz"); got != 42 {
		t.Errorf("foo.baz = %d, want 42", got)
	}

	if _, err := ip.RunExpression("foo.bar=0"); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.RunExpression("foo.baz=1"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("assigning a constant field should fail with a type error, got %v", err)
	}

	if got := evalNumber(t, ip, "foo.bar"); got != 0 {
		t.Errorf("foo.bar = %d, want 0", got)
	}
	if got := evalNumber(t, ip, "foo.baz"); got != 42 {
		t.Errorf("foo.baz = %d, want 42", got)
	}

	if _, err := ip.RunExpression("foo.missing"); !errs.IsKind(err, errs.KindReference) {
		t.Errorf("missing field should fail with a reference error, got %v", err)
	}
	if _, err := ip.RunExpression("foo.bar.nope"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("member access through a number should fail with a type error, got %v", err)
	}
}

func TestObjectMethod(t *testing.T) {
	ip := New()

	fields := value.NewScope()
	fields.Set("bar", value.Constant(value.NewSubroutine(0,
		func(_ *value.Scope, _ []value.Value) (value.Value, error) {
			return &value.Number{Value: 42}, nil
		})))
	if err := ip.DefineVariable("foo", &value.Object{Fields: fields}); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "foo.bar()"); got != 42 {
		t.Errorf("foo.bar() = %d, want 42", got)
	}
}

func TestCallNativeFunction(t *testing.T) {
	ip := New()
	err := ip.DefineConstant("foo", value.NewSubroutine(0,
		func(_ *value.Scope, _ []value.Value) (value.Value, error) {
			return &value.Number{Value: 42}, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "foo()"); got != 42 {
		t.Errorf("foo() = %d, want 42", got)
	}

	if _, err := ip.RunExpression("foo(1)"); !errs.IsKind(err, errs.KindInvalidArguments) {
		t.Errorf("wrong arity should fail with an invalid-arguments error, got %v", err)
	}
}

func TestCallScriptFunction(t *testing.T) {
	ip := New()

	if _, err := ip.RunScript("function foo() {return 42;}"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "foo()"); got != 42 {
		t.Errorf("foo() = %d, want 42", got)
	}

	if _, err := ip.RunScript("function add_one(x) {return x+1;}"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "add_one(41)"); got != 42 {
		t.Errorf("add_one(41) = %d, want 42", got)
	}

	if _, err := ip.RunScript("function add_together(x, y) {return x+y;}"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "add_together(9,10)"); got != 19 {
		t.Errorf("add_together(9,10) = %d, want 19", got)
	}
	if got := evalNumber(t, ip, "add_together(-9,-10)"); got != -19 {
		t.Errorf("add_together(-9,-10) = %d, want -19", got)
	}

	if _, err := ip.RunExpression("add_together(1)"); !errs.IsKind(err, errs.KindInvalidArguments) {
		t.Errorf("wrong arity should fail with an invalid-arguments error, got %v", err)
	}
	if _, err := ip.RunScript("function add_one() {}"); !errs.IsKind(err, errs.KindDoubleDefinition) {
		t.Errorf("redeclaring a function should fail with a double-definition error, got %v", err)
	}
}

func TestScriptFunctionIsolation(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("secret", &value.Number{Value: 7}); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.RunScript("function leak() {return secret;}"); err != nil {
		t.Fatal(err)
	}

	// The body runs against a fresh scope holding only the parameters, so
	// the caller's bindings are out of reach.
	if _, err := ip.RunExpression("leak()"); !errs.IsKind(err, errs.KindReference) {
		t.Errorf("function body should not see caller bindings, got %v", err)
	}
}

func TestScriptFunctionParametersAreConstants(t *testing.T) {
	ip := New()
	if _, err := ip.RunScript("function clobber(x) {x = 0; return x;}"); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.RunExpression("clobber(1)"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("assigning a parameter should fail with a type error, got %v", err)
	}
}

func TestStatements(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("x", &value.Number{Value: 0}); err != nil {
		t.Fatal(err)
	}
	if err := ip.DefineVariable("y", &value.Number{Value: 0}); err != nil {
		t.Fatal(err)
	}

	if _, err := ip.RunScript("x=0;y=1;x=2;\n"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "x"); got != 2 {
		t.Errorf("x = %d, want 2", got)
	}
	if got := evalNumber(t, ip, "y"); got != 1 {
		t.Errorf("y = %d, want 1", got)
	}

	// A script's value is its last statement's value; an empty script is Null.
	if got := runNumber(t, ip, "x=1; x+1"); got != 2 {
		t.Errorf("script value = %d, want 2", got)
	}
	result, err := ip.RunScript("")
	if err != nil || result != value.NULL {
		t.Errorf("empty script = %v, %v; want null", result, err)
	}

	// Execution stops at the first failing statement.
	if _, err := ip.RunScript("x=9; nope=1; x=3"); !errs.IsKind(err, errs.KindReference) {
		t.Fatalf("expected a reference error, got %v", err)
	}
	if got := evalNumber(t, ip, "x"); got != 9 {
		t.Errorf("x = %d after the failing script, want 9", got)
	}
}

func TestReturnStopsScript(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("x", &value.Number{Value: 0}); err != nil {
		t.Fatal(err)
	}

	if got := runNumber(t, ip, "x=1; return 10; x=2"); got != 10 {
		t.Errorf("script returned %d, want 10", got)
	}
	if got := evalNumber(t, ip, "x"); got != 1 {
		t.Errorf("x = %d, want 1 (statements after return must not run)", got)
	}

	// Return propagates out of nested blocks.
	if got := runNumber(t, ip, "{ { return 5; } x=3; } x=4"); got != 5 {
		t.Errorf("nested return gave %d, want 5", got)
	}
	if got := evalNumber(t, ip, "x"); got != 1 {
		t.Errorf("x = %d, want 1 (statements after a nested return must not run)", got)
	}
}

func TestBlockScoping(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("x", &value.Number{Value: 1}); err != nil {
		t.Fatal(err)
	}

	// Blocks see and mutate outer bindings.
	if _, err := ip.RunScript("{ x = 2; }"); err != nil {
		t.Fatal(err)
	}
	if got := evalNumber(t, ip, "x"); got != 2 {
		t.Errorf("x = %d, want 2", got)
	}

	// The value of a block is its last statement's value.
	if got := runNumber(t, ip, "{ x = 3; x + 1 }"); got != 4 {
		t.Errorf("block value = %d, want 4", got)
	}
}

func TestTernaryShortCircuit(t *testing.T) {
	ip := New()

	calls := map[string]int{}
	record := func(name string, result int32) *value.Subroutine {
		return value.NewSubroutine(0, func(_ *value.Scope, _ []value.Value) (value.Value, error) {
			calls[name]++
			return &value.Number{Value: result}, nil
		})
	}
	if err := ip.DefineConstant("yes", record("yes", 1)); err != nil {
		t.Fatal(err)
	}
	if err := ip.DefineConstant("no", record("no", 2)); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "true ? yes() : no()"); got != 1 {
		t.Errorf("result = %d, want 1", got)
	}
	if calls["yes"] != 1 || calls["no"] != 0 {
		t.Errorf("calls = %v, want only the selected branch evaluated", calls)
	}

	if got := evalNumber(t, ip, "false ? yes() : no()"); got != 2 {
		t.Errorf("result = %d, want 2", got)
	}
	if calls["yes"] != 1 || calls["no"] != 1 {
		t.Errorf("calls = %v, want only the selected branch evaluated", calls)
	}

	if _, err := ip.RunExpression("1 ? 2 : 3"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("non-boolean ternary condition should fail with a type error, got %v", err)
	}
}

func TestArgumentEvaluationOrder(t *testing.T) {
	ip := New()

	var order []int32
	err := ip.DefineConstant("mark", value.NewSubroutine(1,
		func(_ *value.Scope, args []value.Value) (value.Value, error) {
			n := args[0].(*value.Number)
			order = append(order, n.Value)
			return n, nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	err = ip.DefineConstant("sum", value.NewSubroutine(3,
		func(_ *value.Scope, args []value.Value) (value.Value, error) {
			total := int32(0)
			for _, arg := range args {
				total += arg.(*value.Number).Value
			}
			return &value.Number{Value: total}, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "sum(mark(1), mark(2), mark(3))"); got != 6 {
		t.Errorf("sum = %d, want 6", got)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("arguments evaluated in order %v, want [1 2 3]", order)
	}
}

func TestCallErrors(t *testing.T) {
	ip := New()
	if err := ip.DefineVariable("x", &value.Number{Value: 4}); err != nil {
		t.Fatal(err)
	}

	if _, err := ip.RunExpression("x()"); !errs.IsKind(err, errs.KindType) {
		t.Errorf("calling a number should fail with a type error, got %v", err)
	}
	if _, err := ip.RunExpression("missing()"); !errs.IsKind(err, errs.KindReference) {
		t.Errorf("calling an unknown name should fail with a reference error, got %v", err)
	}
}

func TestValueReadsAreIsolated(t *testing.T) {
	ip := New()

	fields := value.NewScope()
	fields.Set("bar", value.Variable(&value.Number{Value: 8}))
	if err := ip.DefineVariable("foo", &value.Object{Fields: fields}); err != nil {
		t.Fatal(err)
	}

	// Reading an identifier yields a copy; mutating the copy must not
	// touch the binding.
	snapshot, err := ip.RunExpression("foo")
	if err != nil {
		t.Fatal(err)
	}
	copyBinding, _ := snapshot.(*value.Object).Fields.Get("bar")
	if err := copyBinding.SetValue(&value.Number{Value: 99}); err != nil {
		t.Fatal(err)
	}

	if got := evalNumber(t, ip, "foo.bar"); got != 8 {
		t.Errorf("foo.bar = %d, want 8 (reads must be isolated copies)", got)
	}
}
