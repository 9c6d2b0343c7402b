package internal

import (
	"fmt"
	"testing"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func checkExpression(t *testing.T, exp string, result ...string) {
	t.Helper()
	source := "print(" + exp + ");"
	tp := &testPrinter{}
	RunSourceWithPrinter("", source, tp)
	any := false
	for _, r := range result {
		if tp.Equals(r) {
			any = true
			break
		}
	}
	if !any {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	result := fmt.Sprintf("[line %d] Runtime error: %s", line, errorMsg)

	tp := &testPrinter{}
	if RunSourceWithPrinter("", source, tp) {
		t.Errorf("\nSource:\n----\n%s\n----\nshould have failed", source)
	}
	if !tp.Equals(result) {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			result,
			tp.printed,
		)
	}
}

func checkCompileError(t *testing.T, source string, diagnostics ...string) {
	t.Helper()
	expected := ""
	for _, d := range diagnostics {
		expected += d + "\n"
	}

	tp := &testPrinter{}
	if RunSourceWithPrinter("", source, tp) {
		t.Errorf("\nSource:\n----\n%s\n----\nshould have failed", source)
	}
	if tp.printed != expected {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s----\nFound:\n----\n%s----",
			source,
			expected,
			tp.printed,
		)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	source := code + "\nprint(" + resultVar + ");"
	tp := &testPrinter{}
	RunSourceWithPrinter("", source, tp)
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\t%s should be equal to %s instead of %s",
			code,
			resultVar,
			result,
			tp.printed,
		)
	}
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		// Number
		checkExpression(t, "1", "1")

		// Negative
		checkExpression(t, "-1", "-1")

		// Add numbers
		checkExpression(t, "1 + 2 + 3", "6")

		// Subtract numbers, left associative
		checkExpression(t, "1 - 2 - 3", "-4")

		// Multiply numbers
		checkExpression(t, "1 * 2 * 3", "6")

		// Divide numbers
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "7 / 2", "3.5")

		// Precedence
		checkExpression(t, "1 + 2 * 3", "7")
		checkExpression(t, "(1 + 2) * 3", "9")
		checkExpression(t, "-(1 + 2) * 3", "-9")
	}

	// Logical
	{
		// 'true' literal
		checkExpression(t, "true", "true")

		// 'false' literal
		checkExpression(t, "false", "false")

		// 'null' literal
		checkExpression(t, "null", "null")

		// not
		checkExpression(t, "!false", "true")
		checkExpression(t, "!true", "false")
		checkExpression(t, "!null", "true")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!0", "false")
		checkExpression(t, "!!1", "true")

		// and
		checkExpression(t, "true and true", "true")
		checkExpression(t, "false and true", "false")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "null and undefinedName", "null")

		// or
		checkExpression(t, "false or false", "false")
		checkExpression(t, "false or true", "true")
		checkExpression(t, "null or 3", "3")
		checkExpression(t, "1 or undefinedName", "1")
	}

	// Strings
	{
		// String literal
		checkExpression(t, `"test"`, "test")

		// String concat
		checkExpression(t, `"te" + "st"`, "test")
	}

	// Comparisons
	{
		// String Equality
		checkExpression(t, `"test" == "test"`, "true")
		checkExpression(t, `"test" != "test"`, "false")

		// Number Equality
		checkExpression(t, `2*2 == 8-4`, "true")
		checkExpression(t, `2*2 != 8-4`, "false")

		// Mixed types are never equal
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, `null == false`, "false")
		checkExpression(t, `null == null`, "true")

		// Number gt
		checkExpression(t, `10 > 5`, "true")

		// Number lt
		checkExpression(t, `10 < 5`, "false")

		// Number gte
		checkExpression(t, `5 >= 5`, "true")
		checkExpression(t, `4 >= 5`, "false")

		// Number lte
		checkExpression(t, `5 <= 5`, "true")
		checkExpression(t, `10 <= 5`, "false")

		// Grouping
		checkExpression(t, `(5 <= 5) and (!true or ((1*(1+4)) == 5))`, "true")
	}

	// Values
	{
		checkExpression(t, "clock", "<native fn clock>")
		checkExpression(t, "clock() >= 0", "true")
	}
}

func TestStatements(t *testing.T) {
	// Variables
	{
		checkStatements(t, `var a = 1;`, "a", "1")

		checkStatements(t, `
		var a = 1;
		a = a + 1;
		`, "a", "2")

		// Redeclaring a global reads the previous value
		checkStatements(t, `
		var a = 1;
		var a = a + 1;
		`, "a", "2")

		// Assignment is right associative
		checkStatements(t, `
		var a = 1;
		var b = 2;
		a = b = 3;
		var result = a + b;
		`, "result", "6")

		// Shadowing in blocks
		checkStatements(t, `
		var a = "outer";
		var result = "";
		{
			var a = "inner";
			result = a;
		}
		result = result + a;
		`, "result", "innerouter")
	}

	// Control flow
	{
		checkStatements(t, `
		var result = "";
		if (1 < 2) result = "then"; else result = "else";
		`, "result", "then")

		checkStatements(t, `
		var result = "";
		if (null) result = "then"; else result = "else";
		`, "result", "else")

		checkStatements(t, `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		`, "sum", "10")
	}

	// Functions
	{
		checkStatements(t, `
		fun add(a, b) {
			return a + b;
		}
		var result = add(1, 2);
		`, "result", "3")

		checkStatements(t, `
		fun nothing() {}
		var result = nothing();
		`, "result", "null")

		checkStatements(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		var result = fib(10);
		`, "result", "55")

		// Return unwinds loops and blocks but only up to the call
		checkStatements(t, `
		fun first() {
			var i = 0;
			while (true) {
				{
					if (i == 3) return i;
				}
				i = i + 1;
			}
		}
		var result = first() + first();
		`, "result", "6")

		checkStatements(t, `
		fun greet() {}
		var result = greet;
		`, "result", "<fn greet>")
	}

	// Closures
	{
		checkStatements(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		var result = counter();
		`, "result", "2")

		// Counters from separate calls do not share state
		checkStatements(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var a = makeCounter();
		var b = makeCounter();
		a();
		a();
		var result = a() * 10 + b();
		`, "result", "31")

		// Two closures over the same frame see each other's writes
		checkStatements(t, `
		var get = null;
		var set = null;
		fun pair() {
			var value = "before";
			fun g() { return value; }
			fun s(v) { value = v; }
			get = g;
			set = s;
		}
		pair();
		set("after");
		var result = get();
		`, "result", "after")

		// A closure keeps the binding visible where it was declared
		checkStatements(t, `
		var a = "global";
		var result = "";
		{
			fun show() {
				return a;
			}
			result = show();
			var a = "block";
			result = result + show();
		}
		`, "result", "globalglobal")
	}

	// Classes
	{
		checkStatements(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		var p = Point(1, 2);
		var result = p.sum();
		`, "result", "3")

		checkStatements(t, `
		class Point {}
		var result = Point;
		`, "result", "Point")

		checkStatements(t, `
		class Point {}
		var result = Point();
		`, "result", "Point instance")

		// Fields shadow methods
		checkStatements(t, `
		class A {
			m() { return "method"; }
		}
		var a = A();
		a.m = "field";
		var result = a.m;
		`, "result", "field")

		// Methods stay bound to their instance
		checkStatements(t, `
		class Box {
			init(v) { this.v = v; }
			get() { return this.v; }
		}
		var getA = Box(1).get;
		var getB = Box(2).get;
		var result = getA() + getB() * 10;
		`, "result", "21")

		// Initializer returns the instance even when called again
		checkStatements(t, `
		class C {
			init() {
				this.a = 1;
				return;
			}
		}
		var c = C();
		var result = c.init().a;
		`, "result", "1")

		// A callback stored in a field runs in its own closure
		checkStatements(t, `
		class Holder {
			init(cb) { this.cb = cb; }
			run() { return this.cb(); }
		}
		fun make() {
			var n = 0;
			fun inc() {
				n = n + 1;
				return n;
			}
			return inc;
		}
		var h = Holder(make());
		h.run();
		var result = h.run();
		`, "result", "2")
	}

	// Inheritance
	{
		checkStatements(t, `
		class A {
			name() { return "A"; }
			greet() { return "hi " + this.name(); }
		}
		class B < A {
			name() { return "B"; }
			greet() { return super.greet() + "!"; }
		}
		var result = B().greet();
		`, "result", "hi B!")

		checkStatements(t, `
		class A {
			init(x) { this.x = x; }
		}
		class B < A {}
		var result = B(7).x;
		`, "result", "7")

		checkStatements(t, `
		class A {
			method() { return "A"; }
		}
		class B < A {
			method() {
				fun inner() { return super.method(); }
				return inner();
			}
		}
		var result = B().method();
		`, "result", "A")
	}
}

func TestRuntimeErrors(t *testing.T) {
	// Expression errors
	{
		// Binary expression on strings
		checkErrorMsg(t, `"A" - "B";`, errOnlyNumbers.Error(), 1)

		// Adding mixed types
		checkErrorMsg(t, `1 + "B";`, errOnlyNumbersOrStrings.Error(), 1)

		// Unary expression on string
		checkErrorMsg(t, `-"B";`, errOnlyNumber.Error(), 1)

		// Call not callable
		checkErrorMsg(t, `"B"();`, errOnlyFunction.Error(), 1)

		// Wrong number of arguments
		checkErrorMsg(t, `
		fun f(a, b) { return a; }
		f(1);
		`, "Expected 2 arguments but got 1.", 3)

		// Get expr on non-object
		checkErrorMsg(t, `var x = 1; x.y;`, errOnlyInstanceProps.Error(), 1)

		// Set expr on non-object
		checkErrorMsg(t, `var x = 1; x.y = 2;`, errOnlyInstanceFields.Error(), 1)

		// Missing property
		checkErrorMsg(t, `class A {} A().foo;`, "Undefined property 'foo'.", 1)

		// Missing super method
		checkErrorMsg(t, `
		class A {}
		class B < A {
			m() { return super.m(); }
		}
		B().m();
		`, "Undefined property 'm'.", 4)
	}

	// Statement errors
	{
		// Undefined variable
		checkErrorMsg(t, `var a = b;`, "Undefined variable 'b'.", 1)

		// Undefined variable assignment
		checkErrorMsg(t, `a = 1;`, "Undefined variable 'a'.", 1)

		// Error on a later line
		checkErrorMsg(t, "var a = 1;\n\nprint(b);", "Undefined variable 'b'.", 3)

		// A fault inside a function is not taken as its return value
		checkErrorMsg(t, `
		fun f() { return missing; }
		var r = f();
		`, "Undefined variable 'missing'.", 2)

		// Superclass must be a class
		checkErrorMsg(t, `
		var NotClass = 1;
		class B < NotClass {}
		`, errSuperclassNotClass.Error(), 3)
	}

	// Unbounded recursion
	{
		checkErrorMsg(t, `fun f() { f(); } f();`, errStackOverflow.Error(), 1)

		checkErrorMsg(t, `fun f(n) { return f(n + 1); } f(0);`, errStackOverflow.Error(), 1)

		checkErrorMsg(t, `
		class A {
			init() {
				A();
			}
		}
		A();
		`, errStackOverflow.Error(), 4)
	}
}

func TestCallDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 10
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
	tp := &testPrinter{}
	interp := NewInterpreter(cfg, tp, tp, nil)

	if !interp.Run("", `
	fun down(n) {
		if (n == 0) return "bottom";
		return down(n - 1);
	}
	print(down(9));
	`) {
		t.Fatalf("nine nested calls should fit: %s", tp.printed)
	}
	if !tp.Equals("bottom") {
		t.Errorf("expected bottom, found %s", tp.printed)
	}

	if interp.Run("", `print(down(10));`) {
		t.Fatal("eleven nested calls should overflow")
	}
	// reported at the innermost call, inside down
	if !tp.Equals("[line 4] Runtime error: Stack overflow.") {
		t.Errorf("unexpected output %s", tp.printed)
	}

	// the depth unwinds after an overflow
	if !interp.Run("", `print(down(9));`) || !tp.Equals("bottom") {
		t.Errorf("run after overflow failed: %s", tp.printed)
	}
}

func TestStaticErrors(t *testing.T) {
	checkCompileError(t, `var x = ;`, "[line 1] Error at ';': Unexpected token ';'.")

	checkCompileError(t, "print(1);\n@", "[line 2] Error at '@': Unexpected character.")

	checkCompileError(t, `"abc`, "[line 1] Error at '\"abc': Unterminated string.")

	checkCompileError(t, `return 1;`, "[line 1] Error at 'return': Cannot return from top-level code.")

	checkCompileError(t, `print(this);`, "[line 1] Error at 'this': Cannot use 'this' outside of a class.")

	checkCompileError(t, `super.m();`, "[line 1] Error at 'super': Cannot use 'super' outside of a class.")

	checkCompileError(t, `{ var a = a; }`, "[line 1] Error at 'a': Cannot read local variable in its own initializer.")

	checkCompileError(t, `fun f() { var a = 1; var a = 2; }`, "[line 1] Error at 'a': Variable with this name already declared in this scope.")

	checkCompileError(t, `class A < A {}`, "[line 1] Error at 'A': A class cannot inherit from itself.")

	checkCompileError(t, `class A { m() { return super.m(); } }`, "[line 1] Error at 'super': Cannot use 'super' in a class with no superclass.")

	checkCompileError(t, `class A { init() { return 1; } }`, "[line 1] Error at 'return': Cannot return a value from an initializer.")

	// Nothing runs when there is an error anywhere
	checkCompileError(t, "print(1);\nvar = 2;", "[line 2] Error at '=': Expect variable name.")
}

func TestGlobalsSurviveRuns(t *testing.T) {
	tp := &testPrinter{}
	interp := NewInterpreter(nil, tp, tp, nil)

	if !interp.Run("first", `
	var counter = 0;
	fun bump() {
		var step = 1;
		counter = counter + step;
		return counter;
	}
	`) {
		t.Fatalf("first run failed: %s", tp.printed)
	}
	if !interp.Run("second", `bump(); print(bump());`) {
		t.Fatalf("second run failed: %s", tp.printed)
	}
	if !tp.Equals("2") {
		t.Errorf("expected 2, found %s", tp.printed)
	}
}

func BenchmarkRun(b *testing.B) {
	source := `
	var a = 1;
	while (a < 10000) {
		a = a + 1;
	}
	`
	tp := &testPrinter{}
	for i := 0; i < b.N; i++ {
		if !RunSourceWithPrinter("", source, tp) {
			b.Fatal(tp.printed)
		}
	}
}
