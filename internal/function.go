package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

// function is a declaration plus the frame it was created in. It never
// mutates its declaration, bind produces a new value instead.
type function struct {
	declaration   *functionStmt
	closure       *env
	isInitializer bool
}

type nativeFn struct {
	name       string
	arityValue int
	callFn     func(arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return n.callFn(arguments)
}

func (n *nativeFn) String() string {
	return "<native fn " + n.name + ">"
}

// arity is the number of arguments a call must supply, callers check it
func (f *function) arity() int {
	return len(f.declaration.params)
}

func (f *function) call(exec *exec, arguments []interface{}) (interface{}, error) {
	env := f.closure.enterScope()
	for i, param := range f.declaration.params {
		env.define(param.lexeme, arguments[i])
	}

	result, err := exec.executeBlock(f.declaration.body.stmts, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.getAt(0, "this"), nil
	}
	if result.kind == returnCompletion {
		return result.value, nil
	}
	return nil, nil
}

func (f *function) bind(instance *object) *function {
	environment := f.closure.enterScope()
	environment.define("this", instance)
	return &function{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}
