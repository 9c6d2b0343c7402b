package internal

import (
	"errors"
	"fmt"

	"vox/internal/tokens"
)

type completionKind int

const (
	normalCompletion completionKind = iota
	returnCompletion
)

// completion is how a statement finished. A return travels up as a value,
// never as an error, and is consumed by the innermost function call.
type completion struct {
	kind  completionKind
	value interface{}
}

var normal = completion{kind: normalCompletion}

type exec struct {
	state *interpreterState

	globals *env
	env     *env
	locals  map[expr]int

	depth    int
	maxDepth int
}

func newExec(state *interpreterState, globals *env, locals map[expr]int, cfg *Config) *exec {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &exec{
		state:    state,
		globals:  globals,
		env:      globals,
		locals:   locals,
		maxDepth: cfg.MaxCallDepth,
	}
}

func (e *exec) interpret(stmts []stmt) bool {
	for _, s := range stmts {
		if _, err := e.execute(s); err != nil {
			var runErr *runtimeError
			if !errors.As(err, &runErr) {
				runErr = runtimeErr(err, &token{token: tokens.EOF})
			}
			e.state.runtimeError = runErr
			e.state.logger.WithField("line", runErr.token.line).Debug(runErr.Error())
			return false
		}
	}
	return true
}

func (e *exec) execute(s stmt) (completion, error) {
	switch st := s.(type) {
	case *exprStmt:
		_, err := e.evaluate(st.expression)
		return normal, err

	case *varStmt:
		// declare first so a global is not reset before its initializer reads it
		e.env.declare(st.name)
		value, err := e.evaluate(st.initializer)
		if err != nil {
			return normal, err
		}
		e.env.define(st.name.lexeme, value)
		return normal, nil

	case *blockStmt:
		return e.executeBlock(st.stmts, e.env.enterScope())

	case *ifStmt:
		cond, err := e.evaluate(st.condition)
		if err != nil {
			return normal, err
		}
		if truthy(cond) {
			return e.execute(st.thenBranch)
		}
		if st.elseBranch != nil {
			return e.execute(st.elseBranch)
		}
		return normal, nil

	case *whileStmt:
		for {
			cond, err := e.evaluate(st.condition)
			if err != nil {
				return normal, err
			}
			if !truthy(cond) {
				return normal, nil
			}
			result, err := e.execute(st.body)
			if err != nil || result.kind == returnCompletion {
				return result, err
			}
		}

	case *functionStmt:
		e.env.define(st.name.lexeme, &function{
			declaration: st,
			closure:     e.env,
		})
		return normal, nil

	case *returnStmt:
		var value interface{}
		if st.value != nil {
			v, err := e.evaluate(st.value)
			if err != nil {
				return normal, err
			}
			value = v
		}
		return completion{kind: returnCompletion, value: value}, nil

	case *classStmt:
		return normal, e.executeClass(st)
	}

	panic(fmt.Sprintf("unexpected statement %T", s))
}

func (e *exec) executeBlock(stmts []stmt, env *env) (completion, error) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		result, err := e.execute(s)
		if err != nil || result.kind == returnCompletion {
			return result, err
		}
	}
	return normal, nil
}

func (e *exec) executeClass(st *classStmt) error {
	var superclass *class
	if st.superclass != nil {
		value, err := e.evaluate(st.superclass)
		if err != nil {
			return err
		}
		sc, ok := value.(*class)
		if !ok {
			return runtimeErr(errSuperclassNotClass, st.superclass.name)
		}
		superclass = sc
	}

	e.env.declare(st.name)

	enclosing := e.env
	if superclass != nil {
		e.env = e.env.enterScope()
		e.env.define("super", superclass)
	}

	methods := make(map[string]*function, len(st.methods))
	for _, method := range st.methods {
		methods[method.name.lexeme] = &function{
			declaration:   method,
			closure:       e.env,
			isInitializer: method.name.lexeme == "init",
		}
	}

	e.env = enclosing
	e.env.define(st.name.lexeme, &class{
		name:       st.name.lexeme,
		superclass: superclass,
		methods:    methods,
	})
	return nil
}

func (e *exec) evaluate(x expr) (interface{}, error) {
	switch ex := x.(type) {
	case *literalExpr:
		return ex.value, nil

	case *groupingExpr:
		return e.evaluate(ex.expression)

	case *variableExpr:
		return e.lookupVariable(ex.name, ex)

	case *assignExpr:
		return e.evaluateAssign(ex)

	case *logicalExpr:
		left, err := e.evaluate(ex.left)
		if err != nil {
			return nil, err
		}
		if ex.operator.token == tokens.OR {
			if truthy(left) {
				return left, nil
			}
		} else if !truthy(left) {
			return left, nil
		}
		return e.evaluate(ex.right)

	case *binaryExpr:
		left, err := e.evaluate(ex.left)
		if err != nil {
			return nil, err
		}
		right, err := e.evaluate(ex.right)
		if err != nil {
			return nil, err
		}
		op, ok := binaryOperators[ex.operator.token]
		if !ok {
			return nil, runtimeErr(errUndefinedOp, ex.operator)
		}
		value, err := applyOperator(op, left, right)
		if err != nil {
			return nil, runtimeErr(err, ex.operator)
		}
		return value, nil

	case *unaryExpr:
		right, err := e.evaluate(ex.right)
		if err != nil {
			return nil, err
		}
		switch ex.operator.token {
		case tokens.BANG:
			return !truthy(right), nil
		case tokens.MINUS:
			num, ok := right.(float64)
			if !ok {
				return nil, runtimeErr(errOnlyNumber, ex.operator)
			}
			return -num, nil
		}
		return nil, runtimeErr(errUndefinedOp, ex.operator)

	case *callExpr:
		return e.evaluateCall(ex)

	case *propertyExpr:
		value, err := e.evaluate(ex.object)
		if err != nil {
			return nil, err
		}
		obj, ok := value.(*object)
		if !ok {
			return nil, runtimeErr(errOnlyInstanceProps, ex.name)
		}
		return obj.get(ex.name)

	case *thisExpr:
		return e.lookupVariable(ex.keyword, ex)

	case *superExpr:
		distance := e.locals[ex]
		superclass := e.env.getAt(distance, "super").(*class)
		// "this" always lives in the frame right inside the one holding "super"
		obj := e.env.getAt(distance-1, "this").(*object)
		method := superclass.findMethod(ex.method.lexeme)
		if method == nil {
			return nil, newRuntimeError(errUndefinedProp, ex.method, "Undefined property '%s'.", ex.method.lexeme)
		}
		return method.bind(obj), nil
	}

	panic(fmt.Sprintf("unexpected expression %T", x))
}

func (e *exec) evaluateAssign(ex *assignExpr) (interface{}, error) {
	if ex.object != nil {
		target, err := e.evaluate(ex.object)
		if err != nil {
			return nil, err
		}
		obj, ok := target.(*object)
		if !ok {
			return nil, runtimeErr(errOnlyInstanceFields, ex.name)
		}
		value, err := e.evaluate(ex.value)
		if err != nil {
			return nil, err
		}
		obj.set(ex.name, value)
		return value, nil
	}

	value, err := e.evaluate(ex.value)
	if err != nil {
		return nil, err
	}
	if distance, ok := e.locals[ex]; ok {
		e.env.setAt(distance, ex.name, value)
		return value, nil
	}
	if err := e.globals.set(ex.name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (e *exec) evaluateCall(ex *callExpr) (interface{}, error) {
	callee, err := e.evaluate(ex.callee)
	if err != nil {
		return nil, err
	}
	arguments := make([]interface{}, len(ex.arguments))
	for i := range ex.arguments {
		if arguments[i], err = e.evaluate(ex.arguments[i]); err != nil {
			return nil, err
		}
	}

	fn, ok := callee.(callable)
	if !ok {
		return nil, runtimeErr(errOnlyFunction, ex.paren)
	}
	if len(arguments) != fn.arity() {
		return nil, newRuntimeError(
			errInvalidNumberArguments,
			ex.paren,
			"Expected %d arguments but got %d.",
			fn.arity(),
			len(arguments),
		)
	}

	e.depth++
	defer func() {
		e.depth--
	}()
	if e.depth > e.maxDepth {
		return nil, runtimeErr(errStackOverflow, ex.paren)
	}

	result, err := fn.call(e, arguments)
	if err != nil {
		var runErr *runtimeError
		if !errors.As(err, &runErr) {
			return nil, runtimeErr(err, ex.paren)
		}
		return nil, err
	}
	return result, nil
}

func (e *exec) lookupVariable(name *token, x expr) (interface{}, error) {
	if distance, ok := e.locals[x]; ok {
		return e.env.getAt(distance, name.lexeme), nil
	}
	return e.globals.get(name)
}
