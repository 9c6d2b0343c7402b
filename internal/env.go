package internal

import (
	"fmt"
	"sort"
	"strings"
)

// env is one lexical scope. The enclosing link never changes after
// construction, values are shared by every closure holding the frame.
type env struct {
	enclosing *env
	values    map[string]interface{}
}

func newEnv(enclosing *env) *env {
	return &env{
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

func (e *env) get(name *token) (interface{}, error) {
	for frame := e; frame != nil; frame = frame.enclosing {
		if value, ok := frame.values[name.lexeme]; ok {
			return value, nil
		}
	}
	return nil, undefinedVar(name)
}

func (e *env) set(name *token, value interface{}) error {
	for frame := e; frame != nil; frame = frame.enclosing {
		if _, ok := frame.values[name.lexeme]; ok {
			frame.values[name.lexeme] = value
			return nil
		}
	}
	return undefinedVar(name)
}

// getAt trusts the resolver, the name is not searched for
func (e *env) getAt(distance int, name string) interface{} {
	return e.ancestor(distance).values[name]
}

func (e *env) setAt(distance int, name *token, value interface{}) {
	e.ancestor(distance).values[name.lexeme] = value
}

func (e *env) ancestor(distance int) *env {
	frame := e
	for i := 0; i < distance; i++ {
		frame = frame.enclosing
	}
	return frame
}

// declare must not clobber a global that already holds a value
func (e *env) declare(name *token) {
	if _, ok := e.values[name.lexeme]; !ok {
		e.values[name.lexeme] = nil
	}
}

func (e *env) define(name string, value interface{}) {
	e.values[name] = value
}

func (e *env) enterScope() *env {
	return newEnv(e)
}

func (e *env) String() string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s=%s", name, stringify(e.values[name]))
	}
	out := "{" + strings.Join(pairs, ", ") + "}"
	if e.enclosing != nil {
		out += " -> " + e.enclosing.String()
	}
	return out
}

func undefinedVar(name *token) *runtimeError {
	return newRuntimeError(errUndefinedVar, name, "Undefined variable '%s'.", name.lexeme)
}
