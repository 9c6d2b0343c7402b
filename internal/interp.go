package internal

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
}

// Interpreter runs sources against one set of globals. It is not safe
// for concurrent use, every goroutine needs its own Interpreter.
type Interpreter struct {
	cfg     *Config
	errOut  IPrinter
	logger  *logrus.Logger
	globals *env
	locals  map[expr]int
}

// NewInterpreter creates an interpreter whose programs print to out and
// whose diagnostics go to errOut. A nil cfg or logger means the defaults.
func NewInterpreter(cfg *Config, out, errOut IPrinter, logger *logrus.Logger) *Interpreter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	in := &Interpreter{
		cfg:     cfg,
		errOut:  errOut,
		logger:  logger,
		globals: newEnv(nil),
		locals:  make(map[expr]int),
	}
	defineGlobals(in.globals, out)
	return in
}

// ErrStatic and ErrRuntime tell why Exec failed
var (
	ErrStatic  = errors.New("static errors")
	ErrRuntime = errors.New("runtime error")
)

// Run scans, parses, resolves and executes source. It returns false when
// any error was found, the errors have then been printed to errOut.
func (in *Interpreter) Run(absPath, source string) bool {
	return in.Exec(absPath, source) == nil
}

// Exec is Run with the kind of failure, ErrStatic or ErrRuntime
func (in *Interpreter) Exec(absPath, source string) error {
	state := newInterpreterState(absPath, source, logrus.NewEntry(in.logger))

	locals, ok := analyze(state, in.cfg)
	if !ok {
		state.PrintErrors(in.errOut)
		return ErrStatic
	}

	// functions from earlier runs stay callable, so keep their distances
	for x, distance := range locals {
		in.locals[x] = distance
	}

	exec := newExec(state, in.globals, in.locals, in.cfg)
	ok = exec.interpret(state.stmts)
	state.logger.WithField("ok", ok).Debug("run finished")
	if !ok {
		state.PrintErrors(in.errOut)
		return ErrRuntime
	}
	return nil
}

// Check reports every static error in source without running it
func Check(absPath, source string, cfg *Config, logger *logrus.Logger) []Diagnostic {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	state := newInterpreterState(absPath, source, logrus.NewEntry(logger))
	analyze(state, cfg)
	return state.errors
}

// FormatTree parses source and returns its syntax tree in prefix form,
// together with any syntax error. The tree is returned even with errors.
func FormatTree(absPath, source string, cfg *Config, logger *logrus.Logger) (string, []Diagnostic) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	state := newInterpreterState(absPath, source, logrus.NewEntry(logger))
	newLexer(state).scan()
	state.stmts = newParser(state.tokens, state, cfg).parseProgram()
	return printTree(state.stmts), state.errors
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(absPath, source string, p IPrinter) bool {
	return NewInterpreter(nil, p, p, nil).Run(absPath, source)
}

// analyze runs every pass before execution. The resolver only sees
// trees that parsed cleanly.
func analyze(state *interpreterState, cfg *Config) (map[expr]int, bool) {
	newLexer(state).scan()
	state.stmts = newParser(state.tokens, state, cfg).parseProgram()
	state.logger.WithFields(logrus.Fields{
		"tokens":     len(state.tokens),
		"statements": len(state.stmts),
		"errors":     len(state.errors),
	}).Debug("parsed")
	if !state.Valid() {
		return nil, false
	}

	locals := newResolver(state).resolve(state.stmts)
	state.logger.WithFields(logrus.Fields{
		"locals": len(locals),
		"errors": len(state.errors),
	}).Debug("resolved")
	return locals, state.Valid()
}
