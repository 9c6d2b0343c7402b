package internal

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type errorReporter interface {
	report(tk *token, message string)
}

// Diagnostic is an error found while scanning, parsing or resolving a source
type Diagnostic struct {
	Path    string
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error at %s: %s", d.Line, d.Where, d.Message)
}

// interpreterState stores the state of a interpreter
type interpreterState struct {
	absPath string
	source  string
	tokens  []token
	stmts   []stmt

	errors       []Diagnostic
	runtimeError *runtimeError

	logger *logrus.Entry
}

func newInterpreterState(absPath, source string, logger *logrus.Entry) *interpreterState {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &interpreterState{
		absPath: absPath,
		source:  source,
		errors:  make([]Diagnostic, 0),
		logger:  logger.WithField("path", absPath),
	}
}

func (s *interpreterState) report(tk *token, message string) {
	d := Diagnostic{
		Path:    s.absPath,
		Line:    tk.line,
		Where:   tk.String(),
		Message: message,
	}
	s.logger.WithFields(logrus.Fields{
		"line":  d.Line,
		"where": d.Where,
	}).Trace(message)
	s.errors = append(s.errors, d)
}

// Valid returns true if the interpreter is in a valid states else false
func (s *interpreterState) Valid() bool {
	return len(s.errors) == 0
}

// PrintErrors prints all errors, returns true if there was anything to print
func (s *interpreterState) PrintErrors(p IPrinter) bool {
	for _, e := range s.errors {
		p.Println(e.String())
	}
	if s.runtimeError != nil {
		p.Println(fmt.Sprintf("[line %d] Runtime error: %s", s.runtimeError.token.line, s.runtimeError))
	}
	return len(s.errors) != 0 || s.runtimeError != nil
}

type runtimeError struct {
	token   *token
	err     error
	message string
}

func newRuntimeError(err error, tk *token, format string, a ...interface{}) *runtimeError {
	return &runtimeError{
		token:   tk,
		err:     err,
		message: fmt.Sprintf(format, a...),
	}
}

func runtimeErr(err error, tk *token) *runtimeError {
	return &runtimeError{
		token:   tk,
		err:     err,
		message: err.Error(),
	}
}

func (e *runtimeError) Error() string {
	return e.message
}

func (e *runtimeError) Unwrap() error {
	return e.err
}

// Lexer errors
var errIllegalChar = errors.New("Unexpected character.")
var errUnclosedString = errors.New("Unterminated string.")

// Resolver errors
var errReadInInitializer = errors.New("Cannot read local variable in its own initializer.")
var errAlreadyDeclared = errors.New("Variable with this name already declared in this scope.")
var errTopLevelReturn = errors.New("Cannot return from top-level code.")
var errInitializerReturn = errors.New("Cannot return a value from an initializer.")
var errThisOutsideClass = errors.New("Cannot use 'this' outside of a class.")
var errSuperOutsideClass = errors.New("Cannot use 'super' outside of a class.")
var errSuperWithoutSuperclass = errors.New("Cannot use 'super' in a class with no superclass.")
var errInheritFromSelf = errors.New("A class cannot inherit from itself.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable.")
var errUndefinedProp = errors.New("Undefined property.")
var errOnlyNumbers = errors.New("Operands must be numbers.")
var errOnlyNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
var errOnlyNumber = errors.New("Operand must be a number.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errStackOverflow = errors.New("Stack overflow.")
var errInvalidNumberArguments = errors.New("Invalid number of arguments.")
var errOnlyInstanceProps = errors.New("Only instances have properties.")
var errOnlyInstanceFields = errors.New("Only instances have fields.")
var errSuperclassNotClass = errors.New("Superclass must be a class.")
var errUndefinedOp = errors.New("Operation not defined.")
