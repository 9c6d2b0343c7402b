package internal

type functionType int

const (
	ftNone functionType = iota
	ftFunction
	ftMethod
	ftInitializer
)

type classType int

const (
	ctNone classType = iota
	ctClass
	ctSubclass
)

// resolver computes, for every local variable reference, how many
// enclosing frames separate the use from the declaration. Names that
// are not found in any scope are left out and looked up as globals.
type resolver struct {
	scopes []map[string]bool
	locals map[expr]int

	currentFunction functionType
	currentClass    classType

	reporter errorReporter
}

func newResolver(reporter errorReporter) *resolver {
	return &resolver{
		locals:   make(map[expr]int),
		reporter: reporter,
	}
}

func (r *resolver) resolve(stmts []stmt) map[expr]int {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *resolver) resolveStmts(stmts []stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s stmt) {
	switch st := s.(type) {
	case *exprStmt:
		r.resolveExpr(st.expression)

	case *varStmt:
		r.declare(st.name)
		r.resolveExpr(st.initializer)
		r.define(st.name)

	case *blockStmt:
		r.beginScope()
		r.resolveStmts(st.stmts)
		r.endScope()

	case *ifStmt:
		r.resolveExpr(st.condition)
		r.resolveStmt(st.thenBranch)
		if st.elseBranch != nil {
			r.resolveStmt(st.elseBranch)
		}

	case *whileStmt:
		r.resolveExpr(st.condition)
		r.resolveStmt(st.body)

	case *functionStmt:
		r.declare(st.name)
		r.define(st.name)
		r.resolveFunction(st, ftFunction)

	case *returnStmt:
		if r.currentFunction == ftNone {
			r.reporter.report(st.keyword, errTopLevelReturn.Error())
		}
		if st.value != nil {
			if r.currentFunction == ftInitializer {
				r.reporter.report(st.keyword, errInitializerReturn.Error())
			}
			r.resolveExpr(st.value)
		}

	case *classStmt:
		r.resolveClass(st)
	}
}

func (r *resolver) resolveClass(st *classStmt) {
	enclosingClass := r.currentClass
	r.currentClass = ctClass
	defer func() {
		r.currentClass = enclosingClass
	}()

	r.declare(st.name)
	r.define(st.name)

	if st.superclass != nil {
		if st.superclass.name.lexeme == st.name.lexeme {
			r.reporter.report(st.superclass.name, errInheritFromSelf.Error())
		}
		r.currentClass = ctSubclass
		r.resolveExpr(st.superclass)
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range st.methods {
		kind := ftMethod
		if method.name.lexeme == "init" {
			kind = ftInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.endScope()

	if st.superclass != nil {
		r.endScope()
	}
}

// resolveFunction puts parameters and body in one scope, matching the
// single frame a call creates.
func (r *resolver) resolveFunction(fn *functionStmt, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() {
		r.currentFunction = enclosingFunction
	}()

	r.beginScope()
	for _, param := range fn.params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.body.stmts)
	r.endScope()
}

func (r *resolver) resolveExpr(x expr) {
	switch ex := x.(type) {
	case *variableExpr:
		if len(r.scopes) != 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][ex.name.lexeme]; ok && !defined {
				r.reporter.report(ex.name, errReadInInitializer.Error())
			}
		}
		r.resolveLocal(ex, ex.name.lexeme)

	case *assignExpr:
		r.resolveExpr(ex.value)
		if ex.object != nil {
			r.resolveExpr(ex.object)
		} else {
			r.resolveLocal(ex, ex.name.lexeme)
		}

	case *logicalExpr:
		r.resolveExpr(ex.left)
		r.resolveExpr(ex.right)

	case *binaryExpr:
		r.resolveExpr(ex.left)
		r.resolveExpr(ex.right)

	case *unaryExpr:
		r.resolveExpr(ex.right)

	case *callExpr:
		r.resolveExpr(ex.callee)
		for _, argument := range ex.arguments {
			r.resolveExpr(argument)
		}

	case *propertyExpr:
		r.resolveExpr(ex.object)

	case *groupingExpr:
		r.resolveExpr(ex.expression)

	case *thisExpr:
		if r.currentClass == ctNone {
			r.reporter.report(ex.keyword, errThisOutsideClass.Error())
			return
		}
		r.resolveLocal(ex, "this")

	case *superExpr:
		if r.currentClass == ctNone {
			r.reporter.report(ex.keyword, errSuperOutsideClass.Error())
			return
		} else if r.currentClass != ctSubclass {
			r.reporter.report(ex.keyword, errSuperWithoutSuperclass.Error())
			return
		}
		r.resolveLocal(ex, "super")

	case *literalExpr:
	}
}

func (r *resolver) resolveLocal(x expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[x] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.lexeme]; ok {
		r.reporter.report(name, errAlreadyDeclared.Error())
	}
	scope[name.lexeme] = false
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.lexeme] = true
}
