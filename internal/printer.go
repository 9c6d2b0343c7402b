package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// printTree renders statements as parenthesized prefix expressions, one per line
func printTree(stmts []stmt) string {
	out := ""
	for _, st := range stmts {
		out += printStmt(st) + "\n"
	}
	return out
}

func printStmt(s stmt) string {
	switch st := s.(type) {
	case *exprStmt:
		return "(; " + printExpr(st.expression) + ")"
	case *varStmt:
		return "(var " + printToken(st.name) + " " + printExpr(st.initializer) + ")"
	case *blockStmt:
		return parenthesizeStmts("block", st.stmts)
	case *ifStmt:
		out := "(if " + printExpr(st.condition) + " " + printStmt(st.thenBranch)
		if st.elseBranch != nil {
			out += " " + printStmt(st.elseBranch)
		}
		return out + ")"
	case *whileStmt:
		return "(while " + printExpr(st.condition) + " " + printStmt(st.body) + ")"
	case *functionStmt:
		return printFunction(st)
	case *returnStmt:
		if st.value == nil {
			return "(return)"
		}
		return "(return " + printExpr(st.value) + ")"
	case *classStmt:
		out := "(class " + printToken(st.name)
		if st.superclass != nil {
			out += " < " + printToken(st.superclass.name)
		}
		for _, method := range st.methods {
			out += " " + printFunction(method)
		}
		return out + ")"
	case nil:
		return "<error>"
	}
	return fmt.Sprintf("<unknown %T>", s)
}

func printFunction(fn *functionStmt) string {
	params := make([]string, len(fn.params))
	for i, param := range fn.params {
		params[i] = printToken(param)
	}
	out := "(fun " + printToken(fn.name) + " (" + strings.Join(params, " ") + ")"
	if fn.body != nil {
		for _, st := range fn.body.stmts {
			out += " " + printStmt(st)
		}
	}
	return out + ")"
}

func parenthesizeStmts(name string, stmts []stmt) string {
	out := "(" + name
	for _, st := range stmts {
		out += " " + printStmt(st)
	}
	return out + ")"
}

func printExpr(x expr) string {
	switch ex := x.(type) {
	case *literalExpr:
		switch v := ex.value.(type) {
		case string:
			return strconv.Quote(v)
		default:
			return stringify(v)
		}
	case *variableExpr:
		return printToken(ex.name)
	case *assignExpr:
		target := printToken(ex.name)
		if ex.object != nil {
			target = "(. " + printExpr(ex.object) + " " + target + ")"
		}
		return "(= " + target + " " + printExpr(ex.value) + ")"
	case *logicalExpr:
		return parenthesize(printToken(ex.operator), ex.left, ex.right)
	case *binaryExpr:
		return parenthesize(printToken(ex.operator), ex.left, ex.right)
	case *unaryExpr:
		return parenthesize(printToken(ex.operator), ex.right)
	case *callExpr:
		return parenthesize("call", append([]expr{ex.callee}, ex.arguments...)...)
	case *propertyExpr:
		return "(. " + printExpr(ex.object) + " " + printToken(ex.name) + ")"
	case *groupingExpr:
		return parenthesize("group", ex.expression)
	case *thisExpr:
		return "this"
	case *superExpr:
		return "(super " + printToken(ex.method) + ")"
	case nil:
		return "<error>"
	}
	return fmt.Sprintf("<unknown %T>", x)
}

func parenthesize(name string, exprs ...expr) string {
	out := "(" + name
	for _, ex := range exprs {
		out += " " + printExpr(ex)
	}
	return out + ")"
}

func printToken(tk *token) string {
	if tk == nil {
		return "<error>"
	}
	return tk.lexeme
}
