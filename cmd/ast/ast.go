package main

import (
	"fmt"
	"os"
	"strings"
)

//go:generate ./ast.sh

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: ast Stmt|Expr")
		os.Exit(1)
	}
	var out string
	switch os.Args[1] {
	case "Stmt":
		out = generateAst("Stmt", []string{
			"Expr: expression expr",
			"Var: name *token, initializer expr",
			"Block: stmts []stmt",
			"If: condition expr, thenBranch stmt, elseBranch stmt",
			"While: condition expr, body stmt",
			"Function: name *token, params []*token, body *blockStmt",
			"Return: keyword *token, value expr",
			"Class: name *token, superclass *variableExpr, methods []*functionStmt",
		})
	case "Expr":
		out = generateAst("Expr", []string{
			"Literal: value interface{}",
			"Variable: name *token",
			"Assign: object expr, name *token, value expr",
			"Logical: left expr, operator *token, right expr",
			"Binary: left expr, operator *token, right expr",
			"Unary: operator *token, right expr",
			"Call: callee expr, paren *token, arguments []expr",
			"Property: object expr, name *token",
			"Grouping: expression expr",
			"This: keyword *token",
			"Super: keyword *token, method *token",
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown node family %q\n", os.Args[1])
		os.Exit(1)
	}
	fmt.Print(out)
}

// generateAst emits a sealed interface and one struct per node. Consumers
// switch on the concrete type instead of implementing a visitor.
func generateAst(baseName string, types []string) string {
	lower := strings.ToLower(baseName)
	out := "package internal\n\n"

	// Start base interface
	out += "type " + lower + " interface {\n"
	out += "\t" + lower + "Node()\n"
	out += "}\n\n"
	// End base interface

	// Start  structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}
	// End structs

	return strings.TrimSuffix(out, "\n")
}

func generateType(baseName, name, fields string) string {
	lower := strings.ToLower(baseName)

	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	fieldArray := strings.Split(fields, ",")
	for _, field := range fieldArray {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Marker Definition
	out += "func (*" + structName + ") " + lower + "Node() {}\n\n"
	// End Marker Definition

	return out
}
