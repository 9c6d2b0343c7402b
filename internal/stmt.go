package internal

type stmt interface {
	stmtNode()
}

type exprStmt struct {
	expression expr
}

func (*exprStmt) stmtNode() {}

type varStmt struct {
	name        *token
	initializer expr
}

func (*varStmt) stmtNode() {}

type blockStmt struct {
	stmts []stmt
}

func (*blockStmt) stmtNode() {}

type ifStmt struct {
	condition  expr
	thenBranch stmt
	elseBranch stmt
}

func (*ifStmt) stmtNode() {}

type whileStmt struct {
	condition expr
	body      stmt
}

func (*whileStmt) stmtNode() {}

type functionStmt struct {
	name   *token
	params []*token
	body   *blockStmt
}

func (*functionStmt) stmtNode() {}

type returnStmt struct {
	keyword *token
	value   expr
}

func (*returnStmt) stmtNode() {}

type classStmt struct {
	name       *token
	superclass *variableExpr
	methods    []*functionStmt
}

func (*classStmt) stmtNode() {}
