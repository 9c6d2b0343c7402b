package internal

type expr interface {
	exprNode()
}

type literalExpr struct {
	value interface{}
}

func (*literalExpr) exprNode() {}

type variableExpr struct {
	name *token
}

func (*variableExpr) exprNode() {}

type assignExpr struct {
	object expr
	name   *token
	value  expr
}

func (*assignExpr) exprNode() {}

type logicalExpr struct {
	left     expr
	operator *token
	right    expr
}

func (*logicalExpr) exprNode() {}

type binaryExpr struct {
	left     expr
	operator *token
	right    expr
}

func (*binaryExpr) exprNode() {}

type unaryExpr struct {
	operator *token
	right    expr
}

func (*unaryExpr) exprNode() {}

type callExpr struct {
	callee    expr
	paren     *token
	arguments []expr
}

func (*callExpr) exprNode() {}

type propertyExpr struct {
	object expr
	name   *token
}

func (*propertyExpr) exprNode() {}

type groupingExpr struct {
	expression expr
}

func (*groupingExpr) exprNode() {}

type thisExpr struct {
	keyword *token
}

func (*thisExpr) exprNode() {}

type superExpr struct {
	keyword *token
	method  *token
}

func (*superExpr) exprNode() {}
