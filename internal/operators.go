package internal

import "vox/internal/tokens"

type operator string

const (
	opAdd operator = "add"
	opSub operator = "sub"
	opDiv operator = "div"
	opMul operator = "mul"
	opEq  operator = "eq"
	opNeq operator = "neq"
	opLt  operator = "lt"
	opLte operator = "lte"
	opGt  operator = "gt"
	opGte operator = "gte"
)

var binaryOperators = map[tokens.TokenType]operator{
	tokens.PLUS:          opAdd,
	tokens.MINUS:         opSub,
	tokens.SLASH:         opDiv,
	tokens.STAR:          opMul,
	tokens.EQUAL_EQUAL:   opEq,
	tokens.BANG_EQUAL:    opNeq,
	tokens.LESS:          opLt,
	tokens.LESS_EQUAL:    opLte,
	tokens.GREATER:       opGt,
	tokens.GREATER_EQUAL: opGte,
}

var numberOperations = map[operator]func(x, y float64) interface{}{
	opAdd: func(x, y float64) interface{} {
		return x + y
	},
	opSub: func(x, y float64) interface{} {
		return x - y
	},
	opDiv: func(x, y float64) interface{} {
		return x / y
	},
	opMul: func(x, y float64) interface{} {
		return x * y
	},
	opLt: func(x, y float64) interface{} {
		return x < y
	},
	opLte: func(x, y float64) interface{} {
		return x <= y
	},
	opGt: func(x, y float64) interface{} {
		return x > y
	},
	opGte: func(x, y float64) interface{} {
		return x >= y
	},
}

var stringOperations = map[operator]func(x, y string) interface{}{
	opAdd: func(x, y string) interface{} {
		return x + y
	},
}

// applyOperator evaluates a binary operator. Equality is defined for every
// pair of values, the rest only for the operand types in the tables above.
func applyOperator(op operator, left, right interface{}) (interface{}, error) {
	switch op {
	case opEq:
		return isEqual(left, right), nil
	case opNeq:
		return !isEqual(left, right), nil
	}

	if x, ok := left.(float64); ok {
		if y, ok := right.(float64); ok {
			if apply, ok := numberOperations[op]; ok {
				return apply(x, y), nil
			}
			return nil, errUndefinedOp
		}
	}
	if x, ok := left.(string); ok {
		if y, ok := right.(string); ok {
			if apply, ok := stringOperations[op]; ok {
				return apply(x, y), nil
			}
		}
	}

	if op == opAdd {
		return nil, errOnlyNumbersOrStrings
	}
	return nil, errOnlyNumbers
}
