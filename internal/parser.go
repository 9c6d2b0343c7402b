package internal

import (
	"fmt"

	"vox/internal/tokens"
)

// parser stores parser data
type parser struct {
	current int
	tokens  []token

	// nesting of statements and expressions being parsed
	depth     int
	abandoned bool

	cfg      *Config
	reporter errorReporter
}

func newParser(toks []token, reporter errorReporter, cfg *Config) *parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(toks) == 0 || toks[len(toks)-1].token != tokens.EOF {
		line := 1
		if len(toks) > 0 {
			line = toks[len(toks)-1].line
		}
		toks = append(toks, token{token: tokens.EOF, line: line})
	}
	return &parser{
		tokens:   toks,
		cfg:      cfg,
		reporter: reporter,
	}
}

// parseProgram always returns the full list of top level statements,
// even when some of them contained syntax errors.
func (p *parser) parseProgram() []stmt {
	stmts := make([]stmt, 0)
	for !p.isAtEnd() {
		start := p.current
		stmts = append(stmts, p.statement())
		p.ensureProgress(start)
	}
	return stmts
}

func (p *parser) statement() stmt {
	p.depth++
	defer p.leave()
	if p.tooDeep() {
		return nil
	}

	if p.match(tokens.CLASS) {
		return p.class()
	}
	if p.match(tokens.FUN) {
		return p.function("function")
	}
	if p.match(tokens.IF) {
		return p.ifStmt()
	}
	if p.match(tokens.RETURN) {
		return p.ret()
	}
	if p.match(tokens.VAR) {
		return p.varDecl()
	}
	if p.match(tokens.WHILE) {
		return p.while()
	}
	if p.check(tokens.LEFT_BRACE) {
		return p.block()
	}

	expr := p.expression()
	p.consume(tokens.SEMICOLON, "Expect ';' after expression.")
	return &exprStmt{expression: expr}
}

func (p *parser) class() stmt {
	name := p.consume(tokens.IDENTIFIER, "Expect class name.")

	var superclass *variableExpr
	if p.match(tokens.LESS) {
		p.consume(tokens.IDENTIFIER, "Expect superclass name.")
		superclass = &variableExpr{
			name: p.previous(),
		}
	}

	p.consume(tokens.LEFT_BRACE, "Expect '{' before class body.")

	methods := make([]*functionStmt, 0)
	for !p.check(tokens.RIGHT_BRACE) && !p.isAtEnd() {
		start := p.current
		methods = append(methods, p.function("method"))
		p.ensureProgress(start)
	}

	p.consume(tokens.RIGHT_BRACE, "Expect '}' after class body.")

	return &classStmt{
		name:       name,
		superclass: superclass,
		methods:    methods,
	}
}

func (p *parser) ifStmt() stmt {
	p.consume(tokens.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(tokens.RIGHT_PAREN, "Expect ')' after if condition.")

	st := &ifStmt{
		condition:  condition,
		thenBranch: p.statement(),
	}
	if p.match(tokens.ELSE) {
		st.elseBranch = p.statement()
	}
	return st
}

func (p *parser) ret() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(tokens.SEMICOLON) {
		value = p.expression()
	}
	p.consume(tokens.SEMICOLON, "Expect ';' after return value.")
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

// varDecl requires an initializer, there is no implicit null
func (p *parser) varDecl() stmt {
	name := p.consume(tokens.IDENTIFIER, "Expect variable name.")
	p.consume(tokens.EQUAL, "Expect '=' after variable name.")
	init := p.expression()
	p.consume(tokens.SEMICOLON, "Expect ';' after variable initializer.")
	return &varStmt{
		name:        name,
		initializer: init,
	}
}

func (p *parser) while() stmt {
	p.consume(tokens.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(tokens.RIGHT_PAREN, "Expect ')' after condition.")
	return &whileStmt{
		condition: cond,
		body:      p.statement(),
	}
}

// function parses the rest of a function or method declaration, the
// leading 'fun' (if any) has already been consumed.
func (p *parser) function(kind string) *functionStmt {
	name := p.consume(tokens.IDENTIFIER, "Expect "+kind+" name.")

	p.consume(tokens.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	params := make([]*token, 0)
	if !p.check(tokens.RIGHT_PAREN) {
		for {
			if len(params) >= p.cfg.MaxParameters {
				p.error(fmt.Sprintf("Cannot have more than %d parameters.", p.cfg.MaxParameters))
			}
			if param := p.consume(tokens.IDENTIFIER, "Expect parameter name."); param != nil {
				params = append(params, param)
			}
			if !p.match(tokens.COMMA) {
				break
			}
		}
	}
	p.consume(tokens.RIGHT_PAREN, "Expect ')' after parameters.")

	return &functionStmt{
		name:   name,
		params: params,
		body:   p.block(),
	}
}

func (p *parser) block() *blockStmt {
	p.consume(tokens.LEFT_BRACE, "Expect '{' before block.")
	stmts := make([]stmt, 0)
	for !p.check(tokens.RIGHT_BRACE) && !p.isAtEnd() {
		start := p.current
		stmts = append(stmts, p.statement())
		p.ensureProgress(start)
	}
	p.consume(tokens.RIGHT_BRACE, "Expect '}' after block.")
	return &blockStmt{stmts: stmts}
}

func (p *parser) expression() expr {
	p.depth++
	defer p.leave()
	if p.tooDeep() {
		return nil
	}
	return p.assignment()
}

func (p *parser) assignment() expr {
	expr := p.or()
	if p.match(tokens.EQUAL) {
		equal := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *variableExpr:
			return &assignExpr{
				name:  target.name,
				value: value,
			}
		case *propertyExpr:
			return &assignExpr{
				object: target.object,
				name:   target.name,
				value:  value,
			}
		}

		p.errorAt(equal, "Invalid assignment target.")
	}
	return expr
}

func (p *parser) or() expr {
	expr := p.and()
	for p.match(tokens.OR) {
		operator := p.previous()
		right := p.and()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) and() expr {
	expr := p.equality()
	for p.match(tokens.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) equality() expr {
	expr := p.comparison()
	for p.match(tokens.BANG_EQUAL, tokens.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) comparison() expr {
	expr := p.addition()
	for p.match(tokens.GREATER, tokens.GREATER_EQUAL, tokens.LESS, tokens.LESS_EQUAL) {
		operator := p.previous()
		right := p.addition()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) addition() expr {
	expr := p.multiplication()
	for p.match(tokens.MINUS, tokens.PLUS) {
		operator := p.previous()
		right := p.multiplication()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) multiplication() expr {
	expr := p.unary()
	for p.match(tokens.SLASH, tokens.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) unary() expr {
	if p.match(tokens.BANG, tokens.MINUS) {
		operator := p.previous()
		p.depth++
		defer p.leave()
		if p.tooDeep() {
			return nil
		}
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	expr := p.primary()
	for {
		if p.match(tokens.LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(tokens.DOT) {
			name := p.consume(tokens.IDENTIFIER, "Expect property name after '.'.")
			expr = &propertyExpr{
				object: expr,
				name:   name,
			}
		} else {
			break
		}
	}
	return expr
}

func (p *parser) finishCall(callee expr) expr {
	arguments := p.arguments()
	paren := p.consume(tokens.RIGHT_PAREN, "Expect ')' after arguments.")
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

func (p *parser) arguments() []expr {
	arguments := make([]expr, 0)
	if !p.check(tokens.RIGHT_PAREN) {
		for {
			if len(arguments) >= p.cfg.MaxArguments {
				p.error(fmt.Sprintf("Cannot have more than %d arguments.", p.cfg.MaxArguments))
			}
			arguments = append(arguments, p.expression())
			if !p.match(tokens.COMMA) {
				break
			}
		}
	}
	return arguments
}

func (p *parser) primary() expr {
	if p.match(tokens.FALSE) {
		return &literalExpr{value: false}
	}
	if p.match(tokens.TRUE) {
		return &literalExpr{value: true}
	}
	if p.match(tokens.NULL) {
		return &literalExpr{value: nil}
	}
	if p.match(tokens.NUMBER, tokens.STRING) {
		return &literalExpr{value: p.previous().literal}
	}
	if p.match(tokens.SUPER) {
		keyword := p.previous()
		p.consume(tokens.DOT, "Expect '.' after 'super'.")
		method := p.consume(tokens.IDENTIFIER, "Expect superclass method name.")
		return &superExpr{
			keyword: keyword,
			method:  method,
		}
	}
	if p.match(tokens.THIS) {
		return &thisExpr{keyword: p.previous()}
	}
	if p.match(tokens.IDENTIFIER) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tokens.LEFT_PAREN) {
		expr := p.expression()
		p.consume(tokens.RIGHT_PAREN, "Expect ')' after expression.")
		return &groupingExpr{expression: expr}
	}

	p.error(fmt.Sprintf("Unexpected token '%s'.", p.peek().lexeme))
	return nil
}

// consume reports a missing token at the current position. Only for the
// synchronizing token types it then skips ahead to the next token of
// that type, every other miss returns nil and leaves the input untouched.
func (p *parser) consume(tk tokens.TokenType, message string) *token {
	if p.check(tk) {
		return p.advance()
	}

	p.error(message)

	if !p.cfg.synchronizes(tk) {
		return nil
	}

	for !p.check(tk) && !p.isAtEnd() {
		p.advance()
	}
	return p.advance()
}

// tooDeep reports nesting beyond the configured limit once and gives up
// on the rest of the input, so recursion stops before the Go stack does.
func (p *parser) tooDeep() bool {
	if p.depth <= p.cfg.MaxNesting {
		return false
	}
	if !p.abandoned {
		p.error("Too much nesting.")
		p.abandoned = true
	}
	for !p.isAtEnd() {
		p.advance()
	}
	return true
}

func (p *parser) leave() {
	p.depth--
}

// ensureProgress drops the current token when a statement consumed
// nothing. The default synchronizing set never needs it, a configured
// set without ';' would otherwise loop forever.
func (p *parser) ensureProgress(start int) {
	if p.current == start {
		p.advance()
	}
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(types ...tokens.TokenType) bool {
	for _, tk := range types {
		if p.check(tk) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tk tokens.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().token == tk
}

func (p *parser) peek() *token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *token {
	if p.current == 0 {
		return p.peek()
	}
	return &p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tokens.EOF
}

func (p *parser) error(message string) {
	p.errorAt(p.peek(), message)
}

func (p *parser) errorAt(tk *token, message string) {
	if p.abandoned {
		return
	}
	p.reporter.report(tk, message)
}
