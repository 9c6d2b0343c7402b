package internal

import (
	"strconv"
	"unicode/utf8"

	"vox/internal/tokens"
)

type lexer struct {
	start   int
	current int
	line    int

	source string
	tokens []token

	state *interpreterState
}

func newLexer(state *interpreterState) *lexer {
	return &lexer{
		line:   1,
		source: state.source,
		state:  state,
	}
}

func (l *lexer) scan() []token {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.start = l.current
	l.tokens = append(l.tokens, token{
		token: tokens.EOF,
		line:  l.line,
	})
	l.state.tokens = l.tokens
	return l.tokens
}

func (l *lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.emit(tokens.LEFT_PAREN, nil)
	case ')':
		l.emit(tokens.RIGHT_PAREN, nil)
	case '{':
		l.emit(tokens.LEFT_BRACE, nil)
	case '}':
		l.emit(tokens.RIGHT_BRACE, nil)
	case '[':
		l.emit(tokens.LEFT_BRACKET, nil)
	case ']':
		l.emit(tokens.RIGHT_BRACKET, nil)
	case ',':
		l.emit(tokens.COMMA, nil)
	case '.':
		l.emit(tokens.DOT, nil)
	case '-':
		l.emit(tokens.MINUS, nil)
	case '+':
		l.emit(tokens.PLUS, nil)
	case ';':
		l.emit(tokens.SEMICOLON, nil)
	case '*':
		l.emit(tokens.STAR, nil)
	case '/':
		if l.match('/') {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		} else {
			l.emit(tokens.SLASH, nil)
		}
	case '!':
		if l.match('=') {
			l.emit(tokens.BANG_EQUAL, nil)
		} else {
			l.emit(tokens.BANG, nil)
		}
	case '=':
		if l.match('=') {
			l.emit(tokens.EQUAL_EQUAL, nil)
		} else {
			l.emit(tokens.EQUAL, nil)
		}
	case '<':
		if l.match('=') {
			l.emit(tokens.LESS_EQUAL, nil)
		} else {
			l.emit(tokens.LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.emit(tokens.GREATER_EQUAL, nil)
		} else {
			l.emit(tokens.GREATER, nil)
		}

	// Ignore whitespace
	case ' ', '\r', '\t':

	case '\n':
		l.line++

	case '"':
		l.string()

	default:
		if isDigit(c) {
			l.number()
		} else if isAlpha(c) {
			l.identifier()
		} else {
			// one report per character, not per byte
			_, size := utf8.DecodeRuneInString(l.source[l.start:])
			l.current = l.start + size
			l.state.report(l.here(), errIllegalChar.Error())
		}
	}
}

func (l *lexer) string() {
	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		l.state.report(l.here(), errUnclosedString.Error())
		return
	}

	// Consume ending "
	l.advance()

	l.emit(tokens.STRING, l.source[l.start+1:l.current-1])
}

func (l *lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)

	l.emit(tokens.NUMBER, literal)
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	identifier := l.source[l.start:l.current]

	tokenType, ok := tokens.Keywords[identifier]
	if !ok {
		tokenType = tokens.IDENTIFIER
	}

	l.emit(tokenType, nil)
}

func (l *lexer) advance() byte {
	current := l.source[l.current]
	l.current++
	return current
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() || l.source[l.current] != c {
		return false
	}
	l.current++
	return true
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *lexer) emit(tk tokens.TokenType, literal interface{}) {
	l.tokens = append(l.tokens, token{
		token:   tk,
		lexeme:  l.source[l.start:l.current],
		literal: literal,
		line:    l.line,
	})
}

// here is a pseudo token covering the text scanned so far, used to attribute lexing errors
func (l *lexer) here() *token {
	return &token{
		token:  tokens.IDENTIFIER,
		lexeme: l.source[l.start:l.current],
		line:   l.line,
	}
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
