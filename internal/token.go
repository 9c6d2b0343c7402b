package internal

import (
	"fmt"

	"vox/internal/tokens"
)

type token struct {
	token   tokens.TokenType
	lexeme  string
	literal interface{}
	line    int
}

func (t *token) String() string {
	if t.token == tokens.EOF {
		return "end"
	}
	return fmt.Sprintf("'%s'", t.lexeme)
}
