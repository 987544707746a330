package parser

import (
	"strings"

	"github.com/zakazai/flatsql/internal/token"
)

// cursor walks a token slice for the recursive-descent statement and
// expression parsers below.
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(toks []token.Token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() (token.Token, bool) {
	if c.atEnd() {
		return token.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) next() (token.Token, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

// isKeyword reports whether the next token is an IDENT matching word
// case-insensitively, without consuming it.
func (c *cursor) isKeyword(word string) bool {
	t, ok := c.peek()
	return ok && t.Kind == token.IDENT && strings.EqualFold(t.Text, word)
}

// takeKeyword consumes the next token if it matches word case-insensitively.
func (c *cursor) takeKeyword(word string) bool {
	if c.isKeyword(word) {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) isKind(k token.Kind) bool {
	t, ok := c.peek()
	return ok && t.Kind == k
}

func (c *cursor) takeKind(k token.Kind) (token.Token, bool) {
	t, ok := c.peek()
	if ok && t.Kind == k {
		c.pos++
		return t, true
	}
	return token.Token{}, false
}
