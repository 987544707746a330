// Package parser classifies a token sequence as one of the statement kinds
// and parses it into an ast.Statement, including the WHERE-expression
// grammar (kept in this package, alongside statement parsing, because
// scalar and IN subqueries are just nested SELECTs and the two grammars
// are mutually recursive).
package parser

import (
	"strings"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/token"
)

// Parse tokenizes and parses a full statement string.
func Parse(text string) (*ast.Statement, error) {
	toks, err := token.Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, enginerr.ParseErrorf("empty statement")
	}
	c := newCursor(toks)
	return dispatch(c)
}

func dispatch(c *cursor) (*ast.Statement, error) {
	first, _ := c.peek()
	if first.Kind != token.IDENT {
		return nil, enginerr.ParseErrorf("unknown command")
	}
	switch strings.ToLower(first.Text) {
	case "select":
		c.next()
		stmt, err := parseSelect(c)
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Select: stmt}, nil
	case "insert":
		c.next()
		if !c.takeKeyword("into") {
			return nil, enginerr.ParseErrorf("expected INTO after INSERT")
		}
		stmt, err := parseInsert(c)
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Insert: stmt}, nil
	case "update":
		c.next()
		stmt, err := parseUpdate(c)
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Update: stmt}, nil
	case "delete":
		c.next()
		if !c.takeKeyword("from") {
			return nil, enginerr.ParseErrorf("expected FROM after DELETE")
		}
		stmt, err := parseDelete(c)
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Delete: stmt}, nil
	case "create":
		c.next()
		if c.takeKeyword("table") {
			stmt, err := parseCreateTable(c)
			if err != nil {
				return nil, err
			}
			return &ast.Statement{CreateTable: stmt}, nil
		}
		if c.takeKeyword("view") {
			stmt, err := parseCreateView(c)
			if err != nil {
				return nil, err
			}
			return &ast.Statement{CreateView: stmt}, nil
		}
		return nil, enginerr.ParseErrorf("expected TABLE or VIEW after CREATE")
	case "drop":
		c.next()
		if c.takeKeyword("table") {
			stmt, err := parseDropTable(c)
			if err != nil {
				return nil, err
			}
			return &ast.Statement{DropTable: stmt}, nil
		}
		if c.takeKeyword("view") {
			stmt, err := parseDropView(c)
			if err != nil {
				return nil, err
			}
			return &ast.Statement{DropView: stmt}, nil
		}
		return nil, enginerr.ParseErrorf("expected TABLE or VIEW after DROP")
	case "help":
		return &ast.Statement{Help: true}, nil
	case "print":
		return &ast.Statement{Print: true}, nil
	default:
		return nil, enginerr.ParseErrorf("unknown command %q", first.Text)
	}
}

func expectIdent(c *cursor, what string) (string, error) {
	t, ok := c.takeKind(token.IDENT)
	if !ok {
		return "", enginerr.ParseErrorf("expected %s", what)
	}
	return t.Text, nil
}
