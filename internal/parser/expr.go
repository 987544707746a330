package parser

import (
	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/token"
)

var comparisonOps = map[string]bool{
	"=": true, "!=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true,
}

// parseExpr parses a full WHERE-clause expression: OR of ANDs of terms,
// giving NOT the tightest precedence and OR the loosest.
func parseExpr(c *cursor) (ast.Expr, error) {
	return parseOrLevel(c)
}

func parseOrLevel(c *cursor) (ast.Expr, error) {
	left, err := parseAndLevel(c)
	if err != nil {
		return nil, err
	}
	for c.takeKeyword("or") {
		right, err := parseAndLevel(c)
		if err != nil {
			return nil, err
		}
		left = ast.OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func parseAndLevel(c *cursor) (ast.Expr, error) {
	left, err := parseNotTerm(c)
	if err != nil {
		return nil, err
	}
	for c.takeKeyword("and") {
		right, err := parseNotTerm(c)
		if err != nil {
			return nil, err
		}
		left = ast.AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func parseNotTerm(c *cursor) (ast.Expr, error) {
	negate := c.takeKeyword("not")
	var e ast.Expr
	var err error
	if c.isKind(token.LPAREN) {
		c.next()
		e, err = parseExpr(c)
		if err != nil {
			return nil, err
		}
		if _, ok := c.takeKind(token.RPAREN); !ok {
			return nil, enginerr.ParseErrorf("expected ) to close parenthesized expression")
		}
	} else {
		e, err = parsePrimary(c)
		if err != nil {
			return nil, err
		}
	}
	if negate {
		e = ast.NotExpr{Inner: e}
	}
	return e, nil
}

func parsePrimary(c *cursor) (ast.Expr, error) {
	left, err := parseValue(c)
	if err != nil {
		return nil, err
	}

	if c.takeKeyword("not") {
		if !c.takeKeyword("in") {
			return nil, enginerr.ParseErrorf("expected IN after NOT")
		}
		sub, err := parseSubqueryFor(c)
		if err != nil {
			return nil, err
		}
		return ast.InExpr{Left: left, Not: true, Subquery: sub}, nil
	}
	if c.takeKeyword("in") {
		sub, err := parseSubqueryFor(c)
		if err != nil {
			return nil, err
		}
		return ast.InExpr{Left: left, Not: false, Subquery: sub}, nil
	}

	opTok, ok := c.takeKind(token.OP)
	if !ok {
		return nil, enginerr.ParseErrorf("expected comparison operator")
	}
	if !comparisonOps[opTok.Text] {
		return nil, enginerr.ParseErrorf("unknown comparison operator %q", opTok.Text)
	}

	if c.isKeyword("select") {
		c.next()
		sub, err := parseSelect(c)
		if err != nil {
			return nil, err
		}
		return ast.ScalarComparison{Left: left, Op: opTok.Text, Subquery: sub}, nil
	}

	right, err := parseValue(c)
	if err != nil {
		return nil, err
	}
	return ast.Comparison{Left: left, Right: right, Op: opTok.Text}, nil
}

func parseValue(c *cursor) (ast.Value, error) {
	t, ok := c.next()
	if !ok {
		return ast.Value{}, enginerr.ParseErrorf("expected a value")
	}
	switch t.Kind {
	case token.STRING:
		return ast.Value{Kind: ast.Str, Text: token.StripQuotes(t.Text)}, nil
	case token.IDENT:
		return ast.Value{Kind: ast.Ident, Text: t.Text}, nil
	default:
		return ast.Value{}, enginerr.ParseErrorf("expected a value, got %q", t.Text)
	}
}

func parseSubqueryFor(c *cursor) (*ast.SelectStmt, error) {
	if !c.takeKeyword("select") {
		return nil, enginerr.ParseErrorf("expected SELECT to introduce subquery")
	}
	return parseSelect(c)
}
