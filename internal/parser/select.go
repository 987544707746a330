package parser

import (
	"strings"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/token"
)

// parseSelect parses everything after the leading SELECT keyword, which
// the caller has already consumed.
func parseSelect(c *cursor) (*ast.SelectStmt, error) {
	stmt := &ast.SelectStmt{}
	if c.takeKeyword("distinct") {
		stmt.Distinct = true
	}

	items, err := parseSelectList(c)
	if err != nil {
		return nil, err
	}
	stmt.Items = items

	if !c.takeKeyword("from") {
		return nil, enginerr.ParseErrorf("expected FROM")
	}
	tables, err := parseTableList(c)
	if err != nil {
		return nil, err
	}
	stmt.Tables = tables

	if c.takeKeyword("where") {
		where, err := parseExpr(c)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if c.takeKeyword("order") {
		if !c.takeKeyword("by") {
			return nil, enginerr.ParseErrorf("expected BY after ORDER")
		}
		order, err := parseOrderList(c)
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = order
	}

	if c.takeKeyword("union") {
		if !c.takeKeyword("select") {
			return nil, enginerr.ParseErrorf("expected SELECT after UNION")
		}
		inner, err := parseSelect(c)
		if err != nil {
			return nil, err
		}
		stmt.Union = inner
	}

	return stmt, nil
}

func parseSelectList(c *cursor) ([]ast.SelectItem, error) {
	var items []ast.SelectItem
	for !c.atEnd() && !c.isKeyword("from") {
		if _, ok := c.takeKind(token.STAR); ok {
			items = append(items, ast.SelectItem{All: true})
			continue
		}
		idTok, ok := c.takeKind(token.IDENT)
		if !ok {
			return nil, enginerr.ParseErrorf("expected column name or aggregate in select list")
		}
		lower := strings.ToLower(idTok.Text)
		if token.Aggregates[lower] && c.isKind(token.LPAREN) {
			c.next()
			var col string
			if _, ok := c.takeKind(token.STAR); ok {
				col = "*"
			} else {
				colTok, ok := c.takeKind(token.IDENT)
				if !ok {
					return nil, enginerr.ParseErrorf("expected column inside %s(...)", lower)
				}
				col = colTok.Text
			}
			if _, ok := c.takeKind(token.RPAREN); !ok {
				return nil, enginerr.ParseErrorf("expected ) to close %s(...)", lower)
			}
			items = append(items, ast.SelectItem{Aggregate: lower, Column: col})
			continue
		}
		items = append(items, ast.SelectItem{Column: idTok.Text})
	}
	if len(items) == 0 {
		return nil, enginerr.ParseErrorf("expected a select list")
	}
	return items, nil
}

func parseTableList(c *cursor) ([]string, error) {
	var tables []string
	for !c.atEnd() && !c.isKeyword("where") && !c.isKeyword("order") && !c.isKeyword("union") {
		t, ok := c.takeKind(token.IDENT)
		if !ok {
			break
		}
		tables = append(tables, t.Text)
	}
	if len(tables) == 0 {
		return nil, enginerr.ParseErrorf("expected at least one table name after FROM")
	}
	return tables, nil
}

func parseOrderList(c *cursor) ([]ast.OrderItem, error) {
	var items []ast.OrderItem
	for !c.atEnd() && !c.isKeyword("union") {
		colTok, ok := c.takeKind(token.IDENT)
		if !ok {
			break
		}
		item := ast.OrderItem{Column: colTok.Text}
		for {
			switch {
			case c.takeKeyword("num"):
				item.Numeric = true
			case c.takeKeyword("asc"):
				item.Descending = false
			case c.takeKeyword("desc"):
				item.Descending = true
			default:
				goto done
			}
		}
	done:
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, enginerr.ParseErrorf("expected at least one column after ORDER BY")
	}
	return items, nil
}
