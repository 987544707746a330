package parser

import (
	"strconv"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/token"
)

// parseInsert parses everything after "INSERT INTO", which the caller has
// already consumed.
func parseInsert(c *cursor) (*ast.InsertStmt, error) {
	table, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}
	if !c.takeKeyword("values") {
		return nil, enginerr.ParseErrorf("expected VALUES")
	}
	if _, ok := c.takeKind(token.LPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ( after VALUES")
	}
	var values []ast.Value
	for !c.isKind(token.RPAREN) && !c.atEnd() {
		v, err := parseValue(c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if _, ok := c.takeKind(token.RPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ) to close VALUES list")
	}
	return &ast.InsertStmt{Table: table, Values: values}, nil
}

// parseUpdate parses everything after "UPDATE", which the caller has
// already consumed.
func parseUpdate(c *cursor) (*ast.UpdateStmt, error) {
	table, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}
	if !c.takeKeyword("set") {
		return nil, enginerr.ParseErrorf("expected SET")
	}
	var assigns []ast.UpdateAssignment
	for !c.atEnd() && !c.isKeyword("where") {
		colTok, ok := c.takeKind(token.IDENT)
		if !ok {
			return nil, enginerr.ParseErrorf("expected column name in SET clause")
		}
		opTok, ok := c.takeKind(token.OP)
		if !ok || opTok.Text != "=" {
			return nil, enginerr.ParseErrorf("expected = in SET clause")
		}
		val, err := parseValue(c)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, ast.UpdateAssignment{Column: colTok.Text, Value: val})
	}
	if len(assigns) == 0 {
		return nil, enginerr.ParseErrorf("expected at least one assignment in SET clause")
	}
	var where ast.Expr
	if c.takeKeyword("where") {
		where, err = parseExpr(c)
		if err != nil {
			return nil, err
		}
	}
	return &ast.UpdateStmt{Table: table, Assignments: assigns, Where: where}, nil
}

// parseDelete parses everything after "DELETE FROM", which the caller has
// already consumed.
func parseDelete(c *cursor) (*ast.DeleteStmt, error) {
	table, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if c.takeKeyword("where") {
		where, err = parseExpr(c)
		if err != nil {
			return nil, err
		}
	}
	return &ast.DeleteStmt{Table: table, Where: where}, nil
}

// parseCreateTable parses everything after "CREATE TABLE", which the
// caller has already consumed.
func parseCreateTable(c *cursor) (*ast.CreateTableStmt, error) {
	table, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}
	if _, ok := c.takeKind(token.LPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ( after table name")
	}
	var cols []ast.ColumnDef
	for !c.isKind(token.RPAREN) && !c.atEnd() {
		nameTok, ok := c.takeKind(token.IDENT)
		if !ok {
			return nil, enginerr.ParseErrorf("expected column name")
		}
		widthTok, ok := c.takeKind(token.IDENT)
		if !ok {
			return nil, enginerr.ParseErrorf("expected display width for column %q", nameTok.Text)
		}
		width, err := strconv.Atoi(widthTok.Text)
		if err != nil {
			return nil, enginerr.ParseErrorf("invalid display width %q for column %q", widthTok.Text, nameTok.Text)
		}
		cols = append(cols, ast.ColumnDef{Name: nameTok.Text, Width: width})
	}
	if _, ok := c.takeKind(token.RPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ) to close column list")
	}
	if len(cols) == 0 {
		return nil, enginerr.ParseErrorf("table must have at least one column")
	}
	return &ast.CreateTableStmt{Table: table, Columns: cols}, nil
}

// parseDropTable parses everything after "DROP TABLE".
func parseDropTable(c *cursor) (*ast.DropTableStmt, error) {
	table, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}
	return &ast.DropTableStmt{Table: table}, nil
}

// parseCreateView parses everything after "CREATE VIEW".
func parseCreateView(c *cursor) (*ast.CreateViewStmt, error) {
	view, err := expectIdent(c, "view name")
	if err != nil {
		return nil, err
	}
	if _, ok := c.takeKind(token.LPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ( after view name")
	}
	var clauses []ast.ViewClause
	for !c.isKind(token.RPAREN) && !c.atEnd() {
		leftTable, leftCol, err := parseQualifiedRef(c)
		if err != nil {
			return nil, err
		}
		opTok, ok := c.takeKind(token.OP)
		if !ok || opTok.Text != "=" {
			return nil, enginerr.ParseErrorf("expected = in view clause")
		}
		rightTable, rightCol, err := parseQualifiedRef(c)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.ViewClause{
			LeftTable: leftTable, LeftCol: leftCol,
			RightTable: rightTable, RightCol: rightCol,
		})
	}
	if _, ok := c.takeKind(token.RPAREN); !ok {
		return nil, enginerr.ParseErrorf("expected ) to close view clause list")
	}
	if len(clauses) == 0 {
		return nil, enginerr.ParseErrorf("view must have at least one join clause")
	}
	return &ast.CreateViewStmt{View: view, Clauses: clauses}, nil
}

func parseQualifiedRef(c *cursor) (table, col string, err error) {
	t, ok := c.takeKind(token.IDENT)
	if !ok {
		return "", "", enginerr.ParseErrorf("expected table.column reference")
	}
	if _, ok := c.takeKind(token.DOT); !ok {
		return "", "", enginerr.ParseErrorf("expected . in table.column reference")
	}
	col2, ok := c.takeKind(token.IDENT)
	if !ok {
		return "", "", enginerr.ParseErrorf("expected column name after .")
	}
	return t.Text, col2.Text, nil
}

// parseDropView parses everything after "DROP VIEW".
func parseDropView(c *cursor) (*ast.DropViewStmt, error) {
	view, err := expectIdent(c, "view name")
	if err != nil {
		return nil, err
	}
	return &ast.DropViewStmt{View: view}, nil
}
