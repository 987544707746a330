package exec

import (
	"fmt"
	"strings"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/predicate"
	"github.com/zakazai/flatsql/internal/storage"
)

// formatViewClause renders one equi-join clause in the stored
// "table.col=table.col" text form.
func formatViewClause(c ast.ViewClause) string {
	return fmt.Sprintf("%s.%s=%s.%s", c.LeftTable, c.LeftCol, c.RightTable, c.RightCol)
}

func parseViewClause(line string) (ast.ViewClause, error) {
	sides := strings.SplitN(line, "=", 2)
	if len(sides) != 2 {
		return ast.ViewClause{}, enginerr.IOErrorf(nil, "malformed view clause %q", line)
	}
	left := strings.SplitN(sides[0], ".", 2)
	right := strings.SplitN(sides[1], ".", 2)
	if len(left) != 2 || len(right) != 2 {
		return ast.ViewClause{}, enginerr.IOErrorf(nil, "malformed view clause %q", line)
	}
	return ast.ViewClause{
		LeftTable: left[0], LeftCol: left[1],
		RightTable: right[0], RightCol: right[1],
	}, nil
}

// expandViews rewrites a FROM-list that may name a view into its stored
// table list plus the equi-join predicate that ties them together, per
// spec.md's "SELECT ... FROM viewname ... is rewritten to the underlying
// multi-table SELECT". Views are not materialized: this runs at query time
// on every reference.
func expandViews(store *storage.Store, tables []string) (finalTables []string, extra ast.Expr, err error) {
	seen := map[string]bool{}
	addTable := func(name string) {
		if !seen[name] {
			seen[name] = true
			finalTables = append(finalTables, name)
		}
	}

	var conjuncts []ast.Expr
	for _, t := range tables {
		if !store.ViewExists(t) {
			addTable(t)
			continue
		}
		lines, err := store.LoadView(t)
		if err != nil {
			return nil, nil, err
		}
		for _, line := range lines {
			clause, err := parseViewClause(line)
			if err != nil {
				return nil, nil, err
			}
			addTable(clause.LeftTable)
			addTable(clause.RightTable)
			conjuncts = append(conjuncts, ast.Comparison{
				Left:  ast.Value{Kind: ast.Ident, Text: clause.LeftCol},
				Right: ast.Value{Kind: ast.Ident, Text: clause.RightCol},
				Op:    "=",
			})
		}
	}
	return finalTables, predicate.RebuildAnd(conjuncts), nil
}
