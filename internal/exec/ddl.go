package exec

import (
	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/schema"
)

func (e *Executor) execCreateTable(stmt *ast.CreateTableStmt) (*Result, error) {
	cols := make([]schema.Column, len(stmt.Columns))
	for i, c := range stmt.Columns {
		cols[i] = schema.Column{Name: c.Name, Width: c.Width}
	}
	if err := e.Sess.Store.CreateTable(stmt.Table, cols); err != nil {
		return nil, err
	}
	return &Result{Mutation: true}, nil
}

func (e *Executor) execDropTable(stmt *ast.DropTableStmt) (*Result, error) {
	if err := e.Sess.Store.DropTable(stmt.Table); err != nil {
		return nil, err
	}
	return &Result{Mutation: true}, nil
}

// execCreateView persists the equi-join specification after checking that
// every referenced table exists, per spec.md §4.6.
func (e *Executor) execCreateView(stmt *ast.CreateViewStmt) (*Result, error) {
	if e.Sess.Store.ViewExists(stmt.View) {
		return nil, enginerr.AlreadyExistsErrorf("view %q already exists", stmt.View)
	}

	seen := map[string]bool{}
	for _, c := range stmt.Clauses {
		for _, t := range [2]string{c.LeftTable, c.RightTable} {
			if seen[t] {
				continue
			}
			seen[t] = true
			exists, err := e.Sess.Store.Exists(t)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, enginerr.NotFoundErrorf("table %q does not exist", t)
			}
		}
	}

	clauses := make([]string, len(stmt.Clauses))
	for i, c := range stmt.Clauses {
		clauses[i] = formatViewClause(c)
	}
	if err := e.Sess.Store.SaveView(stmt.View, clauses); err != nil {
		return nil, err
	}
	return &Result{Mutation: true}, nil
}

func (e *Executor) execDropView(stmt *ast.DropViewStmt) (*Result, error) {
	if err := e.Sess.Store.DropView(stmt.View); err != nil {
		return nil, err
	}
	return &Result{Mutation: true}, nil
}
