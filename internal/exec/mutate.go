package exec

import (
	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/predicate"
	"github.com/zakazai/flatsql/internal/schema"
)

// compileSingleTable compiles a WHERE expression against one table's
// schema directly (no join), used by UPDATE/DELETE.
func compileSingleTable(sch *schema.Schema, where ast.Expr, runner predicate.SubqueryRunner) (predicate.Predicate, error) {
	return predicate.Compile(where, sch, runner)
}

// execInsert slices the flat value list into N-sized groups, N being the
// table's column count, per spec.md §4.6.
func (e *Executor) execInsert(stmt *ast.InsertStmt) (*Result, error) {
	sch, err := e.Sess.Store.LoadSchema(stmt.Table)
	if err != nil {
		return nil, err
	}
	n := sch.Len()
	if n == 0 || len(stmt.Values)%n != 0 {
		return nil, enginerr.ArityErrorf("Incorrect number of values")
	}

	rows := make([][]string, 0, len(stmt.Values)/n)
	for i := 0; i < len(stmt.Values); i += n {
		row := make([]string, n)
		for j := 0; j < n; j++ {
			row[j] = stmt.Values[i+j].Text
		}
		rows = append(rows, row)
	}
	if err := e.Sess.Store.AppendRows(stmt.Table, rows); err != nil {
		return nil, err
	}
	return &Result{Mutation: true, RowCount: len(rows)}, nil
}

// execUpdate rewrites every row matching the predicate (or every row, with
// no WHERE) with the given assignments, via a whole-file rewrite.
func (e *Executor) execUpdate(stmt *ast.UpdateStmt) (*Result, error) {
	sch, err := e.Sess.Store.LoadSchema(stmt.Table)
	if err != nil {
		return nil, err
	}
	assignIdx := make([]int, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		idx, ok := sch.Lookup(a.Column)
		if !ok {
			return nil, enginerr.ArityErrorf("unknown column %q in SET clause", a.Column)
		}
		assignIdx[i] = idx
	}

	prev := e.Sess.CurrentTable
	e.Sess.CurrentTable = stmt.Table
	defer func() { e.Sess.CurrentTable = prev }()

	pred, err := compileSingleTable(sch, stmt.Where, e.asSubqueryRunner())
	if err != nil {
		return nil, err
	}

	rows, err := e.Sess.Store.ReadAll(stmt.Table)
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, row := range rows {
		ok, err := pred(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for i, a := range stmt.Assignments {
			row[assignIdx[i]] = a.Value.Text
		}
		updated++
	}
	if err := e.Sess.Store.RewriteRows(stmt.Table, rows); err != nil {
		return nil, err
	}
	return &Result{Mutation: true, RowCount: updated}, nil
}

// execDelete rewrites the table without the rows matching the predicate.
func (e *Executor) execDelete(stmt *ast.DeleteStmt) (*Result, error) {
	sch, err := e.Sess.Store.LoadSchema(stmt.Table)
	if err != nil {
		return nil, err
	}

	prev := e.Sess.CurrentTable
	e.Sess.CurrentTable = stmt.Table
	defer func() { e.Sess.CurrentTable = prev }()

	pred, err := compileSingleTable(sch, stmt.Where, e.asSubqueryRunner())
	if err != nil {
		return nil, err
	}

	rows, err := e.Sess.Store.ReadAll(stmt.Table)
	if err != nil {
		return nil, err
	}

	kept := make([][]string, 0, len(rows))
	removed := 0
	for _, row := range rows {
		ok, err := pred(row)
		if err != nil {
			return nil, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if err := e.Sess.Store.RewriteRows(stmt.Table, kept); err != nil {
		return nil, err
	}
	return &Result{Mutation: true, RowCount: removed}, nil
}
