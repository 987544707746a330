package exec

import (
	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/predicate"
)

// subqueryRunner implements predicate.SubqueryRunner by running a nested
// SELECT through the same executor, with the session's subselect flag set
// for the duration of the nested run. The nested rows are returned to the
// predicate and never printed.
type subqueryRunner struct {
	e *Executor
}

func (e *Executor) asSubqueryRunner() predicate.SubqueryRunner {
	return subqueryRunner{e: e}
}

func (r subqueryRunner) runNested(stmt *ast.SelectStmt) ([]string, [][]string, error) {
	prev := r.e.Sess.Subselect
	r.e.Sess.Subselect = true
	defer func() { r.e.Sess.Subselect = prev }()
	return r.e.runSelect(stmt)
}

// RunScalar runs stmt and returns its sole value, per spec.md §4.5: "A
// scalar subquery must yield exactly one row and one column."
func (r subqueryRunner) RunScalar(stmt *ast.SelectStmt) (string, error) {
	cols, rows, err := r.runNested(stmt)
	if err != nil {
		return "", err
	}
	if len(cols) != 1 || len(rows) != 1 {
		return "", enginerr.SubqueryErrorf("scalar subquery must return exactly one row and one column")
	}
	return rows[0][0], nil
}

// RunSet runs stmt and returns its single projected column across every
// result row, for an IN/NOT IN predicate.
func (r subqueryRunner) RunSet(stmt *ast.SelectStmt) ([]string, error) {
	cols, rows, err := r.runNested(stmt)
	if err != nil {
		return nil, err
	}
	if len(cols) != 1 {
		return nil, enginerr.SubqueryErrorf("subquery must return exactly one column")
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row[0]
	}
	return out, nil
}
