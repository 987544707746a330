// Package exec drives storage to answer a parsed statement: the SELECT
// executor (projection, join, distinct, order, union, aggregates,
// subqueries) and the mutators (INSERT/UPDATE/DELETE/CREATE/DROP).
package exec

import (
	"errors"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/session"
	"github.com/zakazai/flatsql/internal/storage"
)

// ErrExternal marks a statement kind the core deliberately does not
// implement (HELP/PRINT are presentational, owned by the REPL layer).
var ErrExternal = errors.New("statement is handled outside the core")

// Result is what a statement produces: either a row set (SELECT) or a
// mutation count (INSERT/UPDATE/DELETE), never both.
type Result struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Mutation bool
}

// Executor ties the parsed statement to one session's storage and scratch
// lifecycle.
type Executor struct {
	Sess *session.Session

	// scratch is the current statement's scratch namespace, set by
	// Execute for the duration of the call (including any nested
	// subqueries run through the same Executor) and nil otherwise.
	scratch *storage.Scratch
}

func New(sess *session.Session) *Executor {
	return &Executor{Sess: sess}
}

// Execute runs one parsed statement to completion. It owns the
// statement's scratch namespace for the duration of the call — created
// here, closed via defer on every exit path including error paths and
// including those reached through a nested subquery — per spec.md §5/§9:
// "each statement must own a unique scratch namespace and clean it on
// every exit path."
func (e *Executor) Execute(stmt *ast.Statement) (*Result, error) {
	scratch, err := e.Sess.NewStatementScratch()
	if err != nil {
		return nil, err
	}
	e.scratch = scratch
	defer func() {
		e.scratch = nil
		scratch.Close()
	}()

	switch {
	case stmt.Select != nil:
		return e.execSelect(stmt.Select)
	case stmt.Insert != nil:
		return e.execInsert(stmt.Insert)
	case stmt.Update != nil:
		return e.execUpdate(stmt.Update)
	case stmt.Delete != nil:
		return e.execDelete(stmt.Delete)
	case stmt.CreateTable != nil:
		return e.execCreateTable(stmt.CreateTable)
	case stmt.DropTable != nil:
		return e.execDropTable(stmt.DropTable)
	case stmt.CreateView != nil:
		return e.execCreateView(stmt.CreateView)
	case stmt.DropView != nil:
		return e.execDropView(stmt.DropView)
	case stmt.Help, stmt.Print:
		return nil, ErrExternal
	default:
		return nil, enginerr.ParseErrorf("empty statement")
	}
}
