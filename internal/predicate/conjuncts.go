package predicate

import "github.com/zakazai/flatsql/internal/ast"

// FlattenAnd splits a top-level conjunction into its conjuncts. Anything
// other than an AndExpr is returned as a single-element list; OR/NOT
// subtrees are opaque to the join executor's equi-join search, per the
// language's contract that only top-level equality clauses connect a join.
func FlattenAnd(e ast.Expr) []ast.Expr {
	if e == nil {
		return nil
	}
	if and, ok := e.(ast.AndExpr); ok {
		return append(FlattenAnd(and.Left), FlattenAnd(and.Right)...)
	}
	return []ast.Expr{e}
}

// RebuildAnd re-conjoins a conjunct list, or nil if empty.
func RebuildAnd(conjuncts []ast.Expr) ast.Expr {
	if len(conjuncts) == 0 {
		return nil
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = ast.AndExpr{Left: result, Right: c}
	}
	return result
}
