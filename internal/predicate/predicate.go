// Package predicate compiles a WHERE-clause ast.Expr into a callable
// Predicate over an in-memory record. Comparison is string-based by
// default; when both operands of an ordering comparison parse as numbers,
// they are compared numerically instead, per the "MAY" allowance in the
// language's comparison rules.
package predicate

import (
	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/storage"
)

// Predicate evaluates one record (its fields, 0-indexed) against a
// compiled WHERE expression.
type Predicate func(row []string) (bool, error)

// Resolver maps a column name to its 0-based positional index. Both
// schema.Schema and combined multi-table resolvers built by the executor
// satisfy this.
type Resolver interface {
	Lookup(name string) (int, bool)
}

// SubqueryRunner executes a nested SELECT on behalf of a scalar or IN
// predicate. The executor implements this; predicate never imports it,
// which keeps predicate and exec from forming an import cycle.
type SubqueryRunner interface {
	// RunScalar runs stmt and returns its sole value. Fails with
	// SubqueryError if the result isn't exactly one row of one column.
	RunScalar(stmt *ast.SelectStmt) (string, error)
	// RunSet runs stmt and returns the values of its single projected
	// column across every result row. Fails with SubqueryError if the
	// result has more than one column.
	RunSet(stmt *ast.SelectStmt) ([]string, error)
}

// Compile turns expr into a Predicate resolved against resolver, using
// runner to evaluate any embedded subqueries. expr may be nil, in which
// case Compile returns a predicate that accepts every row (no WHERE
// clause).
func Compile(expr ast.Expr, resolver Resolver, runner SubqueryRunner) (Predicate, error) {
	if expr == nil {
		return func(row []string) (bool, error) { return true, nil }, nil
	}
	return compile(expr, resolver, runner)
}

func compile(e ast.Expr, resolver Resolver, runner SubqueryRunner) (Predicate, error) {
	switch n := e.(type) {
	case ast.AndExpr:
		l, err := compile(n.Left, resolver, runner)
		if err != nil {
			return nil, err
		}
		r, err := compile(n.Right, resolver, runner)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			lv, err := l(row)
			if err != nil || !lv {
				return false, err
			}
			return r(row)
		}, nil

	case ast.OrExpr:
		l, err := compile(n.Left, resolver, runner)
		if err != nil {
			return nil, err
		}
		r, err := compile(n.Right, resolver, runner)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			lv, err := l(row)
			if err != nil {
				return false, err
			}
			if lv {
				return true, nil
			}
			return r(row)
		}, nil

	case ast.NotExpr:
		inner, err := compile(n.Inner, resolver, runner)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			v, err := inner(row)
			if err != nil {
				return false, err
			}
			return !v, nil
		}, nil

	case ast.Comparison:
		return compileComparison(n, resolver)

	case ast.InExpr:
		return compileIn(n, resolver, runner)

	case ast.ScalarComparison:
		return compileScalarComparison(n, resolver, runner)

	default:
		return nil, enginerr.ParseErrorf("unsupported expression node in WHERE clause")
	}
}

// getter reads one Value out of a record: a literal always returns its
// own text; a bareword resolves to a field read if the resolver has it,
// or its literal text otherwise (the bareword-as-literal convenience).
type getter func(row []string) string

func makeGetter(v ast.Value, resolver Resolver) getter {
	if v.Kind == ast.Str {
		text := v.Text
		return func(row []string) string { return text }
	}
	if idx, ok := resolver.Lookup(v.Text); ok {
		return func(row []string) string {
			if idx < len(row) {
				return row[idx]
			}
			return ""
		}
	}
	text := v.Text
	return func(row []string) string { return text }
}

func compileComparison(n ast.Comparison, resolver Resolver) (Predicate, error) {
	left := makeGetter(n.Left, resolver)
	right := makeGetter(n.Right, resolver)
	op := n.Op
	return func(row []string) (bool, error) {
		return Compare(op, left(row), right(row)), nil
	}, nil
}

func compileIn(n ast.InExpr, resolver Resolver, runner SubqueryRunner) (Predicate, error) {
	left := makeGetter(n.Left, resolver)
	negate := n.Not
	sub := n.Subquery

	var (
		loaded bool
		set    []string
		loadErr error
	)
	load := func() ([]string, error) {
		if !loaded {
			set, loadErr = runner.RunSet(sub)
			loaded = true
		}
		return set, loadErr
	}

	return func(row []string) (bool, error) {
		values, err := load()
		if err != nil {
			return false, err
		}
		want := left(row)
		found := false
		for _, v := range values {
			if v == want {
				found = true
				break
			}
		}
		if negate {
			return !found, nil
		}
		return found, nil
	}, nil
}

func compileScalarComparison(n ast.ScalarComparison, resolver Resolver, runner SubqueryRunner) (Predicate, error) {
	left := makeGetter(n.Left, resolver)
	op := n.Op
	sub := n.Subquery

	var (
		loaded bool
		value  string
		loadErr error
	)
	load := func() (string, error) {
		if !loaded {
			value, loadErr = runner.RunScalar(sub)
			loaded = true
		}
		return value, loadErr
	}

	return func(row []string) (bool, error) {
		rv, err := load()
		if err != nil {
			return false, err
		}
		return Compare(op, left(row), rv), nil
	}, nil
}

// Compare implements the comparison rule shared by WHERE, ORDER BY (via
// Less), and MIN/MAX: string comparison by default, numeric comparison
// for ordering operators when both operands parse as numbers.
func Compare(op, left, right string) bool {
	switch op {
	case "=":
		return left == right
	case "!=", "<>":
		return left != right
	case "<":
		return Less(left, right)
	case ">":
		return Less(right, left)
	case "<=":
		return !Less(right, left)
	case ">=":
		return !Less(left, right)
	default:
		return false
	}
}

// Less orders two field values: numerically if both parse as numbers,
// lexicographically otherwise.
func Less(a, b string) bool {
	if af, aok := storage.ParseNumber(a); aok {
		if bf, bok := storage.ParseNumber(b); bok {
			return af < bf
		}
	}
	return a < b
}
