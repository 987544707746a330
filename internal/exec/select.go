package exec

import (
	"sort"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/predicate"
	"github.com/zakazai/flatsql/internal/schema"
	"github.com/zakazai/flatsql/internal/storage"
)

func (e *Executor) execSelect(stmt *ast.SelectStmt) (*Result, error) {
	cols, rows, err := e.runSelect(stmt)
	if err != nil {
		return nil, err
	}
	return &Result{Columns: cols, Rows: rows, RowCount: len(rows)}, nil
}

// spill round-trips rows through a fresh file in the statement's scratch
// namespace, per spec.md §5/§9: "joins, sorts, and DISTINCT use temporary
// files." Used to materialize the intermediate join relation R and the
// pre-sort/pre-distinct row sets as actual scratch files rather than bare
// Go slices.
func (e *Executor) spill(label string, rows [][]string) ([][]string, error) {
	path := e.scratch.NewFile(label)
	if err := storage.WriteRows(path, rows); err != nil {
		return nil, err
	}
	return storage.ReadRows(path)
}

// runSelect runs stmt and every statement chained onto it with UNION,
// concatenating and then de-duplicating the combined row set (spec.md
// §4.5's bag-union is not provided).
func (e *Executor) runSelect(stmt *ast.SelectStmt) ([]string, [][]string, error) {
	cols, rows, err := e.runSelectLevel(stmt)
	if err != nil {
		return nil, nil, err
	}

	hasUnion := stmt.Union != nil
	for cur := stmt.Union; cur != nil; cur = cur.Union {
		c2, r2, err := e.runSelectLevel(cur)
		if err != nil {
			return nil, nil, err
		}
		if len(c2) != len(cols) {
			return nil, nil, enginerr.ArityErrorf("union column count mismatch")
		}
		rows = append(rows, r2...)
	}
	if hasUnion {
		rows = dedupeRows(rows)
	}
	return cols, rows, nil
}

// runSelectLevel runs one SELECT (no UNION), per spec.md §4.5: load each
// FROM table, join them left-to-right, apply the residual predicate,
// project or aggregate, DISTINCT, then ORDER BY.
func (e *Executor) runSelectLevel(stmt *ast.SelectStmt) ([]string, [][]string, error) {
	if _, err := isAggregateList(stmt.Items); err != nil {
		return nil, nil, err
	}

	tables, viewWhere, err := expandViews(e.Sess.Store, stmt.Tables)
	if err != nil {
		return nil, nil, err
	}
	if len(tables) == 0 {
		return nil, nil, enginerr.ParseErrorf("FROM clause names no table")
	}

	where := stmt.Where
	if viewWhere != nil {
		if where == nil {
			where = viewWhere
		} else {
			where = ast.AndExpr{Left: where, Right: viewWhere}
		}
	}

	firstSchema, err := e.Sess.Store.LoadSchema(tables[0])
	if err != nil {
		return nil, nil, err
	}
	rRows, err := e.Sess.Store.ReadAll(tables[0])
	if err != nil {
		return nil, nil, err
	}
	schemas := []*schema.Schema{firstSchema}
	resolver := newWideResolver(firstSchema)
	conjuncts := predicate.FlattenAnd(where)

	for i := 1; i < len(tables); i++ {
		tSchema, err := e.Sess.Store.LoadSchema(tables[i])
		if err != nil {
			return nil, nil, err
		}
		tRows, err := e.Sess.Store.ReadAll(tables[i])
		if err != nil {
			return nil, nil, err
		}
		merged, remaining, err := joinTables(rRows, resolver, tRows, tSchema, conjuncts)
		if err != nil {
			return nil, nil, err
		}
		// R is maintained as a scratch file across join steps, per
		// spec.md §4.5's "An intermediate relation R is maintained as a
		// scratch file."
		rRows, err = e.spill("join", merged)
		if err != nil {
			return nil, nil, err
		}
		conjuncts = remaining
		schemas = append(schemas, tSchema)
		resolver = newWideResolver(schemas...)
	}

	residual := predicate.RebuildAnd(conjuncts)
	pred, err := predicate.Compile(residual, resolver, e.asSubqueryRunner())
	if err != nil {
		return nil, nil, err
	}

	filtered := make([][]string, 0, len(rRows))
	for _, row := range rRows {
		ok, err := pred(row)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			filtered = append(filtered, row)
		}
	}

	isAgg, _ := isAggregateList(stmt.Items)
	if isAgg {
		cols, row, err := computeAggregates(stmt.Items, filtered, resolver)
		if err != nil {
			return nil, nil, err
		}
		return cols, [][]string{row}, nil
	}

	cols, projected, err := project(stmt.Items, filtered, resolver)
	if err != nil {
		return nil, nil, err
	}
	if stmt.Distinct {
		projected, err = e.spill("distinct", projected)
		if err != nil {
			return nil, nil, err
		}
		projected = dedupeRows(projected)
	}
	if len(stmt.OrderBy) > 0 {
		projected, err = e.spill("sort", projected)
		if err != nil {
			return nil, nil, err
		}
		if err := sortRows(cols, projected, stmt.OrderBy); err != nil {
			return nil, nil, err
		}
	}
	return cols, projected, nil
}

func project(items []ast.SelectItem, rows [][]string, resolver *wideResolver) ([]string, [][]string, error) {
	var idxs []int
	var cols []string
	for _, it := range items {
		if it.All {
			for i, n := range resolver.Names() {
				idxs = append(idxs, i)
				cols = append(cols, n)
			}
			continue
		}
		idx, ok := resolver.Lookup(it.Column)
		if !ok {
			return nil, nil, enginerr.NotFoundErrorf("column %q does not exist", it.Column)
		}
		idxs = append(idxs, idx)
		cols = append(cols, it.Column)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		projected := make([]string, len(idxs))
		for j, idx := range idxs {
			if idx < len(row) {
				projected[j] = row[idx]
			}
		}
		out[i] = projected
	}
	return cols, out, nil
}

// dedupeRows removes full-tuple duplicates, preserving first-occurrence
// order. TAB-joining is safe as a dedupe key because the data model
// forbids TAB within a field value.
func dedupeRows(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := storage.EncodeRow(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func sortRows(cols []string, rows [][]string, order []ast.OrderItem) error {
	idxs := make([]int, len(order))
	for i, o := range order {
		idx := indexOf(cols, o.Column)
		if idx < 0 {
			return enginerr.NotFoundErrorf("column %q is not in the select list, cannot ORDER BY it", o.Column)
		}
		idxs[i] = idx
	}
	sort.SliceStable(rows, func(a, b int) bool {
		for i, o := range order {
			idx := idxs[i]
			c := compareValues(rows[a][idx], rows[b][idx], o.Numeric)
			if c == 0 {
				continue
			}
			if o.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

func compareValues(a, b string, numeric bool) int {
	if a == b {
		return 0
	}
	var less bool
	if numeric {
		af, _ := storage.ParseNumber(a)
		bf, _ := storage.ParseNumber(b)
		less = af < bf
	} else {
		less = predicate.Less(a, b)
	}
	if less {
		return -1
	}
	return 1
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
