package exec

import (
	"strings"

	"github.com/google/btree"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/schema"
)

// keySep joins composite join-key components; values never contain it in
// practice since the data model already forbids TAB/newline in fields and
// this uses a different control character.
const keySep = "\x1f"

// findJoinKeys scans conjuncts for equality clauses connecting the
// accumulated relation R to the next table T, per spec.md §4.5 point 1:
// one side must resolve into R's schema, the other into T's schema.
// Multiple such clauses form a composite join key. Everything else is
// returned untouched in remaining.
func findJoinKeys(conjuncts []ast.Expr, r *wideResolver, t *schema.Schema) (rIdx, tIdx []int, remaining []ast.Expr) {
	for _, c := range conjuncts {
		cmp, ok := c.(ast.Comparison)
		if !ok || cmp.Op != "=" || cmp.Left.Kind != ast.Ident || cmp.Right.Kind != ast.Ident {
			remaining = append(remaining, c)
			continue
		}
		if li, ok := r.Lookup(cmp.Left.Text); ok {
			if ti, ok2 := t.Lookup(cmp.Right.Text); ok2 {
				rIdx = append(rIdx, li)
				tIdx = append(tIdx, ti)
				continue
			}
		}
		if li, ok := r.Lookup(cmp.Right.Text); ok {
			if ti, ok2 := t.Lookup(cmp.Left.Text); ok2 {
				rIdx = append(rIdx, li)
				tIdx = append(tIdx, ti)
				continue
			}
		}
		remaining = append(remaining, c)
	}
	return rIdx, tIdx, remaining
}

func compositeKey(row []string, idx []int) string {
	if len(idx) == 1 {
		return row[idx[0]]
	}
	parts := make([]string, len(idx))
	for i, ix := range idx {
		parts[i] = row[ix]
	}
	return strings.Join(parts, keySep)
}

type keyedRow struct {
	key string
	idx int
}

// sortedByKey orders row indices by their join-key text using a
// google/btree ordered tree in place of a plain sort.Slice, giving the
// merge step below a real ordered-container traversal to drive from.
func sortedByKey(rows [][]string, keyIdx []int) []int {
	tree := btree.NewG(32, func(a, b keyedRow) bool {
		if a.key != b.key {
			return a.key < b.key
		}
		return a.idx < b.idx
	})
	for i, row := range rows {
		tree.ReplaceOrInsert(keyedRow{key: compositeKey(row, keyIdx), idx: i})
	}
	order := make([]int, 0, len(rows))
	tree.Ascend(func(kr keyedRow) bool {
		order = append(order, kr.idx)
		return true
	})
	return order
}

// joinTables merges rRows against tRows on the equi-join clauses found
// among conjuncts, returning the concatenated rows and the residual
// conjuncts (join-key clauses consumed). Fails with JoinOrderError if no
// clause connects R to T, per spec.md §4.5 point 2.
func joinTables(rRows [][]string, r *wideResolver, tRows [][]string, t *schema.Schema, conjuncts []ast.Expr) ([][]string, []ast.Expr, error) {
	rIdx, tIdx, remaining := findJoinKeys(conjuncts, r, t)
	if len(rIdx) == 0 {
		return nil, nil, enginerr.JoinOrderErrorf("Join not found, try reordering tables")
	}

	rOrder := sortedByKey(rRows, rIdx)
	tOrder := sortedByKey(tRows, tIdx)

	var out [][]string
	i, j := 0, 0
	for i < len(rOrder) && j < len(tOrder) {
		rk := compositeKey(rRows[rOrder[i]], rIdx)
		tk := compositeKey(tRows[tOrder[j]], tIdx)
		switch {
		case rk < tk:
			i++
		case rk > tk:
			j++
		default:
			ri := i
			for ri < len(rOrder) && compositeKey(rRows[rOrder[ri]], rIdx) == rk {
				ri++
			}
			tj := j
			for tj < len(tOrder) && compositeKey(tRows[tOrder[tj]], tIdx) == tk {
				tj++
			}
			for a := i; a < ri; a++ {
				for b := j; b < tj; b++ {
					merged := make([]string, 0, len(rRows[rOrder[a]])+len(tRows[tOrder[b]]))
					merged = append(merged, rRows[rOrder[a]]...)
					merged = append(merged, tRows[tOrder[b]]...)
					out = append(out, merged)
				}
			}
			i, j = ri, tj
		}
	}
	return out, remaining, nil
}
