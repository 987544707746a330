package exec

import (
	"fmt"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/predicate"
	"github.com/zakazai/flatsql/internal/storage"
)

// isAggregateList reports whether items are all aggregates, all scalars, or
// a mix (the last of which is rejected per spec.md §4.5's all-or-nothing
// rule).
func isAggregateList(items []ast.SelectItem) (bool, error) {
	agg := items[0].Aggregate != ""
	for _, it := range items[1:] {
		if (it.Aggregate != "") != agg {
			return false, enginerr.ParseErrorf("cannot mix aggregates and plain columns in one select list")
		}
	}
	return agg, nil
}

// computeAggregates reduces rows to the single result row named by items,
// each of which is one of COUNT/SUM/AVG/MIN/MAX.
func computeAggregates(items []ast.SelectItem, rows [][]string, resolver *wideResolver) ([]string, []string, error) {
	cols := make([]string, len(items))
	out := make([]string, len(items))
	for i, it := range items {
		cols[i] = fmt.Sprintf("%s(%s)", it.Aggregate, it.Column)

		if it.Column == "*" {
			if it.Aggregate != "count" {
				return nil, nil, enginerr.ParseErrorf("%s(*) is not supported", it.Aggregate)
			}
			out[i] = fmt.Sprintf("%d", len(rows))
			continue
		}

		idx, ok := resolver.Lookup(it.Column)
		if !ok {
			return nil, nil, enginerr.NotFoundErrorf("column %q does not exist", it.Column)
		}

		switch it.Aggregate {
		case "count":
			n := 0
			for _, row := range rows {
				if idx < len(row) && row[idx] != "" {
					n++
				}
			}
			out[i] = fmt.Sprintf("%d", n)
		case "sum", "avg":
			var sum float64
			for _, row := range rows {
				if idx >= len(row) {
					continue
				}
				if f, ok := storage.ParseNumber(row[idx]); ok {
					sum += f
				}
			}
			if it.Aggregate == "avg" {
				if len(rows) == 0 {
					out[i] = "0"
				} else {
					out[i] = formatNumber(sum / float64(len(rows)))
				}
			} else {
				out[i] = formatNumber(sum)
			}
		case "min", "max":
			if len(rows) == 0 {
				out[i] = ""
				continue
			}
			best := rows[0][idx]
			for _, row := range rows[1:] {
				if idx >= len(row) {
					continue
				}
				v := row[idx]
				if it.Aggregate == "min" && predicate.Less(v, best) {
					best = v
				}
				if it.Aggregate == "max" && predicate.Less(best, v) {
					best = v
				}
			}
			out[i] = best
		default:
			return nil, nil, enginerr.ParseErrorf("unknown aggregate %q", it.Aggregate)
		}
	}
	return cols, out, nil
}

// formatNumber trims a float64 result to an integer-looking string when it
// has no fractional part, matching how the source text itself looks for
// whole-number fields.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
