package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/schema"
)

func numSchema() *wideResolver {
	return newWideResolver(&schema.Schema{Table: "t", Columns: []schema.Column{{Name: "n"}}})
}

func TestComputeAggregatesCountSumAvgMinMax(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {""}}
	resolver := numSchema()

	items := []ast.SelectItem{
		{Aggregate: "count", Column: "n"},
		{Aggregate: "sum", Column: "n"},
		{Aggregate: "avg", Column: "n"},
		{Aggregate: "min", Column: "n"},
		{Aggregate: "max", Column: "n"},
	}
	cols, out, err := computeAggregates(items, rows, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"count(n)", "sum(n)", "avg(n)", "min(n)", "max(n)"}, cols)
	// COUNT excludes the empty value; SUM/AVG treat it as zero.
	assert.Equal(t, []string{"3", "6", "1.5", "", "3"}, out)
}

func TestComputeAggregatesCountStar(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}}
	resolver := numSchema()

	cols, out, err := computeAggregates([]ast.SelectItem{{Aggregate: "count", Column: "*"}}, rows, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"count(*)"}, cols)
	assert.Equal(t, []string{"2"}, out)
}

func TestComputeAggregatesEmptyRowSet(t *testing.T) {
	resolver := numSchema()
	cols, out, err := computeAggregates([]ast.SelectItem{
		{Aggregate: "count", Column: "n"},
		{Aggregate: "sum", Column: "n"},
		{Aggregate: "min", Column: "n"},
	}, nil, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"count(n)", "sum(n)", "min(n)"}, cols)
	assert.Equal(t, []string{"0", "0", ""}, out)
}

func TestIsAggregateListRejectsMix(t *testing.T) {
	_, err := isAggregateList([]ast.SelectItem{
		{Column: "a"},
		{Aggregate: "count", Column: "b"},
	})
	assert.Error(t, err)
}

func TestIsAggregateListAllPlain(t *testing.T) {
	agg, err := isAggregateList([]ast.SelectItem{{Column: "a"}, {Column: "b"}})
	require.NoError(t, err)
	assert.False(t, agg)
}
