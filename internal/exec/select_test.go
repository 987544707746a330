package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/schema"
)

func TestProjectExpandsStar(t *testing.T) {
	resolver := newWideResolver(&schema.Schema{Table: "t", Columns: []schema.Column{{Name: "a"}, {Name: "b"}}})
	cols, rows, err := project([]ast.SelectItem{{All: true}}, [][]string{{"1", "2"}}, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cols)
	assert.Equal(t, [][]string{{"1", "2"}}, rows)
}

func TestProjectUnknownColumn(t *testing.T) {
	resolver := newWideResolver(&schema.Schema{Table: "t", Columns: []schema.Column{{Name: "a"}}})
	_, _, err := project([]ast.SelectItem{{Column: "nope"}}, [][]string{{"1"}}, resolver)
	assert.Error(t, err)
}

func TestDedupeRowsPreservesFirstOccurrence(t *testing.T) {
	rows := [][]string{{"1", "a"}, {"2", "b"}, {"1", "a"}, {"3", "c"}, {"2", "b"}}
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}}, dedupeRows(rows))
}

func TestSortRowsNumericAndDescending(t *testing.T) {
	cols := []string{"n"}
	rows := [][]string{{"10"}, {"2"}, {"1"}}
	require.NoError(t, sortRows(cols, rows, []ast.OrderItem{{Column: "n", Numeric: true, Descending: true}}))
	assert.Equal(t, [][]string{{"10"}, {"2"}, {"1"}}, rows)
}

func TestSortRowsUnknownColumn(t *testing.T) {
	err := sortRows([]string{"a"}, [][]string{{"1"}}, []ast.OrderItem{{Column: "b"}})
	assert.Error(t, err)
}

func TestSortRowsStableOnTies(t *testing.T) {
	cols := []string{"a", "b"}
	rows := [][]string{{"x", "2"}, {"x", "1"}}
	require.NoError(t, sortRows(cols, rows, []ast.OrderItem{{Column: "a"}}))
	// "a" ties on every row; stable sort preserves original relative order.
	assert.Equal(t, [][]string{{"x", "2"}, {"x", "1"}}, rows)
}
