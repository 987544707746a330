package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zakazai/flatsql/internal/ast"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/schema"
)

func usersSchema() *schema.Schema {
	return &schema.Schema{Table: "users", Columns: []schema.Column{{Name: "id", Width: 5}, {Name: "name", Width: 20}}}
}

func ordersSchema() *schema.Schema {
	return &schema.Schema{Table: "orders", Columns: []schema.Column{{Name: "user_id", Width: 5}, {Name: "item", Width: 20}}}
}

func eqClause(left, right string) ast.Expr {
	return ast.Comparison{Left: ast.Value{Kind: ast.Ident, Text: left}, Right: ast.Value{Kind: ast.Ident, Text: right}, Op: "="}
}

func TestFindJoinKeysBothOrders(t *testing.T) {
	r := newWideResolver(usersSchema())
	t2 := ordersSchema()

	// left-resolves-in-R, right-resolves-in-T
	rIdx, tIdx, remaining := findJoinKeys([]ast.Expr{eqClause("id", "user_id")}, r, t2)
	assert.Equal(t, []int{0}, rIdx)
	assert.Equal(t, []int{0}, tIdx)
	assert.Empty(t, remaining)

	// right-resolves-in-R, left-resolves-in-T (reversed)
	rIdx, tIdx, remaining = findJoinKeys([]ast.Expr{eqClause("user_id", "id")}, r, t2)
	assert.Equal(t, []int{0}, rIdx)
	assert.Equal(t, []int{0}, tIdx)
	assert.Empty(t, remaining)
}

func TestFindJoinKeysIgnoresUnrelatedConjuncts(t *testing.T) {
	r := newWideResolver(usersSchema())
	t2 := ordersSchema()

	unrelated := ast.Comparison{Left: ast.Value{Kind: ast.Ident, Text: "item"}, Right: ast.Value{Kind: ast.Str, Text: "widget"}, Op: "="}
	rIdx, _, remaining := findJoinKeys([]ast.Expr{unrelated}, r, t2)
	assert.Empty(t, rIdx)
	assert.Equal(t, []ast.Expr{unrelated}, remaining)
}

func TestJoinTablesMergesOnEqualityKey(t *testing.T) {
	r := newWideResolver(usersSchema())
	rRows := [][]string{{"1", "alice"}, {"2", "bob"}}
	tRows := [][]string{{"1", "widget"}, {"2", "gadget"}, {"1", "gizmo"}}

	merged, remaining, err := joinTables(rRows, r, tRows, ordersSchema(), []ast.Expr{eqClause("id", "user_id")})
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.ElementsMatch(t, [][]string{
		{"1", "alice", "1", "widget"},
		{"1", "alice", "1", "gizmo"},
		{"2", "bob", "2", "gadget"},
	}, merged)
}

func TestJoinTablesNoKeyFailsWithJoinOrderError(t *testing.T) {
	r := newWideResolver(usersSchema())
	_, _, err := joinTables(nil, r, nil, ordersSchema(), nil)
	require.Error(t, err)
	kind, ok := enginerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, enginerr.JoinOrder, kind)
}

func TestCompositeKeyJoin(t *testing.T) {
	left := &schema.Schema{Table: "l", Columns: []schema.Column{{Name: "a"}, {Name: "b"}}}
	right := &schema.Schema{Table: "r", Columns: []schema.Column{{Name: "c"}, {Name: "d"}}}
	r := newWideResolver(left)

	rRows := [][]string{{"1", "x"}, {"1", "y"}}
	tRows := [][]string{{"1", "x"}, {"1", "z"}}

	conjuncts := []ast.Expr{eqClause("a", "c"), eqClause("b", "d")}
	merged, remaining, err := joinTables(rRows, r, tRows, right, conjuncts)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, [][]string{{"1", "x", "1", "x"}}, merged)
}
