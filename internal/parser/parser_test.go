package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zakazai/flatsql/internal/ast"
)

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("select a b from t where a = 1")
	require.NoError(t, err)
	require.NotNil(t, stmt.Select)
	assert.Equal(t, []ast.SelectItem{{Column: "a"}, {Column: "b"}}, stmt.Select.Items)
	assert.Equal(t, []string{"t"}, stmt.Select.Tables)
	assert.Equal(t, ast.Comparison{
		Left:  ast.Value{Kind: ast.Ident, Text: "a"},
		Right: ast.Value{Kind: ast.Ident, Text: "1"},
		Op:    "=",
	}, stmt.Select.Where)
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("select * from t")
	require.NoError(t, err)
	assert.Equal(t, []ast.SelectItem{{All: true}}, stmt.Select.Items)
}

func TestParseAggregate(t *testing.T) {
	stmt, err := Parse("select count(id) sum(amount) from orders")
	require.NoError(t, err)
	assert.Equal(t, []ast.SelectItem{
		{Aggregate: "count", Column: "id"},
		{Aggregate: "sum", Column: "amount"},
	}, stmt.Select.Items)
}

func TestParseWhereAndOrPrecedence(t *testing.T) {
	// "a" or "b" and "c" should parse as Or(a, And(b, c)): AND binds
	// tighter than OR.
	stmt, err := Parse(`select x from t where a = 1 or b = 2 and c = 3`)
	require.NoError(t, err)

	or, ok := stmt.Select.Where.(ast.OrExpr)
	require.True(t, ok, "expected top-level OrExpr, got %T", stmt.Select.Where)

	left, ok := or.Left.(ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "1", left.Right.Text)

	right, ok := or.Right.(ast.AndExpr)
	require.True(t, ok, "expected right side to be an AndExpr, got %T", or.Right)
	rl, ok := right.Left.(ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "2", rl.Right.Text)
	rr, ok := right.Right.(ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "3", rr.Right.Text)
}

func TestParseNotPrecedence(t *testing.T) {
	stmt, err := Parse(`select x from t where not a = 1 and b = 2`)
	require.NoError(t, err)

	and, ok := stmt.Select.Where.(ast.AndExpr)
	require.True(t, ok)
	_, ok = and.Left.(ast.NotExpr)
	require.True(t, ok, "NOT should bind to just the first comparison")
}

func TestParseInSubquery(t *testing.T) {
	stmt, err := Parse(`select x from t where a in select b from u`)
	require.NoError(t, err)
	in, ok := stmt.Select.Where.(ast.InExpr)
	require.True(t, ok)
	assert.False(t, in.Not)
	require.NotNil(t, in.Subquery)
	assert.Equal(t, []string{"u"}, in.Subquery.Tables)
}

func TestParseNotInSubquery(t *testing.T) {
	stmt, err := Parse(`select x from t where a not in select b from u`)
	require.NoError(t, err)
	in, ok := stmt.Select.Where.(ast.InExpr)
	require.True(t, ok)
	assert.True(t, in.Not)
}

func TestParseScalarSubquery(t *testing.T) {
	stmt, err := Parse(`select x from t where age = select max(age) from users`)
	require.NoError(t, err)
	sc, ok := stmt.Select.Where.(ast.ScalarComparison)
	require.True(t, ok)
	assert.Equal(t, "=", sc.Op)
	require.NotNil(t, sc.Subquery)
	assert.Equal(t, []ast.SelectItem{{Aggregate: "max", Column: "age"}}, sc.Subquery.Items)
}

func TestParseUnion(t *testing.T) {
	stmt, err := Parse("select a from t union select a from u")
	require.NoError(t, err)
	require.NotNil(t, stmt.Select.Union)
	assert.Equal(t, []string{"u"}, stmt.Select.Union.Tables)
}

func TestParseOrderBy(t *testing.T) {
	stmt, err := Parse("select a from t order by a num desc b asc")
	require.NoError(t, err)
	assert.Equal(t, []ast.OrderItem{
		{Column: "a", Numeric: true, Descending: true},
		{Column: "b", Numeric: false, Descending: false},
	}, stmt.Select.OrderBy)
}

func TestParseDistinct(t *testing.T) {
	stmt, err := Parse("select distinct a from t")
	require.NoError(t, err)
	assert.True(t, stmt.Select.Distinct)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`insert into t values (1 'two' 3)`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Insert)
	assert.Equal(t, "t", stmt.Insert.Table)
	assert.Equal(t, []ast.Value{
		{Kind: ast.Ident, Text: "1"},
		{Kind: ast.Str, Text: "two"},
		{Kind: ast.Ident, Text: "3"},
	}, stmt.Insert.Values)
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse(`update t set a = 1 b = 2 where c = 3`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Update)
	assert.Equal(t, "t", stmt.Update.Table)
	assert.Len(t, stmt.Update.Assignments, 2)
	assert.NotNil(t, stmt.Update.Where)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse(`delete from t where a = 1`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Delete)
	assert.Equal(t, "t", stmt.Delete.Table)
}

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse(`create table t ( a 10 b 20 )`)
	require.NoError(t, err)
	require.NotNil(t, stmt.CreateTable)
	assert.Equal(t, []ast.ColumnDef{{Name: "a", Width: 10}, {Name: "b", Width: 20}}, stmt.CreateTable.Columns)
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse(`drop table t`)
	require.NoError(t, err)
	assert.Equal(t, "t", stmt.DropTable.Table)
}

func TestParseCreateView(t *testing.T) {
	stmt, err := Parse(`create view v ( t1.k = t2.k )`)
	require.NoError(t, err)
	require.NotNil(t, stmt.CreateView)
	assert.Equal(t, "v", stmt.CreateView.View)
	assert.Equal(t, []ast.ViewClause{{LeftTable: "t1", LeftCol: "k", RightTable: "t2", RightCol: "k"}}, stmt.CreateView.Clauses)
}

func TestParseDropView(t *testing.T) {
	stmt, err := Parse(`drop view v`)
	require.NoError(t, err)
	assert.Equal(t, "v", stmt.DropView.View)
}

func TestParseHelpAndPrint(t *testing.T) {
	stmt, err := Parse("help")
	require.NoError(t, err)
	assert.True(t, stmt.Help)

	stmt, err = Parse("print")
	require.NoError(t, err)
	assert.True(t, stmt.Print)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("frobnicate t")
	assert.Error(t, err)
}

func TestParseEmptyStatement(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}
