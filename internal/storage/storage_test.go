package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zakazai/flatsql/internal/schema"
)

func TestCreateAndDropTable(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	cols := []schema.Column{{Name: "id", Width: 10}, {Name: "name", Width: 20}}
	require.NoError(t, s.CreateTable("users", cols))

	exists, err := s.Exists("users")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.CreateTable("users", cols)
	assert.Error(t, err)

	require.NoError(t, s.DropTable("users"))
	exists, err = s.Exists("users")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, s.DropTable("users"))
}

func TestAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.CreateTable("t", []schema.Column{{Name: "a", Width: 5}}))

	require.NoError(t, s.AppendRows("t", [][]string{{"1"}, {"2"}}))
	rows, err := s.ReadAll("t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}, {"2"}}, rows)
}

func TestRewriteRowsIsAtomic(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.CreateTable("t", []schema.Column{{Name: "a", Width: 5}}))
	require.NoError(t, s.AppendRows("t", [][]string{{"1"}, {"2"}, {"3"}}))

	require.NoError(t, s.RewriteRows("t", [][]string{{"2"}}))
	rows, err := s.ReadAll("t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2"}}, rows)

	// no leftover temp files after a successful rewrite
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestCorruptHalfPresentTableIsReportedAsError(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.CreateTable("t", []schema.Column{{Name: "a", Width: 5}}))
	require.NoError(t, os.Remove(s.DataPath("t")))

	_, err := s.Exists("t")
	assert.Error(t, err)
}

func TestViewRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.SaveView("v", []string{"t1.k=t2.k"}))
	assert.True(t, s.ViewExists("v"))

	clauses, err := s.LoadView("v")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1.k=t2.k"}, clauses)

	require.NoError(t, s.DropView("v"))
	assert.False(t, s.ViewExists("v"))

	_, err = s.LoadView("v")
	assert.Error(t, err)
}

func TestScratchNamespace(t *testing.T) {
	root := t.TempDir()
	sc, err := NewScratch(root)
	require.NoError(t, err)

	path := sc.NewFile("join")
	require.NoError(t, WriteRows(path, [][]string{{"a", "b"}}))
	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)

	require.NoError(t, sc.Close())
	_, err = os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err))
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber("42")
	assert.True(t, ok)
	assert.Equal(t, 42.0, f)

	_, ok = ParseNumber("not-a-number")
	assert.False(t, ok)
}
