// Package storage implements the file-backed table model: schema/data file
// pairing, row iteration, and whole-file rewrites. Every mutation that
// replaces a data file writes to a sibling temp file first and renames it
// into place, so a reader never observes a half-written file and an
// IOError during rewrite leaves the original untouched.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/schema"
)

const (
	schemaSuffix = "@"
	dataSuffix   = "~"
	viewSuffix   = "!"
)

// Store roots the file-backed table model at one database directory.
type Store struct {
	Dir string

	tmpSeq uint64
}

// New opens a Store rooted at dir. dir must already exist; callers are
// responsible for validating that at startup (ConfigError territory).
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) SchemaPath(table string) string {
	return filepath.Join(s.Dir, table+schemaSuffix)
}

func (s *Store) DataPath(table string) string {
	return filepath.Join(s.Dir, table+dataSuffix)
}

func (s *Store) ViewPath(view string) string {
	return filepath.Join(s.Dir, view+viewSuffix)
}

// Exists reports whether table exists per Invariant 1: both files present.
// Exactly one present is a corrupt state, reported as NotFound so callers
// refuse to operate on it rather than silently treating it as absent.
func (s *Store) Exists(table string) (bool, error) {
	_, schemaErr := os.Stat(s.SchemaPath(table))
	_, dataErr := os.Stat(s.DataPath(table))
	schemaOK := schemaErr == nil
	dataOK := dataErr == nil
	if schemaOK && dataOK {
		return true, nil
	}
	if !schemaOK && !dataOK {
		return false, nil
	}
	return false, enginerr.NotFoundErrorf("table %q is corrupt: schema present=%v data present=%v", table, schemaOK, dataOK)
}

// CreateTable writes the schema file, then touches an empty data file.
// Fails with AlreadyExistsError if either file already exists.
func (s *Store) CreateTable(table string, cols []schema.Column) error {
	// A half-present table (err != nil) counts as existing too.
	exists, err := s.Exists(table)
	if exists || err != nil {
		return enginerr.AlreadyExistsErrorf("table %q already exists", table)
	}
	if _, err := os.Stat(s.SchemaPath(table)); err == nil {
		return enginerr.AlreadyExistsErrorf("table %q already exists", table)
	}
	if _, err := os.Stat(s.DataPath(table)); err == nil {
		return enginerr.AlreadyExistsErrorf("table %q already exists", table)
	}
	if err := schema.Save(s.SchemaPath(table), cols); err != nil {
		return err
	}
	f, err := os.Create(s.DataPath(table))
	if err != nil {
		return enginerr.IOErrorf(err, "creating data file for %q", table)
	}
	return f.Close()
}

// DropTable removes both files. Fails with NotFoundError if either is
// missing.
func (s *Store) DropTable(table string) error {
	exists, err := s.Exists(table)
	if err != nil {
		return err
	}
	if !exists {
		return enginerr.NotFoundErrorf("table %q does not exist", table)
	}
	if err := os.Remove(s.SchemaPath(table)); err != nil {
		return enginerr.IOErrorf(err, "removing schema for %q", table)
	}
	if err := os.Remove(s.DataPath(table)); err != nil {
		return enginerr.IOErrorf(err, "removing data file for %q", table)
	}
	return nil
}

// LoadSchema loads table's column list.
func (s *Store) LoadSchema(table string) (*schema.Schema, error) {
	exists, err := s.Exists(table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, enginerr.NotFoundErrorf("table %q does not exist", table)
	}
	return schema.Load(table, s.SchemaPath(table))
}

// RowReader streams a table's data file one record at a time.
type RowReader struct {
	f  *os.File
	sc *bufio.Scanner
	n  int
}

// Rows opens a streaming reader over table's data file, in on-disk order.
func (s *Store) Rows(table string) (*RowReader, error) {
	f, err := os.Open(s.DataPath(table))
	if err != nil {
		return nil, enginerr.IOErrorf(err, "opening data file for %q", table)
	}
	return &RowReader{f: f, sc: bufio.NewScanner(f)}, nil
}

// Next advances to the next record, returning its fields. ok is false at
// EOF or on error; call Err to distinguish the two.
func (r *RowReader) Next() (fields []string, ok bool) {
	if !r.sc.Scan() {
		return nil, false
	}
	r.n++
	return DecodeRow(r.sc.Text()), true
}

func (r *RowReader) Err() error {
	if err := r.sc.Err(); err != nil {
		return enginerr.IOErrorf(err, "reading data file")
	}
	return nil
}

func (r *RowReader) Close() error {
	return r.f.Close()
}

// ReadAll materializes every row of table, in on-disk order.
func (s *Store) ReadAll(table string) ([][]string, error) {
	r, err := s.Rows(table)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var rows [][]string
	for {
		fields, ok := r.Next()
		if !ok {
			break
		}
		rows = append(rows, fields)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendRows appends rows to table's data file, one TAB-joined line each.
func (s *Store) AppendRows(table string, rows [][]string) error {
	f, err := os.OpenFile(s.DataPath(table), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return enginerr.IOErrorf(err, "opening data file for append on %q", table)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, row := range rows {
		if _, err := w.WriteString(EncodeRow(row) + "\n"); err != nil {
			return enginerr.IOErrorf(err, "appending row to %q", table)
		}
	}
	return w.Flush()
}

// RewriteRows replaces table's entire data file with rows. The replacement
// is written to a sibling temp file and renamed over the original so a
// concurrent reader never observes a partial file, and an IOError midway
// leaves the original data file intact.
func (s *Store) RewriteRows(table string, rows [][]string) error {
	dataPath := s.DataPath(table)
	tmpPath := s.tempPath(dataPath)

	f, err := os.Create(tmpPath)
	if err != nil {
		return enginerr.IOErrorf(err, "creating scratch file for %q rewrite", table)
	}
	w := bufio.NewWriter(f)
	for _, row := range rows {
		if _, err := w.WriteString(EncodeRow(row) + "\n"); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return enginerr.IOErrorf(err, "writing rewrite of %q", table)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return enginerr.IOErrorf(err, "flushing rewrite of %q", table)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return enginerr.IOErrorf(err, "closing rewrite of %q", table)
	}
	if err := os.Rename(tmpPath, dataPath); err != nil {
		os.Remove(tmpPath)
		return enginerr.IOErrorf(err, "renaming rewrite of %q into place", table)
	}
	return nil
}

func (s *Store) tempPath(base string) string {
	n := atomic.AddUint64(&s.tmpSeq, 1)
	return fmt.Sprintf("%s.tmp-%d-%d", base, os.Getpid(), n)
}

// EncodeRow joins fields with a single TAB, matching the data file format.
func EncodeRow(fields []string) string {
	return strings.Join(fields, "\t")
}

// DecodeRow splits a data line into its TAB-separated fields.
func DecodeRow(line string) []string {
	if line == "" {
		return []string{""}
	}
	return strings.Split(line, "\t")
}

// SaveView persists an equi-join specification as newline-joined
// "table.col=table.col" clauses under name's view file.
func (s *Store) SaveView(name string, clauses []string) error {
	f, err := os.Create(s.ViewPath(name))
	if err != nil {
		return enginerr.IOErrorf(err, "creating view %q", name)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, c := range clauses {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return enginerr.IOErrorf(err, "writing view %q", name)
		}
	}
	return w.Flush()
}

// LoadView reads back a view's stored clauses.
func (s *Store) LoadView(name string) ([]string, error) {
	f, err := os.Open(s.ViewPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, enginerr.NotFoundErrorf("view %q does not exist", name)
		}
		return nil, enginerr.IOErrorf(err, "opening view %q", name)
	}
	defer f.Close()
	var clauses []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			clauses = append(clauses, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, enginerr.IOErrorf(err, "reading view %q", name)
	}
	return clauses, nil
}

// DropView removes a view's stored definition.
func (s *Store) DropView(name string) error {
	if err := os.Remove(s.ViewPath(name)); err != nil {
		if os.IsNotExist(err) {
			return enginerr.NotFoundErrorf("view %q does not exist", name)
		}
		return enginerr.IOErrorf(err, "removing view %q", name)
	}
	return nil
}

// ViewExists reports whether a view definition file is present.
func (s *Store) ViewExists(name string) bool {
	_, err := os.Stat(s.ViewPath(name))
	return err == nil
}

// Scratch is a per-statement scratch namespace for join/sort/distinct
// intermediates. Callers create one at the start of a statement and remove
// it on every exit path, including error paths.
type Scratch struct {
	dir string
	seq uint64
}

// NewScratch creates a fresh scratch subdirectory under root.
func NewScratch(root string) (*Scratch, error) {
	dir, err := os.MkdirTemp(root, "stmt-")
	if err != nil {
		return nil, enginerr.IOErrorf(err, "creating scratch namespace")
	}
	return &Scratch{dir: dir}, nil
}

// NewFile allocates a fresh, unique scratch file path.
func (sc *Scratch) NewFile(label string) string {
	n := atomic.AddUint64(&sc.seq, 1)
	return filepath.Join(sc.dir, fmt.Sprintf("%s-%d", label, n))
}

// Close removes the entire scratch namespace.
func (sc *Scratch) Close() error {
	return os.RemoveAll(sc.dir)
}

// WriteRows writes rows to an arbitrary scratch path (not a table's data
// file), used by the join/sort/distinct machinery.
func WriteRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return enginerr.IOErrorf(err, "creating scratch file %q", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, row := range rows {
		if _, err := w.WriteString(EncodeRow(row) + "\n"); err != nil {
			return enginerr.IOErrorf(err, "writing scratch file %q", path)
		}
	}
	return w.Flush()
}

// ReadRows reads back rows previously written to a scratch path.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, enginerr.IOErrorf(err, "opening scratch file %q", path)
	}
	defer f.Close()
	var rows [][]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rows = append(rows, DecodeRow(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, enginerr.IOErrorf(err, "reading scratch file %q", path)
	}
	return rows, nil
}

// ParseNumber attempts to parse a field as a float64 for numeric ordering
// and aggregates; non-numeric values are reported via ok=false.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
