// Package schema loads a table's column definitions and resolves column
// names to positional indexes for the predicate compiler and executor.
package schema

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zakazai/flatsql/internal/enginerr"
)

// Column is one positional field definition: name and its advisory display
// width. Line N of a schema file defines field N (1-based).
type Column struct {
	Name  string
	Width int
}

// Schema is the ordered column list of one table, loaded from its schema
// file.
type Schema struct {
	Table   string
	Columns []Column
}

// Load reads a schema file at path into an ordered Schema for table name.
func Load(table, path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, enginerr.NotFoundErrorf("table %q does not exist", table)
		}
		return nil, enginerr.IOErrorf(err, "opening schema for %q", table)
	}
	defer f.Close()

	var cols []Column
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, "\t", 2)
		if len(parts) != 2 {
			return nil, enginerr.IOErrorf(nil, "malformed schema line %d for table %q", line, table)
		}
		width, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, enginerr.IOErrorf(err, "malformed width on schema line %d for table %q", line, table)
		}
		cols = append(cols, Column{Name: parts[0], Width: width})
	}
	if err := sc.Err(); err != nil {
		return nil, enginerr.IOErrorf(err, "reading schema for %q", table)
	}
	return &Schema{Table: table, Columns: cols}, nil
}

// Save writes the schema file in the canonical "name\twidth\n" form.
func Save(path string, cols []Column) error {
	f, err := os.Create(path)
	if err != nil {
		return enginerr.IOErrorf(err, "creating schema file %q", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, c := range cols {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Width); err != nil {
			return enginerr.IOErrorf(err, "writing schema file %q", path)
		}
	}
	return w.Flush()
}

// Lookup finds column by name (first match, left-to-right, per Invariant
// 2). Returns the 0-based index and ok=true on a hit.
func (s *Schema) Lookup(name string) (int, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the ordered column names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.Columns)
}
