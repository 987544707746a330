package exec

import "github.com/zakazai/flatsql/internal/schema"

// wideResolver resolves a column name against a sequence of concatenated
// table schemas, first-match left-to-right across tables (mirroring
// Invariant 2's first-match rule within a single schema).
type wideResolver struct {
	schemas []*schema.Schema
	offsets []int
	names   []string
}

func newWideResolver(schemas ...*schema.Schema) *wideResolver {
	offsets := make([]int, len(schemas))
	var names []string
	off := 0
	for i, s := range schemas {
		offsets[i] = off
		off += s.Len()
		names = append(names, s.Names()...)
	}
	return &wideResolver{schemas: schemas, offsets: offsets, names: names}
}

func (w *wideResolver) Lookup(name string) (int, bool) {
	for i, s := range w.schemas {
		if idx, ok := s.Lookup(name); ok {
			return w.offsets[i] + idx, true
		}
	}
	return 0, false
}

// LookupIn resolves name only against schema i, returning an index local
// to that schema (not the wide, concatenated index). The join code does
// not call it: findJoinKeys resolves through Lookup and the incoming
// table's own schema.
func (w *wideResolver) LookupIn(i int, name string) (int, bool) {
	return w.schemas[i].Lookup(name)
}

func (w *wideResolver) Names() []string {
	return w.names
}

func (w *wideResolver) Len() int {
	n := 0
	for _, s := range w.schemas {
		n += s.Len()
	}
	return n
}
