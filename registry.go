package flt

import (
	"io"
	"sync"

	"github.com/derekparker/trie"
	"github.com/emirpasic/gods/maps/treemap"
)

// A LoadFunc opens the textual source of a named layout table from the
// backing rule-table store. It returns an error if no such table exists.
type LoadFunc func(name string) (io.ReadCloser, error)

// A Registry loads and caches layout tables by name for the lifetime of
// the registry. A table is parsed at most once; a failed load is cached
// as well, so repeated requests fail fast without re-parsing.
//
// Registries are safe for concurrent use; published layout tables are
// immutable.
type Registry struct {
	sync.Mutex
	load       LoadFunc
	tables     *treemap.Map // name → *LayoutTable, nil = failure sentinel
	names      *trie.Trie   // successfully loaded names, for prefix search
	loadCounts map[string]int
}

// NewRegistry creates a layout table registry on top of a rule-table
// store accessor.
func NewRegistry(load LoadFunc) *Registry {
	return &Registry{
		load:       load,
		tables:     treemap.NewWithStringComparator(),
		names:      trie.New(),
		loadCounts: make(map[string]int),
	}
}

// Table returns the layout table registered under name, lazily loading it
// on first request. ok is false for unknown names and failed loads.
func (reg *Registry) Table(name string) (*LayoutTable, bool) {
	reg.Lock()
	defer reg.Unlock()
	if v, found := reg.tables.Get(name); found {
		lt, _ := v.(*LayoutTable)
		return lt, lt != nil
	}
	reg.loadCounts[name]++
	lt := reg.loadTable(name)
	reg.tables.Put(name, lt)
	if lt == nil {
		return nil, false
	}
	reg.names.Add(name, lt)
	return lt, true
}

func (reg *Registry) loadTable(name string) *LayoutTable {
	if reg.load == nil {
		return nil
	}
	src, err := reg.load(name)
	if err != nil {
		tracer().Infof("layout table %q not in store: %v", name, err)
		return nil
	}
	defer src.Close()
	lt, err := ParseTable(name, src)
	if err != nil {
		tracer().Errorf("layout table %q unusable: %v", name, err)
		return nil
	}
	return lt
}

// Store registers an already loaded layout table, e.g. one built in
// memory. An existing entry for the same name is not overwritten.
func (reg *Registry) Store(lt *LayoutTable) {
	if lt == nil || lt.Name == "" {
		tracer().Errorf("registry cannot store unnamed layout table")
		return
	}
	reg.Lock()
	defer reg.Unlock()
	if _, found := reg.tables.Get(lt.Name); found {
		return
	}
	reg.tables.Put(lt.Name, lt)
	reg.names.Add(lt.Name, lt)
}

// TableNames lists the names of all tables looked up so far, loaded or
// failed, in lexicographic order.
func (reg *Registry) TableNames() []string {
	reg.Lock()
	defer reg.Unlock()
	keys := reg.tables.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.(string))
	}
	return names
}

// TablesFor returns the names of loaded tables whose name starts with
// prefix. Layout tables are conventionally named by script ("deva-otf",
// "mlym-anjali"), so the prefix is usually a script identifier.
func (reg *Registry) TablesFor(prefix string) []string {
	reg.Lock()
	defer reg.Unlock()
	return reg.names.PrefixSearch(prefix)
}

// LoadCount reports how often the backing store was consulted for a
// table name. With failure caching in place it never exceeds 1.
func (reg *Registry) LoadCount(name string) int {
	reg.Lock()
	defer reg.Unlock()
	return reg.loadCounts[name]
}
