package flt

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// storeOf backs a registry with an in-memory rule-table store.
func storeOf(tables map[string]string) LoadFunc {
	return func(name string) (io.ReadCloser, error) {
		src, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("no layout table %q in store", name)
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}
}

const minimalTable = `
(category (0x61 0x7A ?x))
(generator ("x*" = *))
`

func TestRegistryLazyLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	reg := NewRegistry(storeOf(map[string]string{"deva-basic": minimalTable}))
	lt, ok := reg.Table("deva-basic")
	assert.True(t, ok)
	assert.Equal(t, "deva-basic", lt.Name)
	lt2, ok := reg.Table("deva-basic")
	assert.True(t, ok)
	assert.Same(t, lt, lt2)
	assert.Equal(t, 1, reg.LoadCount("deva-basic"))
}

func TestRegistryCachesFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	reg := NewRegistry(storeOf(map[string]string{
		"broken": `(generator ("x" =))`, // generator without category table
	}))
	for i := 0; i < 3; i++ {
		if _, ok := reg.Table("broken"); ok {
			t.Fatal("broken table must not load")
		}
		if _, ok := reg.Table("no-such-table"); ok {
			t.Fatal("unknown table must not load")
		}
	}
	// the store is consulted once per name, failures included
	assert.Equal(t, 1, reg.LoadCount("broken"))
	assert.Equal(t, 1, reg.LoadCount("no-such-table"))
}

func TestRegistryUnshapeableFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	reg := NewRegistry(storeOf(nil))
	run := RunFromString("abc")
	shaped, ok := reg.ShapeRun("no-such-table", run, 0, run.Len(), nil, nil)
	if ok {
		t.Fatal("shaping with an unknown table must fail")
	}
	for _, g := range shaped.Glyphs {
		if !g.Invalid {
			t.Errorf("expected invalid glyph, have %v", g)
		}
	}
}

func TestRegistryPrefixSearch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	reg := NewRegistry(storeOf(map[string]string{
		"deva-otf":    minimalTable,
		"deva-kanjur": minimalTable,
		"mlym-anjali": minimalTable,
	}))
	for _, name := range []string{"deva-otf", "deva-kanjur", "mlym-anjali"} {
		if _, ok := reg.Table(name); !ok {
			t.Fatalf("table %q should load", name)
		}
	}
	names := reg.TablesFor("deva")
	assert.Len(t, names, 2)
	assert.Contains(t, names, "deva-otf")
	assert.Contains(t, names, "deva-kanjur")
	assert.Empty(t, reg.TablesFor("taml"))
}

func TestRegistryTableNamesSorted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	reg := NewRegistry(storeOf(map[string]string{
		"b": minimalTable,
		"a": minimalTable,
	}))
	reg.Table("b")
	reg.Table("a")
	reg.Table("c") // fails, but is still listed
	assert.Equal(t, []string{"a", "b", "c"}, reg.TableNames())
}

func TestRegistryStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt, err := ParseTable("in-memory", strings.NewReader(minimalTable))
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(nil)
	reg.Store(lt)
	got, ok := reg.Table("in-memory")
	assert.True(t, ok)
	assert.Same(t, lt, got)
	// storing a second table under the same name is ignored
	lt2, _ := ParseTable("in-memory", strings.NewReader(minimalTable))
	reg.Store(lt2)
	got, _ = reg.Table("in-memory")
	assert.Same(t, lt, got)
}
