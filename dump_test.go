package flt

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const dumpSource = `
(category (0x0900 0x097F ?E) (0x093C ?N))
(generator
 (cond
  ("EN" < = tc.bc = >)
  ((0x0915 0x094D) 0x0001)
  ((range 0x0F40 0x0F6A) 0x2221)
  ("." =)))
`

func TestDumpDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// two loads of the same source must dump identically
	lt1 := mustParse(t, dumpSource)
	lt2 := mustParse(t, dumpSource)
	var b1, b2 strings.Builder
	lt1.Dump(&b1)
	lt2.Dump(&b2)
	if b1.String() != b2.String() {
		t.Errorf("dumps differ:\n%s\n---\n%s", b1.String(), b2.String())
	}
}

func TestDumpRendering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt := mustParse(t, dumpSource)
	var sb strings.Builder
	lt.Dump(&sb)
	dump := sb.String()
	for _, want := range []string{
		"stage 0",
		`(cond #1 #2 #3 #4)`,
		`("EN" < = tc.bc = >)`,
		"(0x0915 0x094D)",
		"(range 0x0F40 0x0F6A)",
		"0x2221",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump misses %q:\n%s", want, dump)
		}
	}
}
