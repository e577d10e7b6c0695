package flt

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*LayoutTable, error) {
	t.Helper()
	return ParseTable("test", strings.NewReader(src))
}

func TestLoadSimpleTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt, err := parse(t, `
;; a minimal two-rule table
(category
 (0x0E01 0x0E2E ?c)
 (0x0E30 ?v))
(generator
 (cond
  ("cv" = =)
  ("." =)))
`)
	require.NoError(t, err)
	require.Equal(t, 1, lt.StageCount())
	require.Equal(t, "test", lt.Name)
}

func TestLoadMacros(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt, err := parse(t, `
(category (0x41 0x5A ?u))
(generator
 ("u*" pair *)
 (pair ("uu" 0x2460)))
`)
	require.NoError(t, err)
	// root + macro = 2 command slots
	require.Equal(t, 2, len(lt.stages[0].commands))
}

func TestLoadSharedMacroSlot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// two references to `one` must share a single command slot
	lt, err := parse(t, `
(category (0x41 ?u))
(generator
 (cond ("uu" one one) ("u" one))
 (one ("u" =)))
`)
	require.NoError(t, err)
	require.Equal(t, 4, len(lt.stages[0].commands)) // root cond, 2 rules, 1 macro
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	tests := []struct {
		name     string
		src      string
		sentinel error
	}{
		{"negative code", `(category (0x41 ?u)) (generator ("u" -5))`, ErrMalformedRule},
		{"unterminated list", `(category (0x41 ?u)`, ErrMalformedRule},
		{"unknown symbol", `(category (0x41 ?u)) (generator ("u" foo))`, ErrMalformedRule},
		{"bad pattern", `(category (0x41 ?u)) (generator ("[u" =))`, ErrMalformedRule},
		{"backref out of range", `(category (0x41 ?u)) (generator (21 =))`, ErrMalformedRule},
		{"generator first", `(generator ("u" =))`, ErrMissingCategory},
		{"no generator", `(category (0x41 ?u))`, ErrMalformedRule},
		{"bad category letter", `(category (0x41 foo)) (generator ("u" =))`, ErrInvalidCategory},
		{"empty rule", `(category (0x41 ?u)) (generator ())`, ErrMalformedRule},
	}
	for _, test := range tests {
		_, err := parse(t, test.src)
		if !errors.Is(err, test.sentinel) {
			t.Errorf("%s: expected %v, have %v", test.name, test.sentinel, err)
		}
	}
}

func TestLoadDropsMalformedOtfCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// a bad otf: script tag kills the command, not the table
	lt, err := parse(t, `
(category (0x41 ?u))
(generator
 (cond
  ("u" otf:badscript =)
  ("." =)))
`)
	require.NoError(t, err)
	run, ok := tableShape(lt, "A")
	require.True(t, ok)
	require.Equal(t, 1, run.Len())
	require.Equal(t, rune('A'), run.Glyphs[0].Code)
}

// tableShape shapes a string with a single pre-built table, no font, no
// OpenType collaborator.
func tableShape(lt *LayoutTable, s string) (GlyphRun, bool) {
	reg := NewRegistry(nil)
	reg.Store(lt)
	run := RunFromString(s)
	return reg.ShapeRun(lt.Name, run, 0, run.Len(), nil, nil)
}
