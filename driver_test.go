package flt

import (
	"testing"

	"github.com/npillmayer/flt/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestShapeCoverageGap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// the rule consumes two characters but emits a glyph for the first
	// only; coverage patching must widen it over the dropped character
	lt := mustParse(t, `
(category (0x61 ?A) (0x62 ?B))
(generator ("AB" =))
`)
	run, ok := tableShape(lt, "ab")
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if run.Len() != 1 {
		t.Fatalf("expected 1 glyph, have %d", run.Len())
	}
	if g := run.Glyphs[0]; g.Pos != 0 || g.To != 2 {
		t.Errorf("expected span widened to [0,2), have [%d,%d)", g.Pos, g.To)
	}
}

func TestShapeCoverageLeadingGap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// only the second character produces a glyph; the leading gap is
	// annexed to the first output glyph
	lt := mustParse(t, `
(category (0x61 ?A) (0x62 ?B))
(generator ("A(B)" (1 =)))
`)
	run, ok := tableShape(lt, "ab")
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if run.Len() != 1 {
		t.Fatalf("expected 1 glyph, have %d", run.Len())
	}
	if g := run.Glyphs[0]; g.Pos != 0 || g.To != 2 {
		t.Errorf("expected span widened to [0,2), have [%d,%d)", g.Pos, g.To)
	}
}

func TestShapeMultiStage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// stage 0 categorizes characters, stage 1 the rewritten output codes
	lt := mustParse(t, `
(category (0x61 ?a))
(generator ("a" 0x0100))
(category (0x0100 ?b))
(generator ("b" 0x0200))
`)
	if lt.StageCount() != 2 {
		t.Fatalf("expected 2 stages, have %d", lt.StageCount())
	}
	run, ok := tableShape(lt, "a")
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if run.Len() != 1 || run.Glyphs[0].Code != 0x0200 {
		t.Errorf("expected code 0x0200 after both stages, have %v", run.Glyphs)
	}
}

func TestShapeLookbackExtension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// shaping starts at glyph 1, but the preceding glyph is categorized
	// and participates in the match
	lt := mustParse(t, `
(category (0x61 ?A))
(generator ("AA" 0x58))
`)
	reg := NewRegistry(nil)
	reg.Store(lt)
	run := RunFromString("aa")
	shaped, ok := reg.ShapeRun("test", run, 1, 2, nil, nil)
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if shaped.Len() != 1 || shaped.Glyphs[0].Code != 0x58 {
		t.Fatalf("expected lookback to complete the match, have %v", shaped.Glyphs)
	}
	if g := shaped.Glyphs[0]; g.Pos != 0 || g.To != 2 {
		t.Errorf("expected span [0,2), have [%d,%d)", g.Pos, g.To)
	}
}

func TestShapeLookbackRewrittenCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	// the first stage categorizes source characters; a glyph whose output
	// code was already rewritten must still join the lookback window by
	// its character
	lt := mustParse(t, `
(category (0x61 ?A))
(generator ("AA" 0x58))
`)
	reg := NewRegistry(nil)
	reg.Store(lt)
	run := RunFromString("aa")
	run.Glyphs[0].Code = 0x0999 // uncategorized output code, source char 'a'
	shaped, ok := reg.ShapeRun("test", run, 1, 2, nil, nil)
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if shaped.Len() != 1 || shaped.Glyphs[0].Code != 0x58 {
		t.Fatalf("expected lookback over the rewritten glyph, have %v", shaped.Glyphs)
	}
}

func TestShapeEmptySpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt := mustParse(t, `
(category (0x61 ?A))
(generator ("A" =))
`)
	reg := NewRegistry(nil)
	reg.Store(lt)
	run := RunFromString("a")
	shaped, ok := reg.ShapeRun("test", run, 1, 1, nil, nil)
	if !ok || shaped.Len() != 1 {
		t.Errorf("empty span should be a no-op, have ok=%v, %v", ok, shaped.Glyphs)
	}
}

func TestShapeSpanOutOfBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt := mustParse(t, `
(category (0x61 ?A))
(generator ("A" =))
`)
	reg := NewRegistry(nil)
	reg.Store(lt)
	run := RunFromString("a")
	if _, ok := reg.ShapeRun("test", run, 0, 2, nil, nil); ok {
		t.Error("out-of-bounds span must be unshapeable")
	}
}

// mergeGsub is a GSUB stand-in that merges every input span into a single
// glyph with a fixed glyph index.
type mergeGsub struct {
	calls    int
	features FeatureSelection
}

func (m *mergeGsub) DriveGSUB(glyphs []Glyph, script, langsys Tag,
	features FeatureSelection) ([]Glyph, error) {
	//
	m.calls++
	m.features = features
	return []Glyph{{GID: 42, Code: 0xF000}}, nil
}

func (m *mergeGsub) CharFor(gid font.GlyphID) rune {
	return 0
}

func TestShapeOtfSubstitution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt := mustParse(t, `
(category (0x61 0x7A ?x))
(generator ("x*" otf:latn=liga))
`)
	reg := NewRegistry(nil)
	reg.Store(lt)
	gsub := &mergeGsub{}
	run := RunFromString("ffi")
	shaped, ok := reg.ShapeRun("test", run, 0, run.Len(), nil, gsub)
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if gsub.calls != 1 {
		t.Fatalf("expected 1 GSUB invocation, have %d", gsub.calls)
	}
	if len(gsub.features.Include) != 1 || gsub.features.Include[0] != T("liga") {
		t.Errorf("feature selection not passed through: %v", gsub.features)
	}
	if shaped.Len() != 1 {
		t.Fatalf("expected merged glyph, have %v", shaped.Glyphs)
	}
	g := shaped.Glyphs[0]
	if g.GID != 42 || g.Pos != 0 || g.To != 3 {
		t.Errorf("substituted glyph should span the whole input, have %v", g)
	}
}

func TestShapeOtfPassThroughWithoutDriver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.shape")
	defer teardown()
	//
	lt := mustParse(t, `
(category (0x61 0x7A ?x))
(generator ("x*" otf:latn=liga))
`)
	run, ok := tableShape(lt, "ab") // tableShape passes a nil driver
	if !ok {
		t.Fatal("run should be shapeable")
	}
	if run.Len() != 2 || run.Glyphs[0].Code != 'a' || run.Glyphs[1].Code != 'b' {
		t.Errorf("expected glyphs to pass through unchanged, have %v", run.Glyphs)
	}
}
