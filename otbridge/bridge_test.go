package otbridge

import (
	"testing"

	"github.com/npillmayer/flt"
	"github.com/npillmayer/flt/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func fallbackBridge(t *testing.T) *Bridge {
	t.Helper()
	tc, err := font.FallbackFont().PrepareCase(11.0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(tc)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBridgeCharForRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.otf")
	defer teardown()
	//
	b := fallbackBridge(t)
	gid, ok := b.tc.GlyphForRune('A')
	if !ok {
		t.Fatal("Go Sans should encode 'A'")
	}
	if r := b.CharFor(gid); r != 'A' {
		t.Errorf("expected reverse map to yield 'A', have %q", r)
	}
	if r := b.CharFor(font.MissingGlyph); r != 0 {
		t.Errorf("missing glyph must map to 0, have %q", r)
	}
}

func TestBridgeFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.otf")
	defer teardown()
	//
	fs := flt.FeatureSelection{
		Include: []flt.Tag{flt.T("liga"), flt.T("akhn")},
		Exclude: []flt.Tag{flt.T("blwf")},
	}
	features := Features4HB(fs)
	if len(features) != 3 {
		t.Fatalf("expected 3 feature switches, have %d", len(features))
	}
	if features[0].Value != 1 || features[2].Value != 0 {
		t.Errorf("inclusion/exclusion switches wrong: %v", features)
	}
}

func TestBridgeDriveGSUB(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.otf")
	defer teardown()
	//
	b := fallbackBridge(t)
	glyphs := []flt.Glyph{flt.NewGlyph('a', 0), flt.NewGlyph('b', 1)}
	out, err := b.DriveGSUB(glyphs, flt.T("latn"), flt.DFLT,
		flt.FeatureSelection{All: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("'ab' should not ligate in Go Sans, have %d glyph(s)", len(out))
	}
	for i, g := range out {
		if g.GID == font.MissingGlyph {
			t.Errorf("glyph %d unresolved: %v", i, g)
		}
		if g.Pos != i || g.To != i+1 {
			t.Errorf("glyph %d lost its span: %v", i, g)
		}
	}
	// an empty selection passes glyphs through untouched
	out, err = b.DriveGSUB(glyphs, flt.T("latn"), flt.DFLT, flt.FeatureSelection{})
	if err != nil || len(out) != 2 || out[0].GID != font.MissingGlyph {
		t.Errorf("empty selection should be a pass-through, have %v (%v)", out, err)
	}
}
