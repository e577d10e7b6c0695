package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.fonts")
	defer teardown()
	//
	f := FallbackFont()
	if f == nil || f.SFNT == nil {
		t.Fatal("expected fallback font to be present")
	}
	if f.Fontname != "Go Sans" {
		t.Errorf("expected fallback font to be Go Sans, is %s", f.Fontname)
	}
}

func TestPrepareCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.fonts")
	defer teardown()
	//
	f := FallbackFont()
	tc, err := f.PrepareCase(12.0)
	if err != nil {
		t.Fatal(err)
	}
	if tc.PtSize() != 12.0 {
		t.Errorf("expected typecase at 12pt, is %.1f", tc.PtSize())
	}
	if tc.UnitsPerEm() == 0 {
		t.Error("expected font to report units-per-em")
	}
}

func TestGlyphForRune(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.fonts")
	defer teardown()
	//
	f := FallbackFont()
	tc, err := f.PrepareCase(10.0)
	if err != nil {
		t.Fatal(err)
	}
	gid, ok := tc.GlyphForRune('A')
	if !ok || gid == MissingGlyph {
		t.Errorf("expected glyph for 'A', got gid=%d ok=%v", gid, ok)
	}
	if _, ok := tc.GlyphForRune('क'); ok {
		t.Error("did not expect Go Sans to encode Devanagari KA")
	}
}
