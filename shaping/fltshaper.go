package shaping

import (
	"io"

	"github.com/npillmayer/flt"
	"github.com/npillmayer/flt/core/dimen"
	"github.com/npillmayer/flt/core/font"
	"github.com/npillmayer/flt/core/font/fontregistry"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fltshaper adapts the FLT stage pipeline to the Shaper interface.
type fltshaper struct {
	reg       *flt.Registry
	tableName string
	gsub      flt.GsubDriver
}

// FLTShaper creates a shaper driven by the named layout table from a
// registry. gsub is the OpenType collaborator for `otf:` commands and may
// be nil.
func FLTShaper(reg *flt.Registry, tableName string, gsub flt.GsubDriver) Shaper {
	return &fltshaper{reg: reg, tableName: tableName, gsub: gsub}
}

// combiningGranularity is the design-space denominator of combining-code
// offsets: an offset of n shifts by n/128 em.
const combiningGranularity = 128

// Shape runs the FLT pipeline over the input text. Unshapeable runs come
// back as sequences of missing-glyph boxes, never as an error.
//
// Without a font in params, shaping falls back to the application-wide
// fallback typecase at 10pt.
func (fs *fltshaper) Shape(text io.RuneReader, buf []ShapedGlyph, ctxt [][]rune,
	params Params) (GlyphSequence, error) {
	//
	if text == nil {
		return GlyphSequence{}, nil
	}
	if params.Font == nil {
		tc, err := fontregistry.GlobalRegistry().TypeCase(font.FallbackFont().Fontname, 10.0)
		if tc == nil {
			return GlyphSequence{}, err
		}
		params.Font = tc
	}
	var run flt.GlyphRun
	pos := 0
	for {
		r, sz, err := text.ReadRune()
		if sz == 0 || err != nil {
			break
		}
		run.Glyphs = append(run.Glyphs, flt.NewGlyph(r, pos))
		pos++
	}
	if run.Len() == 0 {
		return GlyphSequence{Glyphs: buf}, nil
	}
	shaped, ok := fs.reg.ShapeRun(fs.tableName, run, 0, run.Len(), params.Font, fs.gsub)
	if !ok {
		tracer().Infof("table %q cannot shape run, emitting boxes", fs.tableName)
	}
	upem := params.Font.UnitsPerEm()
	seq := GlyphSequence{Glyphs: buf}
	if seq.Glyphs == nil {
		seq.Glyphs = make([]ShapedGlyph, 0, shaped.Len())
	}
	sf := params.Font.ScalableFontParent().SFNT
	var sbuf sfnt.Buffer
	for _, fg := range shaped.Glyphs {
		if fg.IsPad {
			continue
		}
		g := ShapedGlyph{
			ClusterID: fg.Pos,
			GID:       fg.GID,
			CodePoint: fg.CodePoint,
			Missing:   fg.Invalid || !ok,
		}
		if g.Missing {
			g.XAdvance = dimen.DU(upem / 2) // width of a missing-glyph box
		} else if sf != nil {
			adv, err := sf.GlyphAdvance(&sbuf, sfnt.GlyphIndex(fg.GID),
				fixed.Int26_6(upem), xfont.HintingNone)
			if err == nil {
				g.XAdvance = dimen.DU(adv)
			}
		}
		if fg.Combined {
			g.XOffset = dimen.DU(int32(fg.Combining.DX) * upem / combiningGranularity)
			g.YOffset = dimen.DU(int32(fg.Combining.DY) * upem / combiningGranularity)
			g.XAdvance = 0 // combining marks do not advance the pen
		}
		seq.Glyphs = append(seq.Glyphs, g)
		seq.W += g.XAdvance
	}
	seq.H = dimen.DU(upem * 3 / 4)
	seq.D = dimen.DU(upem / 4)
	return seq, nil
}
