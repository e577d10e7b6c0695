package shaping

import (
	"fmt"
	"io"

	"github.com/npillmayer/flt/core/dimen"
	"github.com/npillmayer/flt/core/font"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	case TopToBottom:
		return "top-to-bottom"
	case BottomToTop:
		return "bottom-to-top"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// A ShapedGlyph lives in design space (result from the shaper, which lives
// in design space as well, at least its interface).
type ShapedGlyph struct {
	ClusterID int          // position of code-point(s) for this glyph in original string
	XAdvance  dimen.DU     // advance after glyph has been set, in design units
	YAdvance  dimen.DU     //
	XOffset   dimen.DU     // position of anchor dot for glyph, in design units
	YOffset   dimen.DU     //
	GID       font.GlyphID // glyph index within font
	CodePoint rune         // code-point of first rune to produce this glyph
	Missing   bool         // glyph could not be shaped; render a box
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, advance=%d)", g.GID, g.XAdvance)
}

// A Shaper creates a sequence of glyphs from a sequence of Unicode
// code-points. Glyphs are taken from a font, given in a specific
// point-size.
//
// Clients may provide additional information in Params, as well as
// textual context ([2][]rune).
type Shaper interface {
	Shape(io.RuneReader, []ShapedGlyph, [][]rune, Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font      *font.TypeCase  // use a font at a given point-size
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs  []ShapedGlyph // resulting sequence of glyphs
	W, H, D dimen.DU      // width, height, depth of bounding box
}

// BoundingBox returns width, height and depth of a glyph sequence.
func (seq GlyphSequence) BoundingBox() (w dimen.DU, h dimen.DU, d dimen.DU) {
	return seq.W, seq.H, seq.D
}
