package flt

import (
	"fmt"
	"strings"

	"github.com/npillmayer/flt/core/font"
)

// A Glyph is one slot of a glyph run, as produced (and consumed) by the
// FLT pipeline. Code starts out as the character code and is rewritten by
// the stages; GID is resolved from Code after the final stage.
//
// [Pos,To) is the half-open character-index span the glyph covers.
type Glyph struct {
	CodePoint rune // source character, 0 for glyphs without one
	Code      rune // current output code
	GID       font.GlyphID
	Pos, To   int
	Combining CombiningCode
	Combined  bool // Combining is set
	LeftPad   bool
	RightPad  bool
	IsPad     bool // zero-width separator glyph
	Invalid   bool // not encodable by the font

	ruleIndex int // command that produced this glyph, for cluster merging
}

func (g Glyph) String() string {
	var flags strings.Builder
	if g.Combined {
		flags.WriteString(" " + g.Combining.String())
	}
	if g.LeftPad {
		flags.WriteString(" [")
	}
	if g.RightPad {
		flags.WriteString(" ]")
	}
	if g.IsPad {
		flags.WriteString(" pad")
	}
	if g.Invalid {
		flags.WriteString(" invalid")
	}
	return fmt.Sprintf("glyph[0x%x→0x%x #%d [%d,%d)%s]",
		g.CodePoint, g.Code, g.GID, g.Pos, g.To, flags.String())
}

// NewGlyph creates a glyph for a character at a character index.
func NewGlyph(char rune, pos int) Glyph {
	return Glyph{CodePoint: char, Code: char, Pos: pos, To: pos + 1}
}

// A GlyphRun is a mutable buffer of glyphs, the unit the pipeline operates
// on.
type GlyphRun struct {
	Glyphs []Glyph
}

// RunFromString creates a glyph run for a string, one glyph per rune,
// character indices counting runes from 0.
func RunFromString(s string) GlyphRun {
	var run GlyphRun
	i := 0
	for _, r := range s {
		run.Glyphs = append(run.Glyphs, NewGlyph(r, i))
		i++
	}
	return run
}

// Len returns the number of glyphs in the run.
func (run GlyphRun) Len() int {
	return len(run.Glyphs)
}

// markUnshapeable invalidates every glyph of the run; callers render such
// runs as missing-glyph boxes.
func (run GlyphRun) markUnshapeable() {
	for i := range run.Glyphs {
		run.Glyphs[i].Invalid = true
		run.Glyphs[i].GID = font.MissingGlyph
	}
}
