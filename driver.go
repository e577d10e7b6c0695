package flt

import (
	"github.com/npillmayer/flt/core/font"
)

// unknownCategory encodes glyphs the stage's category table does not
// recognize and that have no source character (e.g. products of OTF
// substitution). It matches '.' in rule patterns but no letter class.
const unknownCategory byte = 1

// ShapeRun shapes the glyph span [from,to) of a run with the named layout
// table. The typecase resolves output codes to font glyph indices after
// the final stage; gsub is the OpenType collaborator for `otf:` commands
// and may be nil (substitutions then pass through unchanged).
//
// ok is false if the run is unshapeable: the layout table does not exist,
// failed to load, or the interpreter hit an internal error. All glyphs of
// the run are then marked invalid and callers should render missing-glyph
// boxes. A failed table load is cached; later calls fail fast.
//
// On success the returned run has the span replaced by the shaped glyphs,
// covering every character position of the original span.
func (reg *Registry) ShapeRun(tableName string, run GlyphRun, from, to int,
	tc *font.TypeCase, gsub GsubDriver) (GlyphRun, bool) {
	//
	if from < 0 || to > run.Len() || from > to {
		tracer().Errorf("shape run: span [%d,%d) out of bounds", from, to)
		run.markUnshapeable()
		return run, false
	}
	if from == to {
		return run, true
	}
	table, ok := reg.Table(tableName)
	if !ok {
		tracer().Infof("no usable layout table %q", tableName)
		run.markUnshapeable()
		return run, false
	}
	glyphs := run.Glyphs
	posFrom := glyphs[from].Pos
	posTo := glyphs[to-1].To
	for snum, stage := range table.stages {
		// extend the lookback window: preceding glyphs this stage still
		// recognizes may participate in regex matches
		start := from
		for start > 0 && stage.categories.Lookup(stageCode(glyphs[start-1], snum == 0, gsub)) != 0 {
			start--
		}
		encoded := encodeRun(stage, glyphs[:to], snum == 0, gsub)
		ctx := newExeContext(stage, glyphs[:to], encoded, gsub)
		if _, err := ctx.runCommand(IndexRef(0), start, to); err != nil {
			tracer().Errorf("layout table %q, stage %d: %v", tableName, snum, err)
			run.markUnshapeable()
			return run, false
		}
		if ctx.cluster.open {
			// an unclosed cluster at run end is simply dropped
			ctx.cluster.open = false
		}
		tracer().Debugf("stage %d: %d glyph(s) in, %d out", snum, to-start, len(ctx.out))
		next := make([]Glyph, 0, start+len(ctx.out)+len(glyphs)-to)
		next = append(next, glyphs[:start]...)
		next = append(next, ctx.out...)
		next = append(next, glyphs[to:]...)
		from = start
		to = start + len(ctx.out)
		glyphs = next
	}
	if from == to {
		// nothing survived the pipeline: synthesize one space glyph
		// covering the original character range
		space := Glyph{CodePoint: ' ', Code: ' ', Pos: posFrom, To: posTo}
		tail := append([]Glyph{space}, glyphs[to:]...)
		glyphs = append(glyphs[:from], tail...)
		to = from + 1
	}
	resolveGlyphs(glyphs[from:to], tc)
	patchCoverage(glyphs[from:to], posFrom, posTo)
	return GlyphRun{Glyphs: glyphs}, true
}

// stageCode selects the code a stage categorizes for a glyph: the source
// character for the first stage, the current output code for later ones.
// Glyphs without a code are back-mapped through the OTF collaborator where
// possible.
func stageCode(g Glyph, first bool, gsub GsubDriver) rune {
	code := g.Code
	if first {
		code = g.CodePoint
	}
	if code == 0 && gsub != nil {
		code = gsub.CharFor(g.GID)
	}
	return code
}

// encodeRun builds the category string for a stage: one byte per glyph.
// Uncategorized codes encode as a blank, the terminator is a zero byte.
func encodeRun(stage *Stage, glyphs []Glyph, first bool, gsub GsubDriver) []byte {
	encoded := make([]byte, len(glyphs)+1)
	for i, g := range glyphs {
		var cat byte
		if code := stageCode(g, first, gsub); code == 0 {
			cat = unknownCategory
		} else if cat = stage.categories.Lookup(code); cat == 0 {
			cat = ' '
		}
		encoded[i] = cat
	}
	encoded[len(glyphs)] = 0
	return encoded
}

// resolveGlyphs maps output codes to font glyph indices. Glyphs already
// carrying an index (OTF products) keep it; unencodable codes are marked
// invalid.
func resolveGlyphs(glyphs []Glyph, tc *font.TypeCase) {
	if tc == nil {
		return
	}
	for i := range glyphs {
		g := &glyphs[i]
		if g.IsPad || g.GID != font.MissingGlyph {
			continue
		}
		gid, ok := tc.GlyphForRune(g.Code)
		if !ok {
			g.Invalid = true
			continue
		}
		g.GID = gid
	}
}

// patchCoverage widens glyph spans until every character position in
// [posFrom,posTo) is covered: a gap is annexed to the nearest preceding
// glyph, a leading gap to the first glyph group sharing its position.
func patchCoverage(glyphs []Glyph, posFrom, posTo int) {
	if len(glyphs) == 0 || posTo <= posFrom {
		return
	}
	covered := make([]bool, posTo-posFrom)
	for _, g := range glyphs {
		for p := g.Pos; p < g.To; p++ {
			if p >= posFrom && p < posTo {
				covered[p-posFrom] = true
			}
		}
	}
	for off := range covered {
		if covered[off] {
			continue
		}
		p := off + posFrom
		best, bestTo := -1, posFrom
		for i, g := range glyphs {
			if g.To <= p && g.To >= bestTo {
				best, bestTo = i, g.To
			}
		}
		if best >= 0 {
			glyphs[best].To = p + 1
			covered[off] = true
			continue
		}
		firstPos := glyphs[0].Pos
		for i := range glyphs {
			if glyphs[i].Pos != firstPos {
				break
			}
			glyphs[i].Pos = p
		}
		for q := p; q < firstPos && q < posTo; q++ {
			covered[q-posFrom] = true
		}
	}
}
