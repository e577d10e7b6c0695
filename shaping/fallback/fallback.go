/*
Package fallback provides a grapheme-cluster shaper for text runs no
layout table can handle. Every grapheme cluster becomes one box-like
glyph; widths follow UAX#11 (East Asian Width).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fallback

import (
	"io"
	"unicode/utf8"

	"github.com/npillmayer/flt/core/dimen"
	"github.com/npillmayer/flt/shaping"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

type boxshape struct {
	em               dimen.DU
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
}

// Shaper creates a fallback shaper. An em-dimension in design units may
// be given which will then be used as the box width; if it is zero, 1000
// design units are assumed. context selects UAX#11 width resolution for
// ambiguous characters and may be nil.
func Shaper(em dimen.DU, context *uax11.Context) shaping.Shaper {
	if em == 0 {
		em = 1000
	}
	sh := &boxshape{
		em:      em,
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	grapheme.SetupGraphemeClasses()
	return sh
}

// Shape creates one glyph per grapheme cluster of a text. Every glyph is
// flagged as missing; clients render them as boxes.
func (bs *boxshape) Shape(text io.RuneReader, buf []shaping.ShapedGlyph, ctxt [][]rune,
	p shaping.Params) (shaping.GlyphSequence, error) {
	//
	if text == nil {
		return shaping.GlyphSequence{}, nil
	}
	seq := shaping.GlyphSequence{Glyphs: buf}
	if seq.Glyphs == nil {
		seq.Glyphs = make([]shaping.ShapedGlyph, 0, 256)
	}
	bs.graphemeSplitter.Init(text)
	i := 0
	for bs.graphemeSplitter.Next() {
		grphm := bs.graphemeSplitter.Bytes()
		w := uax11.Width(grphm, bs.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		g := shaping.ShapedGlyph{
			XAdvance:  dimen.DU(w) * bs.em,
			ClusterID: i,
			CodePoint: codepoint,
			Missing:   true,
		}
		seq.Glyphs = append(seq.Glyphs, g)
		seq.W += g.XAdvance
		i++
	}
	seq.H = bs.em * 3 / 4
	seq.D = bs.em / 4
	return seq, nil
}
