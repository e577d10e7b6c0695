package otbridge

import (
	"bytes"
	"math"
	"sync"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/flt"
	"github.com/npillmayer/flt/core/font"
)

// Bridge drives HarfBuzz GSUB substitution for one typecase. It
// implements flt.GsubDriver.
type Bridge struct {
	tc      *font.TypeCase
	hbFont  *hb.Font
	revOnce sync.Once
	rev     map[font.GlyphID]rune
}

var _ flt.GsubDriver = &Bridge{}

// New prepares a bridge for a typecase. The font binary is parsed into a
// HarfBuzz face once per bridge.
func New(tc *font.TypeCase) (*Bridge, error) {
	f := bytes.NewReader(tc.ScalableFontParent().Binary)
	face, err := hbtt.Parse(f, true)
	if err != nil {
		return nil, err
	}
	hbFont := hb.NewFont(face)
	hbFont.Ptem = float32(tc.PtSize())
	return &Bridge{tc: tc, hbFont: hbFont}, nil
}

// Script4HB converts an OpenType script tag to a HarfBuzz script.
func Script4HB(script flt.Tag) hblang.Script {
	return hblang.Script(uint32(script))
}

// Lang4HB converts a language-system tag to a HarfBuzz language.
func Lang4HB(langsys flt.Tag) hblang.Language {
	return hblang.NewLanguage(langsys.String())
}

// Features4HB translates an FLT feature selection into HarfBuzz feature
// switches. With All set, only the exclusions need to be passed (HarfBuzz
// applies the default feature set on its own); an explicit list switches
// every named feature on.
func Features4HB(fs flt.FeatureSelection) []hb.Feature {
	var features []hb.Feature
	for _, tag := range fs.Include {
		features = append(features, hb.Feature{
			Tag:   hbtt.Tag(tag),
			Value: 1,
			Start: 0,
			End:   math.MaxInt32,
		})
	}
	for _, tag := range fs.Exclude {
		features = append(features, hb.Feature{
			Tag:   hbtt.Tag(tag),
			Value: 0,
			Start: 0,
			End:   math.MaxInt32,
		})
	}
	return features
}

// DriveGSUB substitutes a glyph slice according to script, language
// system and GSUB feature selection. Substituted glyphs carry the
// resulting font glyph index; their character span is inherited from the
// source glyphs of their cluster.
func (b *Bridge) DriveGSUB(glyphs []flt.Glyph, script, langsys flt.Tag,
	features flt.FeatureSelection) ([]flt.Glyph, error) {
	//
	if len(glyphs) == 0 || features.None() {
		return glyphs, nil
	}
	runes := make([]rune, len(glyphs))
	for i, g := range glyphs {
		runes[i] = g.CodePoint
		if runes[i] == 0 {
			runes[i] = g.Code
		}
	}
	buf := hb.NewBuffer()
	buf.Props = hb.SegmentProperties{
		Direction: hb.LeftToRight,
		Script:    Script4HB(script),
	}
	if langsys != 0 && langsys != flt.DFLT {
		buf.Props.Language = Lang4HB(langsys)
	}
	buf.AddRunes(runes, 0, len(runes))
	buf.Shape(b.hbFont, Features4HB(features))
	if len(buf.Info) == 0 {
		return glyphs, nil
	}
	tracer().Debugf("GSUB %s: %d glyph(s) in, %d out", script, len(glyphs), len(buf.Info))
	out := make([]flt.Glyph, 0, len(buf.Info))
	for i, info := range buf.Info {
		cluster := info.Cluster
		if cluster < 0 || cluster >= len(glyphs) {
			cluster = 0
		}
		src := glyphs[cluster]
		clusterTo := src.To
		for j := i + 1; j < len(buf.Info); j++ {
			if buf.Info[j].Cluster != info.Cluster {
				next := buf.Info[j].Cluster
				if next > cluster && next <= len(glyphs) {
					clusterTo = glyphs[next-1].To
				}
				break
			}
		}
		out = append(out, flt.Glyph{
			CodePoint: src.CodePoint,
			GID:       font.GlyphID(info.Glyph),
			Pos:       src.Pos,
			To:        clusterTo,
		})
	}
	return out, nil
}

// CharFor back-maps a font glyph index to a character code, consulting a
// reverse character map built on first use. 0 = no simple source
// character.
func (b *Bridge) CharFor(gid font.GlyphID) rune {
	b.revOnce.Do(func() {
		b.rev = make(map[font.GlyphID]rune)
		for r := rune(0x20); r <= 0xFFFF; r++ {
			if g, ok := b.tc.GlyphForRune(r); ok {
				if _, exists := b.rev[g]; !exists {
					b.rev[g] = r
				}
			}
		}
	})
	return b.rev[gid]
}
