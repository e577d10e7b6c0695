/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size for
a certain script and language. The name is reminiscend on the wooden
boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt, Latin, en_US".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"io/ioutil"
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// GlyphID is the index of a glyph within a font, as resolved through the
// font's character map. 0 denotes the missing glyph (".notdef").
type GlyphID uint16

// MissingGlyph is the glyph index fonts reserve for un-encodable characters.
const MissingGlyph GlyphID = 0

// ScalableFont is an unscaled font, i.e. a font-variant of a typeface.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a font realized at a point-size.
type TypeCase struct {
	scalableFontParent *ScalableFont
	font               font.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
}

// NullTypeCase returns an empty typecase, unusable for shaping, usable as
// a stand-in during error handling.
func NullTypeCase() *TypeCase {
	return &TypeCase{
		font: nil,
		size: 10,
	}
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := ioutil.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err == nil {
		f.Filepath = fontfile
	}
	return f, err
}

// ParseOpenTypeFont interprets a byte-slice as an OpenType font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase realizes a typecase from a scalable font, given a point-size.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	typecase := &TypeCase{}
	typecase.scalableFontParent = sf
	if fontsize < 5.0 || fontsize > 500.0 {
		T().Infof("font size must be 5pt < size < 500pt, is %g (set to 10pt)", fontsize)
		fontsize = 10.0
	}
	options := &opentype.FaceOptions{
		Size: fontsize,
		DPI:  600,
	}
	f, err := opentype.NewFace(sf.SFNT, options)
	if err == nil {
		typecase.font = f
		typecase.size = fontsize
	}
	return typecase, err
}

// ScalableFontParent returns the unscaled font a typecase was derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the point-size of a typecase.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// UnitsPerEm returns the design-space granularity of the underlying font.
func (tc *TypeCase) UnitsPerEm() int32 {
	if tc.scalableFontParent == nil || tc.scalableFontParent.SFNT == nil {
		return 0
	}
	return int32(tc.scalableFontParent.SFNT.UnitsPerEm())
}

// GlyphForRune resolves a character code to a glyph index within the
// typecase's font. ok is false if the font cannot encode r.
func (tc *TypeCase) GlyphForRune(r rune) (gid GlyphID, ok bool) {
	if tc.scalableFontParent == nil || tc.scalableFontParent.SFNT == nil {
		return MissingGlyph, false
	}
	var buf sfnt.Buffer
	x, err := tc.scalableFontParent.SFNT.GlyphIndex(&buf, r)
	if err != nil || x == 0 {
		return MissingGlyph, false
	}
	return GlyphID(x), true
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}
