package flt

import (
	"strings"

	"github.com/npillmayer/flt/core/font"
)

// FeatureSelection selects OpenType features for an `otf:` command: either
// none, all, or an explicit ordered list. With All set, Exclude lists
// features withheld from "all" (the `~tag` convention of the textual form).
type FeatureSelection struct {
	All     bool
	Include []Tag
	Exclude []Tag
}

// None reports an empty selection.
func (fs FeatureSelection) None() bool {
	return !fs.All && len(fs.Include) == 0
}

func (fs FeatureSelection) String() string {
	if fs.None() {
		return ""
	}
	var parts []string
	if fs.All {
		parts = append(parts, "*")
	}
	for _, t := range fs.Include {
		parts = append(parts, t.String())
	}
	for _, t := range fs.Exclude {
		parts = append(parts, "~"+t.String())
	}
	return strings.Join(parts, ",")
}

// OtfSpec is the parsed form of an `otf:` command token: a script, an
// optional language system, and feature selections for GSUB and GPOS.
type OtfSpec struct {
	Script  Tag
	LangSys Tag
	GSub    FeatureSelection
	GPos    FeatureSelection
}

func (spec OtfSpec) String() string {
	var sb strings.Builder
	sb.WriteString("otf:")
	sb.WriteString(spec.Script.String())
	if spec.LangSys != 0 {
		sb.WriteByte('/')
		sb.WriteString(spec.LangSys.String())
	}
	sb.WriteByte('=')
	sb.WriteString(spec.GSub.String())
	sb.WriteByte('+')
	sb.WriteString(spec.GPos.String())
	return sb.String()
}

// parseOtfSpec parses the token following the "otf:" prefix:
//
//	SCRIPT[/LANGSYS][=GSUB-FEATURES][+GPOS-FEATURES]
//
// Feature lists are comma-separated 4-letter tags, '*' selects all
// features, '~tag' excludes a feature from '*', an empty list selects
// none. A missing '='/'+' section selects all features of that kind.
func parseOtfSpec(token string) (OtfSpec, error) {
	spec := OtfSpec{GSub: FeatureSelection{All: true}, GPos: FeatureSelection{All: true}}
	rest := token
	var gsubPart, gposPart string
	hasGSub, hasGPos := false, false
	if i := strings.IndexByte(rest, '='); i >= 0 {
		rest, gsubPart = rest[:i], rest[i+1:]
		hasGSub = true
		if j := strings.IndexByte(gsubPart, '+'); j >= 0 {
			gsubPart, gposPart = gsubPart[:j], gsubPart[j+1:]
			hasGPos = true
		}
	} else if i := strings.IndexByte(rest, '+'); i >= 0 {
		rest, gposPart = rest[:i], rest[i+1:]
		hasGPos = true
	}
	script := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		script, rest = rest[:i], rest[i+1:]
		if !validTagSyntax(rest) {
			return spec, errLoad(ErrMalformedRule, "otf: language system tag %q", rest)
		}
		spec.LangSys = T(rest)
	}
	if !validTagSyntax(script) {
		return spec, errLoad(ErrMalformedRule, "otf: script tag %q", script)
	}
	spec.Script = T(script)
	var err error
	if hasGSub {
		if spec.GSub, err = parseFeatureList(gsubPart); err != nil {
			return spec, err
		}
	}
	if hasGPos {
		if spec.GPos, err = parseFeatureList(gposPart); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func parseFeatureList(list string) (FeatureSelection, error) {
	var fs FeatureSelection
	if list == "" {
		return fs, nil // empty list = no features
	}
	for _, item := range strings.Split(list, ",") {
		switch {
		case item == "*":
			fs.All = true
		case strings.HasPrefix(item, "~"):
			tag := item[1:]
			if !validTagSyntax(tag) {
				return fs, errLoad(ErrMalformedRule, "otf: feature tag %q", item)
			}
			fs.Exclude = append(fs.Exclude, T(tag))
		default:
			if !validTagSyntax(item) {
				return fs, errLoad(ErrMalformedRule, "otf: feature tag %q", item)
			}
			fs.Include = append(fs.Include, T(item))
		}
	}
	return fs, nil
}

func validTagSyntax(tag string) bool {
	if len(tag) == 0 || len(tag) > 4 {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] <= ' ' || tag[i] > '~' {
			return false
		}
	}
	return true
}

// --- Collaborator interface ------------------------------------------------

// A GsubDriver is the OpenType collaborator invoked for `otf:` commands.
// DriveGSUB substitutes the given glyph slice according to the script,
// language system and GSUB feature selection, returning the replacement
// glyphs. Unsupported scripts or features are not an error: the driver
// returns the slice unchanged.
//
// CharFor back-maps a font glyph to a character code for re-categorizing
// substituted glyphs between stages; it returns 0 for glyphs without a
// simple source character.
type GsubDriver interface {
	DriveGSUB(glyphs []Glyph, script, langsys Tag, features FeatureSelection) ([]Glyph, error)
	CharFor(gid font.GlyphID) rune
}
