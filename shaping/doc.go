/*
Package shaping declares the text-shaping surface of this library.

A Shaper turns a sequence of Unicode code-points into a sequence of
positioned glyphs in design space. The primary implementation is the
FLT-backed shaper (see FLTShaper), which drives rule-table based shaping
of complex scripts; package shaping/fallback provides a grapheme-cluster
monospace shaper for runs no layout table can handle.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package shaping

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'flt.shape'
func tracer() tracing.Trace {
	return tracing.Select("flt.shape")
}
