/*
Package flt implements a Font Layout Table (FLT) interpreter.

An FLT is a small rule-table for shaping complex scripts: it maps a run of
characters, tagged with per-character categories, to a run of positioned
glyphs. Rule tables drive Indic conjunct formation, Thai/Lao mark
reordering, Arabic joining and generic OpenType substitution without a
general shaping library.

A layout table is written as an S-expression text (see ParseTable) and
consists of stages. Every stage owns a category table and a command graph;
the interpreter runs the stages strictly in sequence over a glyph run,
re-categorizing the intermediate glyphs between stages.

Clients usually do not call the interpreter directly but go through a
Registry, which loads and caches layout tables by name, and through
Registry.ShapeRun, which drives the full stage pipeline for a glyph run.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package flt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'flt.shape'
func tracer() tracing.Trace {
	return tracing.Select("flt.shape")
}
