/*
Package otbridge connects the FLT interpreter to an OpenType layout
backend. It implements flt.GsubDriver on top of a pure-Go HarfBuzz port:
`otf:` commands in layout tables hand a glyph slice to HarfBuzz for GSUB
substitution, with the command's script, language system and feature
selection applied.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otbridge

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'flt.otf'
func tracer() tracing.Trace {
	return tracing.Select("flt.otf")
}
