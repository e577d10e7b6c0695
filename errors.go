package flt

import (
	"errors"

	"github.com/npillmayer/flt/core"
)

// Error conditions of the FLT subsystem. Loader errors make the affected
// layout table unusable; runtime errors make a single shaping run
// unshapeable. Both are wrapped into core.AppError values; test for them
// with errors.Is.
var (
	ErrInvalidCategory = errors.New("category is not an ASCII letter")
	ErrMalformedRule   = errors.New("malformed layout table rule")
	ErrMissingCategory = errors.New("generator stage without category table")
	ErrRuleTooDeep     = errors.New("rule recursion exceeds depth limit")
)

// errLoad wraps a load-time error condition, with position information for
// the user message.
func errLoad(sentinel error, format string, v ...interface{}) error {
	return core.WrapError(sentinel, core.EINVALID, format, v...)
}
