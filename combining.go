package flt

import (
	"strconv"
	"strings"
)

// A CombiningCode tells the interpreter to attach the next produced glyph
// to the glyph cluster built so far: reference point (BaseV,BaseH) of the
// cluster is aligned with reference point (AddedV,AddedH) of the new glyph,
// shifted by (DX,DY).
//
// Reference points live on a 12-point grid: vertically one of 't' (top),
// 'c' (center), 'b' (bottom) or 'B' (baseline), horizontally one of
// 'l' (left), 'c' (center) or 'r' (right). Offsets are in 1/128 em and
// clamped to ±127.
type CombiningCode struct {
	BaseV, BaseH   byte
	AddedV, AddedH byte
	DX, DY         int
}

const maxCombiningOffset = 127

func isVerticalPoint(c byte) bool {
	return c == 't' || c == 'c' || c == 'b' || c == 'B'
}

func isHorizontalPoint(c byte) bool {
	return c == 'l' || c == 'c' || c == 'r'
}

func clampOffset(n int) int {
	if n > maxCombiningOffset {
		return maxCombiningOffset
	}
	if n < -maxCombiningOffset {
		return -maxCombiningOffset
	}
	return n
}

// ParseCombining interprets a combining token of the form
//
//	VH [offset…] VH
//
// with each offset a decimal prefixed by '<' (left), '>' (right),
// '+' (up), '-' (down), or '.' for no offset. Examples: "tc.bc",
// "bl>10tc", "tc+5-…". ok is false for anything else.
func ParseCombining(token string) (cc CombiningCode, ok bool) {
	if len(token) < 5 {
		return cc, false
	}
	if !isVerticalPoint(token[0]) || !isHorizontalPoint(token[1]) {
		return cc, false
	}
	cc.BaseV, cc.BaseH = token[0], token[1]
	i := 2
	for i < len(token)-2 {
		marker := token[i]
		if strings.IndexByte("<>+-.", marker) < 0 {
			return cc, false
		}
		i++
		j := i
		for j < len(token)-2 && token[j] >= '0' && token[j] <= '9' {
			j++
		}
		n := 0
		if j > i {
			n, _ = strconv.Atoi(token[i:j])
		}
		switch marker {
		case '<':
			cc.DX = clampOffset(-n)
		case '>':
			cc.DX = clampOffset(n)
		case '+':
			cc.DY = clampOffset(n)
		case '-':
			cc.DY = clampOffset(-n)
		case '.':
			// explicit zero offset
		}
		i = j
	}
	if i != len(token)-2 {
		return cc, false
	}
	if !isVerticalPoint(token[i]) || !isHorizontalPoint(token[i+1]) {
		return cc, false
	}
	cc.AddedV, cc.AddedH = token[i], token[i+1]
	return cc, true
}

// String produces the canonical textual form of a combining code. The
// result parses back to an identical code.
func (cc CombiningCode) String() string {
	var sb strings.Builder
	sb.WriteByte(cc.BaseV)
	sb.WriteByte(cc.BaseH)
	if cc.DX == 0 && cc.DY == 0 {
		sb.WriteByte('.')
	} else {
		if cc.DY > 0 {
			sb.WriteByte('+')
			sb.WriteString(strconv.Itoa(cc.DY))
		} else if cc.DY < 0 {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(-cc.DY))
		}
		if cc.DX > 0 {
			sb.WriteByte('>')
			sb.WriteString(strconv.Itoa(cc.DX))
		} else if cc.DX < 0 {
			sb.WriteByte('<')
			sb.WriteString(strconv.Itoa(-cc.DX))
		}
	}
	sb.WriteByte(cc.AddedV)
	sb.WriteByte(cc.AddedH)
	return sb.String()
}

// isZero reports an unset combining code.
func (cc CombiningCode) isZero() bool {
	return cc == CombiningCode{}
}
