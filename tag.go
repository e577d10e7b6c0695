package flt

// Tag is a 4-byte identifier for OpenType scripts, language systems and
// features, as used by `otf:` commands in layout tables.
type Tag uint32

// T interprets a string as a tag. Tags are at most 4 bytes long; shorter
// input is padded with blanks, as the OpenType spec demands.
func T(s string) Tag {
	var t Tag
	for i := 0; i < 4; i++ {
		t <<= 8
		if i < len(s) {
			t |= Tag(s[i])
		} else {
			t |= ' '
		}
	}
	return t
}

// DFLT is the default script/language-system tag.
var DFLT = T("DFLT")

func (t Tag) String() string {
	if t == 0 {
		return "----"
	}
	b := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}
