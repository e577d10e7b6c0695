package flt

// CategoryEntry assigns a category letter to a contiguous range of
// character codes. From == To describes a single code.
type CategoryEntry struct {
	From, To rune
	Category byte
}

// A CategoryTable maps character codes to single-letter categories
// ('A'…'Z', 'a'…'z'). Codes without a category map to 0. Category tables
// are immutable once built and may be shared by any number of stages.
type CategoryTable struct {
	entries []CategoryEntry
}

// NewCategoryTable builds a category table from an ordered list of range
// entries. Entries are applied in list order, i.e. for overlapping ranges
// the last entry wins. A category that is not an ASCII letter yields
// ErrInvalidCategory.
func NewCategoryTable(entries []CategoryEntry) (*CategoryTable, error) {
	for _, e := range entries {
		if !isCategoryLetter(e.Category) {
			return nil, errLoad(ErrInvalidCategory, "category %q for range 0x%x–0x%x",
				e.Category, e.From, e.To)
		}
	}
	ct := &CategoryTable{entries: make([]CategoryEntry, len(entries))}
	copy(ct.entries, entries)
	return ct, nil
}

// Lookup returns the category letter for a character code, or 0 if the
// code is uncategorized.
func (ct *CategoryTable) Lookup(code rune) byte {
	if ct == nil {
		return 0
	}
	// last write wins => scan back to front
	for i := len(ct.entries) - 1; i >= 0; i-- {
		e := ct.entries[i]
		if code >= e.From && code <= e.To {
			return e.Category
		}
	}
	return 0
}

func isCategoryLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
