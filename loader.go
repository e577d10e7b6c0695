package flt

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// --- S-expression reader ---------------------------------------------------

// Layout tables are written in a small S-expression dialect:
//
//	;; comment until end of line
//	(category (0x0E01 0x0E5B ?x) …)
//	(generator RULE (MACRO-NAME RULE) …)
//
// The reader produces a generic expression tree; the loader below gives
// the nodes their meaning.

type sxKind uint8

const (
	sxList sxKind = iota
	sxSymbol
	sxString
	sxInt
)

type sx struct {
	kind sxKind
	list []sx
	text string
	num  int
	line int
}

type sexpScanner struct {
	src  []byte
	pos  int
	line int
}

func newSexpScanner(src []byte) *sexpScanner {
	return &sexpScanner{src: src, line: 1}
}

func (s *sexpScanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ';' {
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		if c == '\n' {
			s.line++
			s.pos++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			s.pos++
			continue
		}
		break
	}
}

// next reads one expression. io.EOF signals exhausted input.
func (s *sexpScanner) next() (sx, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return sx{}, io.EOF
	}
	line := s.line
	switch c := s.src[s.pos]; {
	case c == '(':
		s.pos++
		lst := sx{kind: sxList, line: line}
		for {
			s.skipSpace()
			if s.pos >= len(s.src) {
				return sx{}, errLoad(ErrMalformedRule, "line %d: unterminated list", line)
			}
			if s.src[s.pos] == ')' {
				s.pos++
				return lst, nil
			}
			elem, err := s.next()
			if err != nil {
				if err == io.EOF {
					err = errLoad(ErrMalformedRule, "line %d: unterminated list", line)
				}
				return sx{}, err
			}
			lst.list = append(lst.list, elem)
		}
	case c == ')':
		return sx{}, errLoad(ErrMalformedRule, "line %d: unbalanced ')'", line)
	case c == '"':
		s.pos++
		var sb strings.Builder
		for {
			if s.pos >= len(s.src) {
				return sx{}, errLoad(ErrMalformedRule, "line %d: unterminated string", line)
			}
			c := s.src[s.pos]
			if c == '"' {
				s.pos++
				return sx{kind: sxString, text: sb.String(), line: line}, nil
			}
			if c == '\\' && s.pos+1 < len(s.src) {
				s.pos++
				c = s.src[s.pos]
			} else if c == '\n' {
				s.line++
			}
			sb.WriteByte(c)
			s.pos++
		}
	case c == '?':
		// character literal, e.g. ?E
		s.pos++
		if s.pos >= len(s.src) {
			return sx{}, errLoad(ErrMalformedRule, "line %d: dangling '?'", line)
		}
		r, size := utf8.DecodeRune(s.src[s.pos:])
		s.pos += size
		return sx{kind: sxInt, num: int(r), line: line}, nil
	default:
		start := s.pos
		for s.pos < len(s.src) && !isTokenEnd(s.src[s.pos]) {
			s.pos++
		}
		tok := string(s.src[start:s.pos])
		if n, ok := parseInteger(tok); ok {
			return sx{kind: sxInt, num: n, line: line}, nil
		}
		return sx{kind: sxSymbol, text: tok, line: line}, nil
	}
}

func isTokenEnd(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' ||
		c == '(' || c == ')' || c == ';' || c == '"'
}

func parseInteger(tok string) (int, bool) {
	t := tok
	neg := false
	if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	}
	var n int64
	var err error
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err = strconv.ParseInt(t[2:], 16, 32)
	} else if t != "" && t[0] >= '0' && t[0] <= '9' {
		n, err = strconv.ParseInt(t, 10, 32)
	} else {
		return 0, false
	}
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return int(n), true
}

// --- Layout table loader ---------------------------------------------------

// ParseTable loads a layout table from its textual form. The table text is
// a list of stage declarations: `category` blocks establishing a category
// table, and `generator` blocks holding a root rule plus macro
// definitions. A generator uses the most recently declared category table;
// a generator without one fails with ErrMissingCategory.
func ParseTable(name string, input io.Reader) (*LayoutTable, error) {
	src, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	lt := &LayoutTable{Name: name}
	var categories *CategoryTable
	scanner := newSexpScanner(src)
	for {
		expr, err := scanner.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if expr.kind != sxList || len(expr.list) == 0 || expr.list[0].kind != sxSymbol {
			return nil, errLoad(ErrMalformedRule, "line %d: expected (category …) or (generator …)",
				expr.line)
		}
		switch expr.list[0].text {
		case "category":
			if categories, err = loadCategories(expr); err != nil {
				return nil, err
			}
		case "generator":
			if categories == nil {
				return nil, errLoad(ErrMissingCategory, "line %d: generator precedes category table",
					expr.line)
			}
			stage, err := loadGenerator(expr, categories)
			if err != nil {
				return nil, err
			}
			lt.stages = append(lt.stages, stage)
		default:
			return nil, errLoad(ErrMalformedRule, "line %d: unknown block %q",
				expr.line, expr.list[0].text)
		}
	}
	if len(lt.stages) == 0 {
		return nil, errLoad(ErrMalformedRule, "layout table %q has no generator stage", name)
	}
	tracer().Infof("loaded layout table %q with %d stage(s)", name, len(lt.stages))
	return lt, nil
}

func loadCategories(block sx) (*CategoryTable, error) {
	var entries []CategoryEntry
	for _, e := range block.list[1:] {
		if e.kind != sxList || len(e.list) < 2 || len(e.list) > 3 {
			return nil, errLoad(ErrMalformedRule, "line %d: malformed category entry", e.line)
		}
		if e.list[0].kind != sxInt {
			return nil, errLoad(ErrMalformedRule, "line %d: category range is not numeric", e.line)
		}
		entry := CategoryEntry{From: rune(e.list[0].num)}
		cat := e.list[1]
		if len(e.list) == 3 {
			if e.list[1].kind != sxInt {
				return nil, errLoad(ErrMalformedRule, "line %d: category range is not numeric", e.line)
			}
			entry.To = rune(e.list[1].num)
			cat = e.list[2]
		} else {
			entry.To = entry.From
		}
		switch {
		case cat.kind == sxInt:
			entry.Category = byte(cat.num)
		case cat.kind == sxSymbol && len(cat.text) == 1:
			entry.Category = cat.text[0]
		default:
			return nil, errLoad(ErrInvalidCategory, "line %d: category letter expected", cat.line)
		}
		entries = append(entries, entry)
	}
	return NewCategoryTable(entries)
}

// stageLoader holds the per-generator loading state: the stage being
// filled, the macro bodies by name, and the memoized command slot of each
// macro already loaded.
type stageLoader struct {
	stage      *Stage
	macros     map[string]sx
	macroSlots map[string]int
}

func loadGenerator(block sx, categories *CategoryTable) (*Stage, error) {
	elems := block.list[1:]
	if len(elems) == 0 {
		return nil, errLoad(ErrMalformedRule, "line %d: empty generator", block.line)
	}
	ld := &stageLoader{
		stage:      &Stage{categories: categories},
		macros:     make(map[string]sx),
		macroSlots: make(map[string]int),
	}
	for _, m := range elems[1:] {
		if m.kind != sxList || len(m.list) < 2 || m.list[0].kind != sxSymbol {
			return nil, errLoad(ErrMalformedRule, "line %d: malformed macro definition", m.line)
		}
		ld.macros[m.list[0].text] = m
	}
	root := elems[0]
	if root.kind != sxList {
		return nil, errLoad(ErrMalformedRule, "line %d: generator root must be a rule", root.line)
	}
	slot := ld.stage.reserve() // root occupies command slot 0
	if err := ld.loadCommandInto(slot, root); err != nil {
		return nil, err
	}
	return ld.stage, nil
}

// errSkipCommand drops a single command from its surrounding body without
// failing the whole load (used for malformed otf: script tags).
var errSkipCommand = errors.New("command skipped")

// loadRef turns one rule element into a command reference, appending
// compound commands to the stage's command array as needed.
func (ld *stageLoader) loadRef(e sx) (CommandRef, error) {
	switch e.kind {
	case sxInt:
		if e.num < 0 {
			return CommandRef{}, errLoad(ErrMalformedRule, "line %d: negative direct code %d",
				e.line, e.num)
		}
		return LiteralRef(rune(e.num)), nil
	case sxSymbol:
		if op, ok := builtinTokens[e.text]; ok {
			return BuiltinRef(op), nil
		}
		if strings.HasPrefix(e.text, "otf:") {
			spec, err := parseOtfSpec(e.text[len("otf:"):])
			if err != nil {
				// fatal for this command only, not for the table
				tracer().Errorf("line %d: %s: dropping command", e.line, err.Error())
				return CommandRef{}, errSkipCommand
			}
			slot := ld.stage.reserve()
			ld.stage.commands[slot] = &otfCmd{spec: spec}
			return IndexRef(slot), nil
		}
		if cc, ok := ParseCombining(e.text); ok {
			return CombiningRef(cc), nil
		}
		return ld.macroRef(e)
	case sxList:
		slot := ld.stage.reserve()
		if err := ld.loadCommandInto(slot, e); err != nil {
			return CommandRef{}, err
		}
		return IndexRef(slot), nil
	}
	return CommandRef{}, errLoad(ErrMalformedRule, "line %d: unexpected rule element", e.line)
}

// macroRef resolves a bare symbol to a macro's command slot, loading the
// macro body on first use. Repeated references share one slot; a recursive
// reference resolves to the slot reserved for the macro being loaded, so
// cyclic macros load fine and are caught by the runtime depth guard.
func (ld *stageLoader) macroRef(e sx) (CommandRef, error) {
	name := e.text
	if slot, ok := ld.macroSlots[name]; ok {
		return IndexRef(slot), nil
	}
	def, ok := ld.macros[name]
	if !ok {
		return CommandRef{}, errLoad(ErrMalformedRule, "line %d: unknown symbol %q", e.line, name)
	}
	slot := ld.stage.reserve()
	ld.macroSlots[name] = slot
	body := def.list[1:]
	if len(body) == 1 && body[0].kind == sxList {
		if err := ld.loadCommandInto(slot, body[0]); err != nil {
			return CommandRef{}, err
		}
		return IndexRef(slot), nil
	}
	// a macro with several rules dispatches like a cond
	cond := &condCmd{}
	for _, b := range body {
		ref, err := ld.loadRef(b)
		if err == errSkipCommand {
			continue
		}
		if err != nil {
			return CommandRef{}, err
		}
		cond.alts = append(cond.alts, ref)
	}
	ld.stage.commands[slot] = cond
	return IndexRef(slot), nil
}

// loadCommandInto parses a compound rule into the reserved command slot.
func (ld *stageLoader) loadCommandInto(slot int, e sx) error {
	if len(e.list) == 0 {
		return errLoad(ErrMalformedRule, "line %d: empty rule", e.line)
	}
	head := e.list[0]
	if head.kind == sxSymbol && head.text == "cond" {
		cond := &condCmd{}
		for _, alt := range e.list[1:] {
			ref, err := ld.loadRef(alt)
			if err == errSkipCommand {
				continue
			}
			if err != nil {
				return err
			}
			cond.alts = append(cond.alts, ref)
		}
		if len(cond.alts) == 0 {
			return errLoad(ErrMalformedRule, "line %d: cond without alternatives", e.line)
		}
		ld.stage.commands[slot] = cond
		return nil
	}
	m, err := ld.loadMatcher(head)
	if err != nil {
		return err
	}
	rule := &ruleCmd{m: m}
	for _, b := range e.list[1:] {
		ref, err := ld.loadRef(b)
		if err == errSkipCommand {
			continue
		}
		if err != nil {
			return err
		}
		rule.body = append(rule.body, ref)
	}
	ld.stage.commands[slot] = rule
	return nil
}

func (ld *stageLoader) loadMatcher(head sx) (matcher, error) {
	switch head.kind {
	case sxString:
		re, err := regexp.Compile(head.text)
		if err != nil {
			return matcher{}, errLoad(ErrMalformedRule, "line %d: bad pattern %q: %v",
				head.line, head.text, err)
		}
		return matcher{kind: matchRegex, re: re, pattern: head.text}, nil
	case sxInt:
		if head.num < 0 || head.num > MaxBackRef {
			return matcher{}, errLoad(ErrMalformedRule, "line %d: back-reference %d out of range",
				head.line, head.num)
		}
		return matcher{kind: matchBackRef, group: head.num}, nil
	case sxList:
		if len(head.list) == 3 && head.list[0].kind == sxSymbol && head.list[0].text == "range" {
			if head.list[1].kind != sxInt || head.list[2].kind != sxInt {
				return matcher{}, errLoad(ErrMalformedRule, "line %d: malformed range", head.line)
			}
			return matcher{kind: matchRange,
				lo: rune(head.list[1].num), hi: rune(head.list[2].num)}, nil
		}
		seq := make([]rune, 0, len(head.list))
		for _, c := range head.list {
			if c.kind != sxInt {
				return matcher{}, errLoad(ErrMalformedRule, "line %d: sequence element is not a code",
					c.line)
			}
			seq = append(seq, rune(c.num))
		}
		if len(seq) == 0 {
			return matcher{}, errLoad(ErrMalformedRule, "line %d: empty sequence", head.line)
		}
		return matcher{kind: matchSeq, seq: seq}, nil
	}
	return matcher{}, errLoad(ErrMalformedRule, "line %d: rule head is not a matcher", head.line)
}
