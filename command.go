package flt

import "regexp"

// --- Command references ----------------------------------------------------

// BuiltinOp is one of the builtin pseudo-ops a rule body may invoke.
type BuiltinOp int8

// Builtin pseudo-ops, with their textual tokens.
const (
	OpCopy         BuiltinOp = iota // '='  copy next source glyph
	OpRepeat                        // '*'  re-run preceding command until no progress
	OpClusterBegin                  // '<'  open a glyph cluster
	OpClusterEnd                    // '>'  close a glyph cluster
	OpSeparator                     // '|'  emit a zero-width pad glyph
	OpLeftPadding                   // '['  flag next glyph as left-padded
	OpRightPadding                  // ']'  flag last glyph as right-padded
)

var builtinTokens = map[string]BuiltinOp{
	"=": OpCopy,
	"*": OpRepeat,
	"<": OpClusterBegin,
	">": OpClusterEnd,
	"|": OpSeparator,
	"[": OpLeftPadding,
	"]": OpRightPadding,
}

func (op BuiltinOp) String() string {
	for tok, o := range builtinTokens {
		if o == op {
			return tok
		}
	}
	return "?"
}

type refKind uint8

const (
	refLiteral refKind = iota // emit a literal output code
	refBuiltin                // builtin pseudo-op
	refCombine                // combining-position annotation
	refIndex                  // index into the stage's command array
)

// A CommandRef refers to one unit of work inside a rule body. It is either
// a literal output code, a builtin pseudo-op, a combining code, or an
// index into the owning stage's command array. The four classes are kept
// as an explicit tagged value rather than overlaid on one integer space.
type CommandRef struct {
	kind refKind
	lit  rune
	op   BuiltinOp
	comb CombiningCode
	inx  int
}

// LiteralRef emits the literal (non-negative) output code c.
func LiteralRef(c rune) CommandRef { return CommandRef{kind: refLiteral, lit: c} }

// BuiltinRef invokes a builtin pseudo-op.
func BuiltinRef(op BuiltinOp) CommandRef { return CommandRef{kind: refBuiltin, op: op} }

// CombiningRef annotates the next produced glyph with a combining code.
func CombiningRef(cc CombiningCode) CommandRef { return CommandRef{kind: refCombine, comb: cc} }

// IndexRef refers to command #i of the owning stage.
func IndexRef(i int) CommandRef { return CommandRef{kind: refIndex, inx: i} }

func (ref CommandRef) isRepeat() bool {
	return ref.kind == refBuiltin && ref.op == OpRepeat
}

// --- Matchers --------------------------------------------------------------

type matcherKind uint8

const (
	matchSeq     matcherKind = iota // fixed code sequence
	matchRange                      // single code within [lo,hi]
	matchRegex                      // regex over encoded categories
	matchBackRef                    // previously recorded match group
)

// matcher is the source matcher of a rule command.
type matcher struct {
	kind    matcherKind
	seq     []rune         // matchSeq
	lo, hi  rune           // matchRange
	re      *regexp.Regexp // matchRegex
	pattern string         // regex source, for dumping
	group   int            // matchBackRef
}

// --- Commands --------------------------------------------------------------

// command is the interface of the three command classes stored in a
// stage's command array.
type command interface {
	isCommand()
}

// ruleCmd matches a portion of the source and, on success, runs its body
// over the matched span.
type ruleCmd struct {
	m    matcher
	body []CommandRef
}

// condCmd dispatches to the first alternative that makes progress. It
// consumes nothing itself.
type condCmd struct {
	alts []CommandRef
}

// otfCmd hands the current span to the OpenType collaborator.
type otfCmd struct {
	spec OtfSpec
}

func (*ruleCmd) isCommand() {}
func (*condCmd) isCommand() {}
func (*otfCmd) isCommand()  {}

// --- Stages and layout tables ----------------------------------------------

// A Stage owns a category table (possibly shared with other stages) and an
// indexed command array. Command index 0 is the stage's root.
type Stage struct {
	categories *CategoryTable
	commands   []command
}

// reserve appends a placeholder command slot and returns its index.
func (st *Stage) reserve() int {
	st.commands = append(st.commands, nil)
	return len(st.commands) - 1
}

// command returns command #i, or nil for an out-of-bounds index.
func (st *Stage) command(i int) command {
	if i < 0 || i >= len(st.commands) {
		return nil
	}
	return st.commands[i]
}

// A LayoutTable is a named, loaded FLT: an ordered list of stages, run
// strictly in sequence. Layout tables are immutable once loaded and safe
// for concurrent use.
type LayoutTable struct {
	Name   string
	stages []*Stage
}

// StageCount returns the number of stages of the layout table.
func (lt *LayoutTable) StageCount() int {
	return len(lt.stages)
}
