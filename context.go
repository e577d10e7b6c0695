package flt

// MaxBackRef is the highest back-reference index a rule may use; regex
// match groups beyond it are not recorded.
const MaxBackRef = 20

const maxMatchGroups = MaxBackRef + 1

// maxRecursionDepth guards against pathologically nested rule graphs.
// Real tables nest a handful of levels deep.
const maxRecursionDepth = 64

// matchGroups holds the [start,end) glyph-index pairs of the most recent
// regex match. Pairs of a group that did not participate are [-1,-1).
type matchGroups [maxMatchGroups][2]int

func noMatchGroups() matchGroups {
	var g matchGroups
	for i := range g {
		g[i][0], g[i][1] = -1, -1
	}
	return g
}

// clusterState tracks an open cluster: the output-buffer index of its
// first glyph and the union of character spans emitted since.
type clusterState struct {
	open     bool
	outIndex int
	pos, to  int
}

// exeContext is the per-stage, per-call mutable state of the interpreter.
// It is stack-scoped; nothing in it survives a call to ShapeRun.
type exeContext struct {
	stage   *Stage
	gsub    GsubDriver
	in      []Glyph // input glyphs; indices align with encoded
	encoded []byte  // category byte per input glyph, plus terminator
	out     []Glyph // glyphs produced by the running stage

	groups     matchGroups
	pendingCC  CombiningCode
	hasCC      bool
	leftPad    bool
	cluster    clusterState
	codeOffset rune
	depth      int
	curRule    int
}

func newExeContext(stage *Stage, in []Glyph, encoded []byte, gsub GsubDriver) *exeContext {
	return &exeContext{
		stage:   stage,
		gsub:    gsub,
		in:      in,
		encoded: encoded,
		groups:  noMatchGroups(),
	}
}

// emit appends a glyph to the stage output, attaching any pending
// combining code or left-padding flag and updating cluster bounds.
func (ctx *exeContext) emit(g Glyph) {
	if ctx.hasCC {
		g.Combining = ctx.pendingCC
		g.Combined = true
		ctx.pendingCC = CombiningCode{}
		ctx.hasCC = false
	}
	if ctx.leftPad {
		g.LeftPad = true
		ctx.leftPad = false
	}
	g.ruleIndex = ctx.curRule
	if ctx.cluster.open {
		if g.Pos < ctx.cluster.pos {
			ctx.cluster.pos = g.Pos
		}
		if g.To > ctx.cluster.to {
			ctx.cluster.to = g.To
		}
	}
	ctx.out = append(ctx.out, g)
}

// spanPos returns the character position at input cursor from, for
// zero-width glyphs.
func (ctx *exeContext) spanPos(from int) int {
	if from < len(ctx.in) {
		return ctx.in[from].Pos
	}
	if len(ctx.out) > 0 {
		return ctx.out[len(ctx.out)-1].To
	}
	if len(ctx.in) > 0 {
		return ctx.in[len(ctx.in)-1].To
	}
	return 0
}
