package flt

import (
	"github.com/npillmayer/flt/core"
)

// The interpreter walks the command graph of one stage recursively over
// the glyph span [from,to). Every command call returns the new input
// cursor; a cursor equal to from signals "no match / no progress", which
// is ordinary control flow, never an error. Errors are reserved for a
// corrupt command graph or exceeded recursion depth and make the whole
// run unshapeable.

func errRuntime(format string, v ...interface{}) error {
	return core.Error(core.EINTERNAL, format, v...)
}

// runCommand evaluates one command reference against [from,to).
func (ctx *exeContext) runCommand(ref CommandRef, from, to int) (int, error) {
	switch ref.kind {
	case refLiteral:
		ctx.emitLiteral(ref.lit, from, to)
		return from, nil
	case refBuiltin:
		return ctx.runBuiltin(ref.op, from, to)
	case refCombine:
		ctx.pendingCC = ref.comb
		ctx.hasCC = true
		return from, nil
	case refIndex:
		cmd := ctx.stage.command(ref.inx)
		if cmd == nil {
			return from, errRuntime("command index %d out of bounds", ref.inx)
		}
		ctx.depth++
		if ctx.depth > maxRecursionDepth {
			return from, core.WrapError(ErrRuleTooDeep, core.EINTERNAL,
				"rule nesting exceeds %d", maxRecursionDepth)
		}
		defer func() { ctx.depth-- }()
		savedRule := ctx.curRule
		ctx.curRule = ref.inx
		defer func() { ctx.curRule = savedRule }()
		switch c := cmd.(type) {
		case *ruleCmd:
			return ctx.runRule(c, from, to)
		case *condCmd:
			return ctx.runCond(c, from, to)
		case *otfCmd:
			return ctx.runOtf(c, from, to)
		}
	}
	return from, errRuntime("unknown command class")
}

// emitLiteral produces one glyph with a literal output code, adjusted by
// the code offset of the most recent range match. The glyph spans the
// source region it replaces; it consumes nothing.
func (ctx *exeContext) emitLiteral(code rune, from, to int) {
	g := Glyph{Code: code + ctx.codeOffset}
	ctx.codeOffset = 0
	if from < to {
		g.CodePoint = ctx.in[from].CodePoint
		g.Pos = ctx.in[from].Pos
		g.To = ctx.in[to-1].To
	} else {
		p := ctx.spanPos(from)
		g.Pos, g.To = p, p
	}
	ctx.emit(g)
}

func (ctx *exeContext) runBuiltin(op BuiltinOp, from, to int) (int, error) {
	switch op {
	case OpCopy:
		if from >= to {
			return from, nil
		}
		ctx.emit(ctx.in[from])
		return from + 1, nil
	case OpRepeat:
		// handled inside rule bodies; standalone it is a no-op
		return from, nil
	case OpClusterBegin:
		if !ctx.cluster.open {
			p := ctx.spanPos(from)
			ctx.cluster = clusterState{open: true, outIndex: len(ctx.out), pos: p, to: p}
		}
		return from, nil
	case OpClusterEnd:
		if ctx.cluster.open {
			for i := ctx.cluster.outIndex; i < len(ctx.out); i++ {
				ctx.out[i].Pos = ctx.cluster.pos
				ctx.out[i].To = ctx.cluster.to
			}
			ctx.cluster.open = false
		}
		return from, nil
	case OpSeparator:
		p := ctx.spanPos(from)
		ctx.emit(Glyph{IsPad: true, Pos: p, To: p})
		return from, nil
	case OpLeftPadding:
		ctx.leftPad = true
		return from, nil
	case OpRightPadding:
		if len(ctx.out) > 0 {
			ctx.out[len(ctx.out)-1].RightPad = true
		}
		return from, nil
	}
	return from, errRuntime("unknown builtin op %d", op)
}

// runRule resolves the rule's source span and, on a match, runs the body
// over it. The rule consumes the whole matched span.
func (ctx *exeContext) runRule(rule *ruleCmd, from, to int) (int, error) {
	bodyFrom, bodyTo := from, to
	consumedTo := from
	restoreGroups := false
	var saved matchGroups

	switch rule.m.kind {
	case matchSeq:
		n := len(rule.m.seq)
		if to-from < n {
			return from, nil
		}
		for i := 0; i < n; i++ {
			if ctx.in[from+i].Code != rule.m.seq[i] {
				return from, nil
			}
		}
		bodyTo = from + n
		consumedTo = bodyTo
	case matchRange:
		if from >= to {
			return from, nil
		}
		c := ctx.in[from].Code
		if c < rule.m.lo || c > rule.m.hi {
			return from, nil
		}
		ctx.codeOffset = c - rule.m.lo
		bodyTo = from + 1
		consumedTo = bodyTo
	case matchRegex:
		if from > to || to > len(ctx.encoded) {
			return from, errRuntime("encode buffer too small")
		}
		loc := rule.m.re.FindSubmatchIndex(ctx.encoded[from:to])
		if loc == nil || loc[0] != 0 {
			return from, nil // a match elsewhere in range does not count
		}
		saved = ctx.groups
		restoreGroups = true
		groups := noMatchGroups()
		for g := 0; g*2+1 < len(loc) && g < maxMatchGroups; g++ {
			if loc[g*2] >= 0 {
				groups[g][0] = from + loc[g*2]
				groups[g][1] = from + loc[g*2+1]
			}
		}
		ctx.groups = groups
		bodyTo = from + loc[1]
		consumedTo = bodyTo
	case matchBackRef:
		g := ctx.groups[rule.m.group]
		if g[0] < 0 {
			return from, nil // group did not participate
		}
		bodyFrom, bodyTo = g[0], g[1]
		consumedTo = bodyTo
	}

	err := ctx.runBody(rule.body, bodyFrom, bodyTo)
	if restoreGroups {
		ctx.groups = saved
	}
	if err != nil {
		return from, err
	}
	return consumedTo, nil
}

// runBody executes the sub-commands of a matched rule over [from,to).
// A repeat op re-runs its predecessor on the unconsumed remainder until
// it stops making progress.
func (ctx *exeContext) runBody(body []CommandRef, from, to int) error {
	cur := from
	for i := 0; i < len(body); i++ {
		ref := body[i]
		if ref.isRepeat() {
			if i == 0 {
				continue
			}
			prev := body[i-1]
			for cur < to {
				n, err := ctx.runCommand(prev, cur, to)
				if err != nil {
					return err
				}
				if n == cur {
					break
				}
				cur = n
			}
			continue
		}
		n, err := ctx.runCommand(ref, cur, to)
		if err != nil {
			return err
		}
		cur = n
	}
	return nil
}

// runCond tries the alternatives in declared order against the same span
// and stops at the first one that succeeds: one that advanced the cursor
// or, for zero-width alternatives, produced output. The cond consumes only
// what the chosen branch consumed. Side effects of rejected branches are
// rolled back.
func (ctx *exeContext) runCond(cond *condCmd, from, to int) (int, error) {
	for _, alt := range cond.alts {
		mark := len(ctx.out)
		savedCC, savedHasCC := ctx.pendingCC, ctx.hasCC
		savedPad := ctx.leftPad
		n, err := ctx.runCommand(alt, from, to)
		if err != nil {
			return from, err
		}
		if n != from || len(ctx.out) > mark {
			return n, nil
		}
		ctx.out = ctx.out[:mark]
		ctx.pendingCC, ctx.hasCC = savedCC, savedHasCC
		ctx.leftPad = savedPad
	}
	return from, nil
}

// runOtf delegates [from,to) to the OpenType collaborator for GSUB
// substitution. The result replaces the span; failures pass the span
// through unchanged. GPOS adjustment happens at drawing time, not here.
func (ctx *exeContext) runOtf(otf *otfCmd, from, to int) (int, error) {
	if from >= to {
		return from, nil
	}
	slice := ctx.in[from:to]
	if ctx.gsub == nil || otf.spec.GSub.None() {
		for _, g := range slice {
			ctx.emit(g)
		}
		return to, nil
	}
	replaced, err := ctx.gsub.DriveGSUB(slice, otf.spec.Script, otf.spec.LangSys, otf.spec.GSub)
	if err != nil {
		tracer().Infof("OTF substitution failed (%v), glyphs pass through", err)
		replaced = slice
	}
	spanPos, spanTo := ctx.in[from].Pos, ctx.in[to-1].To
	for _, g := range replaced {
		if g.Pos == 0 && g.To == 0 {
			g.Pos, g.To = spanPos, spanTo
		}
		ctx.emit(g)
	}
	return to, nil
}
