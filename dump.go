package flt

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable rendering of the loaded command graph.
// The output is deterministic: two loads of the same source dump
// identically, which makes it usable for diffing table revisions.
func (lt *LayoutTable) Dump(w io.Writer) {
	fmt.Fprintf(w, "layout table %q, %d stage(s)\n", lt.Name, len(lt.stages))
	for snum, stage := range lt.stages {
		fmt.Fprintf(w, "stage %d, %d command(s), %d categor%s\n",
			snum, len(stage.commands), len(stage.categories.entries),
			pluralY(len(stage.categories.entries)))
		for i, cmd := range stage.commands {
			fmt.Fprintf(w, "  #%-3d %s\n", i, dumpCommand(cmd))
		}
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func dumpCommand(cmd command) string {
	switch c := cmd.(type) {
	case *ruleCmd:
		return fmt.Sprintf("(%s %s)", dumpMatcher(c.m), dumpRefs(c.body))
	case *condCmd:
		return fmt.Sprintf("(cond %s)", dumpRefs(c.alts))
	case *otfCmd:
		return c.spec.String()
	}
	return "?"
}

func dumpMatcher(m matcher) string {
	switch m.kind {
	case matchSeq:
		parts := make([]string, len(m.seq))
		for i, c := range m.seq {
			parts[i] = fmt.Sprintf("0x%04X", c)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case matchRange:
		return fmt.Sprintf("(range 0x%04X 0x%04X)", m.lo, m.hi)
	case matchRegex:
		return fmt.Sprintf("%q", m.pattern)
	case matchBackRef:
		return fmt.Sprintf("%d", m.group)
	}
	return "?"
}

func dumpRefs(refs []CommandRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		switch ref.kind {
		case refLiteral:
			parts[i] = fmt.Sprintf("0x%04X", ref.lit)
		case refBuiltin:
			parts[i] = ref.op.String()
		case refCombine:
			parts[i] = ref.comb.String()
		case refIndex:
			parts[i] = fmt.Sprintf("#%d", ref.inx)
		}
	}
	return strings.Join(parts, " ")
}
