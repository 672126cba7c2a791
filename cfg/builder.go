package cfg

import "sort"

type frameKind int

const (
	frameLoop frameKind = iota
	frameSwitch
)

type frame struct {
	kind   frameKind
	header int // loop header; meaningless for switch frames
	exit   int
	label  string
}

type pendingEdge struct {
	from int
	to   int
}

type builder struct {
	cfg     *CFG
	current int
	frames  []frame
	pending []pendingEdge
}

// Build walks an abstract statement body and produces its control-flow
// graph (spec.md §4.F).
func Build(body []Stmt) *CFG {
	c := &CFG{}
	entry := c.newBlock()
	exit := c.newBlock()
	c.Entry = entry.ID
	c.Exit = exit.ID

	b := &builder{cfg: c, current: entry.ID}
	b.walkStmts(body)

	for _, blk := range c.Blocks {
		if blk.ID == c.Exit {
			continue
		}
		if !isTerminated(blk) {
			blk.Terminator = Terminator{Kind: TermReturn, Targets: []int{c.Exit}}
			c.addEdge(blk.ID, c.Exit)
		}
	}
	for _, p := range b.pending {
		c.addEdge(p.from, p.to)
	}

	c.computeReversePostorder()
	computeUseDef(c)
	return c
}

func computeUseDef(c *CFG) {
	for _, blk := range c.Blocks {
		useSet := map[string]struct{}{}
		defSet := map[string]struct{}{}
		for _, st := range blk.Stmts {
			for _, u := range st.Uses {
				useSet[u] = struct{}{}
			}
			for _, d := range st.Defs {
				defSet[d] = struct{}{}
			}
		}
		blk.Use = sortedKeys(useSet)
		blk.Def = sortedKeys(defSet)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (b *builder) finishTo(blockID, target int) {
	blk := b.cfg.block(blockID)
	if !isTerminated(blk) {
		blk.Terminator = Terminator{Kind: TermBranch, Targets: []int{target}}
		b.cfg.addEdge(blockID, target)
	}
}

func (b *builder) walkStmts(stmts []Stmt) {
	for _, s := range stmts {
		if isTerminated(b.cfg.block(b.current)) {
			return
		}
		b.walkStmt(s)
	}
}

func (b *builder) walkStmt(s Stmt) {
	switch s.Kind {
	case StmtExpr:
		cur := b.cfg.block(b.current)
		cur.Stmts = append(cur.Stmts, s)
	case StmtBlock:
		cur := b.cfg.block(b.current)
		cur.Stmts = append(cur.Stmts, s)
		b.walkStmts(s.Body)
	case StmtIf:
		b.walkIf(s)
	case StmtGuard:
		b.walkGuard(s)
	case StmtFor, StmtWhile:
		b.walkForWhile(s)
	case StmtRepeatWhile:
		b.walkRepeatWhile(s)
	case StmtSwitch:
		b.walkSwitch(s)
	case StmtReturn:
		cur := b.cfg.block(b.current)
		cur.Stmts = append(cur.Stmts, s)
		cur.Terminator = Terminator{Kind: TermReturn, Targets: []int{b.cfg.Exit}}
		b.cfg.addEdge(b.current, b.cfg.Exit)
	case StmtThrow:
		cur := b.cfg.block(b.current)
		cur.Stmts = append(cur.Stmts, s)
		cur.Terminator = Terminator{Kind: TermThrow, Targets: []int{b.cfg.Exit}}
		b.cfg.addEdge(b.current, b.cfg.Exit)
	case StmtBreak:
		b.walkBreak(s)
	case StmtContinue:
		b.walkContinue(s)
	case StmtDoCatch:
		b.walkDoCatch(s)
	case StmtDefer:
		cur := b.cfg.block(b.current)
		cur.Stmts = append(cur.Stmts, s)
	}
}

func (b *builder) condStmt(s Stmt) Stmt {
	return Stmt{Kind: StmtExpr, Uses: s.Uses, Defs: s.Defs, Location: s.Location}
}

func (b *builder) walkIf(s Stmt) {
	decision := b.current
	dblk := b.cfg.block(decision)
	dblk.Stmts = append(dblk.Stmts, b.condStmt(s))

	thenBlock := b.cfg.newBlock()
	elseBlock := b.cfg.newBlock()
	mergeBlock := b.cfg.newBlock()

	dblk.Terminator = Terminator{Kind: TermConditionalBranch, Targets: []int{thenBlock.ID, elseBlock.ID}}
	b.cfg.addEdge(decision, thenBlock.ID)
	b.cfg.addEdge(decision, elseBlock.ID)

	b.current = thenBlock.ID
	b.walkStmts(s.Then)
	b.finishTo(b.current, mergeBlock.ID)

	b.current = elseBlock.ID
	b.walkStmts(s.Else)
	b.finishTo(b.current, mergeBlock.ID)

	b.current = mergeBlock.ID
}

func (b *builder) walkGuard(s Stmt) {
	decision := b.current
	dblk := b.cfg.block(decision)
	dblk.Stmts = append(dblk.Stmts, b.condStmt(s))

	elseBlock := b.cfg.newBlock()
	continueBlock := b.cfg.newBlock()

	dblk.Terminator = Terminator{Kind: TermConditionalBranch, Targets: []int{continueBlock.ID, elseBlock.ID}}
	b.cfg.addEdge(decision, continueBlock.ID)
	b.cfg.addEdge(decision, elseBlock.ID)

	b.current = elseBlock.ID
	b.walkStmts(s.Else)
	if !isTerminated(b.cfg.block(b.current)) {
		b.cfg.block(b.current).Terminator = Terminator{Kind: TermUnreachable}
	}

	b.current = continueBlock.ID
}

func (b *builder) walkForWhile(s Stmt) {
	preheader := b.current
	header := b.cfg.newBlock()
	body := b.cfg.newBlock()
	exit := b.cfg.newBlock()

	b.finishTo(preheader, header.ID)

	header.Stmts = append(header.Stmts, b.condStmt(s))
	header.Terminator = Terminator{Kind: TermConditionalBranch, Targets: []int{body.ID, exit.ID}}
	b.cfg.addEdge(header.ID, body.ID)
	b.cfg.addEdge(header.ID, exit.ID)

	b.frames = append(b.frames, frame{kind: frameLoop, header: header.ID, exit: exit.ID, label: s.Label})
	b.current = body.ID
	b.walkStmts(s.Body)
	b.finishTo(b.current, header.ID)
	b.frames = b.frames[:len(b.frames)-1]

	b.current = exit.ID
}

func (b *builder) walkRepeatWhile(s Stmt) {
	preheader := b.current
	body := b.cfg.newBlock()
	condBlock := b.cfg.newBlock()
	exit := b.cfg.newBlock()

	b.finishTo(preheader, body.ID)

	b.frames = append(b.frames, frame{kind: frameLoop, header: body.ID, exit: exit.ID, label: s.Label})
	b.current = body.ID
	b.walkStmts(s.Body)
	b.finishTo(b.current, condBlock.ID)
	b.frames = b.frames[:len(b.frames)-1]

	condBlock.Stmts = append(condBlock.Stmts, b.condStmt(s))
	condBlock.Terminator = Terminator{Kind: TermConditionalBranch, Targets: []int{body.ID, exit.ID}}
	b.cfg.addEdge(condBlock.ID, body.ID)
	b.cfg.addEdge(condBlock.ID, exit.ID)

	b.current = exit.ID
}

func (b *builder) walkSwitch(s Stmt) {
	decision := b.current
	dblk := b.cfg.block(decision)
	dblk.Stmts = append(dblk.Stmts, b.condStmt(s))

	exit := b.cfg.newBlock()

	caseBlocks := make([]*BasicBlock, len(s.Cases))
	var targets []int
	for i := range s.Cases {
		caseBlocks[i] = b.cfg.newBlock()
		targets = append(targets, caseBlocks[i].ID)
	}
	var defaultBlock *BasicBlock
	if s.Default != nil {
		defaultBlock = b.cfg.newBlock()
		targets = append(targets, defaultBlock.ID)
	}

	dblk.Terminator = Terminator{Kind: TermSwitch, Targets: targets}
	for _, t := range targets {
		b.cfg.addEdge(decision, t)
	}

	b.frames = append(b.frames, frame{kind: frameSwitch, exit: exit.ID, label: s.Label})
	for i, cb := range s.Cases {
		b.current = caseBlocks[i].ID
		b.walkStmts(cb.Body)
		b.finishTo(b.current, exit.ID)
	}
	if defaultBlock != nil {
		b.current = defaultBlock.ID
		b.walkStmts(s.Default)
		b.finishTo(b.current, exit.ID)
	}
	b.frames = b.frames[:len(b.frames)-1]

	b.current = exit.ID
}

func (b *builder) walkBreak(s Stmt) {
	cur := b.cfg.block(b.current)
	cur.Stmts = append(cur.Stmts, s)
	target, ok := b.resolveBreak(s.TargetLabel)
	if !ok {
		cur.Terminator = Terminator{Kind: TermUnreachable}
		return
	}
	cur.Terminator = Terminator{Kind: TermBreak, Targets: []int{target}}
	b.cfg.addEdge(b.current, target)
}

func (b *builder) walkContinue(s Stmt) {
	cur := b.cfg.block(b.current)
	cur.Stmts = append(cur.Stmts, s)
	target, ok := b.resolveContinue(s.TargetLabel)
	if !ok {
		cur.Terminator = Terminator{Kind: TermUnreachable}
		return
	}
	cur.Terminator = Terminator{Kind: TermContinue, Targets: []int{target}}
	b.cfg.addEdge(b.current, target)
}

func (b *builder) resolveBreak(label string) (int, bool) {
	if label == "" {
		if len(b.frames) == 0 {
			return 0, false
		}
		return b.frames[len(b.frames)-1].exit, true
	}
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].label == label {
			return b.frames[i].exit, true
		}
	}
	return 0, false
}

func (b *builder) resolveContinue(label string) (int, bool) {
	if label == "" {
		for i := len(b.frames) - 1; i >= 0; i-- {
			if b.frames[i].kind == frameLoop {
				return b.frames[i].header, true
			}
		}
		return 0, false
	}
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].label == label && b.frames[i].kind == frameLoop {
			return b.frames[i].header, true
		}
	}
	return 0, false
}

// walkDoCatch processes the body, then reserves a block per catch clause and
// records a pending edge from the body's tail block to each — exceptional
// flow is approximated by these pending edges, applied once the whole
// function has been walked.
func (b *builder) walkDoCatch(s Stmt) {
	b.walkStmts(s.Body)
	bodyTail := b.current

	var catchExit *BasicBlock
	for _, clause := range s.CatchClauses {
		catchBlock := b.cfg.newBlock()
		b.pending = append(b.pending, pendingEdge{from: bodyTail, to: catchBlock.ID})

		saved := b.current
		b.current = catchBlock.ID
		b.walkStmts(clause.Body)
		if catchExit == nil {
			catchExit = b.cfg.newBlock()
		}
		b.finishTo(b.current, catchExit.ID)
		b.current = saved
	}

	if catchExit != nil {
		b.finishTo(bodyTail, catchExit.ID)
		b.current = catchExit.ID
	} else {
		b.current = bodyTail
	}
}
