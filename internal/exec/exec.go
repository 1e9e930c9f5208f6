// Package exec implements the stepping executor: a program counter over a
// lowered internal/instr list, with a label map for
// goto/label, a single-integer do-stack for do-while back-edges, and
// delegation of every command-bearing instruction to internal/weave.
package exec

import (
	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/eval"
	"github.com/cwbudde/weave/internal/instr"
	"github.com/cwbudde/weave/internal/weave"
)

// Executor steps through a lowered instruction list one CommandResult at a
// time. It is single-threaded and cooperative: the only suspension point is
// a pending feedback request, handled by requiring execute_next's
// feedbackInput argument until the dispatcher clears it.
type Executor struct {
	instructions []instr.Instruction
	w            *weave.Weave

	pc       int
	labelMap map[string]int
	doStack  []int

	// ifEndSkip maps the index of an If_End instruction, reached by
	// executing straight through its then-branch, to the pc that skips past
	// any following else block. Else_Open otherwise advances unconditionally
	// in straight-line flow, which on its own would run the else body right
	// after a taken then branch; this table is how the executor avoids that
	// (see DESIGN.md).
	ifEndSkip map[int]int

	pendingFeedback bool
	maxIterations   int // 0 = unbounded
	iterations      int

	// Tracer, if set, is called with the program counter and instruction
	// about to execute, once for every instruction stepped (control-flow
	// markers included).
	Tracer func(pc int, in instr.Instruction)
}

// New constructs an Executor over instructions, running commands through w.
// maxIterations bounds the number of instructions stepped across the
// lifetime of the executor; 0 means unbounded.
func New(instructions []instr.Instruction, w *weave.Weave, maxIterations int) *Executor {
	e := &Executor{
		instructions:  instructions,
		w:             w,
		labelMap:      make(map[string]int),
		maxIterations: maxIterations,
	}
	e.buildLabelMap()
	e.buildIfEndSkip()
	return e
}

func (e *Executor) buildLabelMap() {
	for i, in := range e.instructions {
		if in.Category == instr.Label {
			e.labelMap[in.Payload] = i
		}
	}
}

// buildIfEndSkip finds, for every If_End, the pc to use when the then-branch
// was taken: the instruction right after If_End if no else follows, or
// right after the matching Else_End if one does. Else_Open/Else_End are
// always properly nested relative to each other, so a simple depth count
// over just those two categories finds the match even across nested
// if/else trees in between.
func (e *Executor) buildIfEndSkip() {
	e.ifEndSkip = make(map[int]int)
	for i, in := range e.instructions {
		if in.Category != instr.IfEnd {
			continue
		}
		skip := i + 1
		if skip < len(e.instructions) && e.instructions[skip].Category == instr.ElseOpen {
			depth := 1
			j := skip + 1
			for depth > 0 && j < len(e.instructions) {
				switch e.instructions[j].Category {
				case instr.ElseOpen:
					depth++
				case instr.ElseEnd:
					depth--
				}
				j++
			}
			skip = j
		}
		e.ifEndSkip[i] = skip
	}
}

// Finished reports whether the program counter has run off the end of the
// instruction list with no feedback pending.
func (e *Executor) Finished() bool {
	return !e.pendingFeedback && e.pc >= len(e.instructions)
}

// PendingFeedback reports whether the next ExecuteNext call must be given a
// feedback response rather than advancing normally.
func (e *Executor) PendingFeedback() bool { return e.pendingFeedback }

// PC returns the current program counter, mostly useful for tests and
// interactive steppers.
func (e *Executor) PC() int { return e.pc }

func trivialSuccess() weave.CommandResult {
	return weave.CommandResult{Success: true}
}

// ExecuteNext advances the program by exactly one observable step and
// returns the CommandResult it produced. feedbackInput is required (and
// only meaningful) when a feedback request is currently pending; it is
// ignored otherwise.
func (e *Executor) ExecuteNext(feedbackInput string) (weave.CommandResult, error) {
	if e.pendingFeedback {
		if feedbackInput == "" {
			return weave.CommandResult{}, compileerr.New(compileerr.MissingFeedbackInput,
				"a feedback response is required before execution can continue")
		}
		res := e.w.Process(feedbackInput)
		if res.Feedback == nil {
			e.pendingFeedback = false
		}
		return res, nil
	}

	for {
		if e.pc >= len(e.instructions) {
			return trivialSuccess(), nil
		}
		if err := e.tick(); err != nil {
			return weave.CommandResult{}, err
		}

		in := e.instructions[e.prevPC()]
		if e.Tracer != nil {
			e.Tracer(e.prevPC(), in)
		}
		switch in.Category {
		case instr.Label, instr.IfOpen, instr.ElseOpen, instr.ElseEnd, instr.DoEnd:
			continue // pure markers: synthesize nothing observable, keep stepping
		case instr.DoOpen:
			e.doStack = append(e.doStack, e.pc) // pc already advanced past Do_Open: this is the loop body's start
			continue
		case instr.Goto:
			if err := e.stepGoto(in); err != nil {
				return weave.CommandResult{}, err
			}
			continue
		case instr.IfEnd:
			e.pc = e.ifEndSkip[e.prevPC()]
			continue
		case instr.IfCondition:
			if err := e.stepIfCondition(in); err != nil {
				return weave.CommandResult{}, err
			}
			continue
		case instr.WhileCondition:
			if err := e.stepWhileCondition(in); err != nil {
				return weave.CommandResult{}, err
			}
			continue
		case instr.Command, instr.CommandRewrite, instr.Assignment:
			res := e.w.Process(in.Payload)
			if res.Feedback != nil {
				e.pendingFeedback = true
			}
			return res, nil
		default:
			return weave.CommandResult{}, compileerr.New(compileerr.UnsupportedExpr,
				"executor: unrecognized instruction category %v", in.Category)
		}
	}
}

// tick advances pc by one and enforces the optional iteration cap.
func (e *Executor) tick() error {
	e.iterations++
	if e.maxIterations > 0 && e.iterations > e.maxIterations {
		return compileerr.New(compileerr.MaxIterations, "max iterations reached (%d)", e.maxIterations)
	}
	e.pc++
	return nil
}

func (e *Executor) prevPC() int { return e.pc - 1 }

func (e *Executor) stepGoto(in instr.Instruction) error {
	target, ok := e.labelMap[in.Payload]
	if !ok {
		return compileerr.New(compileerr.UnknownLabel, "unknown label %q", in.Payload)
	}
	e.pc = target + 1
	return nil
}

func (e *Executor) stepIfCondition(in instr.Instruction) error {
	cond, err := eval.EvaluateBoolean(in.Payload, e.w.Runtime().Registry)
	if err != nil {
		return err
	}
	if cond {
		return nil // already advanced past If_Condition by tick; fall into If_Open
	}
	return e.skipToElseOrEnd(e.prevPC())
}

// skipToElseOrEnd scans forward from an If_Condition whose test was false,
// counting nested If_Open/If_End pairs, and lands the pc just past the
// matching If_End — i.e. at the following Else_Open if present, or at
// whatever comes after the if statement otherwise.
func (e *Executor) skipToElseOrEnd(ifConditionIdx int) error {
	depth := 0
	for i := ifConditionIdx + 1; i < len(e.instructions); i++ {
		switch e.instructions[i].Category {
		case instr.IfOpen:
			depth++
		case instr.IfEnd:
			depth--
			if depth == 0 {
				e.pc = i + 1
				return nil
			}
		}
	}
	return compileerr.New(compileerr.UnsupportedExpr, "executor: unmatched If_Condition at %d", ifConditionIdx)
}

func (e *Executor) stepWhileCondition(in instr.Instruction) error {
	if len(e.doStack) == 0 {
		return nil // malformed program: no enclosing do; advance past rather than panic
	}
	top := e.doStack[len(e.doStack)-1]
	cond, err := eval.EvaluateBoolean(in.Payload, e.w.Runtime().Registry)
	if err != nil {
		return err
	}
	if cond {
		e.pc = top // peek: re-enter the loop body, don't pop
		return nil
	}
	e.doStack = e.doStack[:len(e.doStack)-1]
	return nil // already advanced past While_Condition by tick
}
