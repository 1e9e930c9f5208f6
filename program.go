// Package weave is the embeddable facade over the compiler pipeline:
// Compile turns script text into a reusable Program, which can either be
// run to completion or stepped interactively through a Stepper.
package weave

import (
	"github.com/cwbudde/weave/internal/exec"
	"github.com/cwbudde/weave/internal/instr"
	"github.com/cwbudde/weave/internal/lowering"
	"github.com/cwbudde/weave/internal/parser"
	dispatch "github.com/cwbudde/weave/internal/weave"
)

// These aliases re-export the dispatcher package's public surface under the
// facade so callers only need to import this one package for the common
// case. Dispatcher is the command registry and feedback-aware processor;
// CommandResult and Feedback are its result and suspension types.
type (
	Dispatcher    = dispatch.Weave
	CommandResult = dispatch.CommandResult
	Feedback      = dispatch.Feedback
	Command       = dispatch.Command
	ExtensionFunc = dispatch.ExtensionFunc
)

// NewDispatcher builds a Dispatcher with an empty registry and the built-in
// commands and extensions registered.
func NewDispatcher() *Dispatcher { return dispatch.New() }

// Program is script text compiled once into a linear instruction list.
// Compiling is pure: it has no dependency on any runtime or registry state,
// so the same text always compiles to the same instructions.
type Program struct {
	source       string
	instructions []instr.Instruction
}

// Compile lexes, parses, and lowers text into a Program.
func Compile(text string) (*Program, error) {
	p := parser.New(text, "<program>")
	nodes, err := p.Parse()
	if err != nil {
		return nil, err
	}
	list, err := lowering.Lower(nodes, nil)
	if err != nil {
		return nil, err
	}
	return &Program{source: text, instructions: list}, nil
}

// Instructions returns the lowered instruction list, mainly for --dump-ir.
func (p *Program) Instructions() []instr.Instruction { return p.instructions }

// Config carries optional Program.Run/Stepper settings, built with the
// With* functions below.
type Config struct {
	maxIterations int
	tracer        func(pc int, in instr.Instruction)
}

// Option configures a Config.
type Option func(*Config)

// WithMaxIterations bounds the number of instructions Run/Stepper will step
// across their lifetime; exceeding it fails with "max iterations reached".
// 0 (the default) means unbounded.
func WithMaxIterations(n int) Option {
	return func(c *Config) { c.maxIterations = n }
}

// WithTrace installs a tracer called with the program counter and
// instruction about to execute, once for every instruction stepped
// (control-flow markers included).
func WithTrace(tracer func(pc int, in instr.Instruction)) Option {
	return func(c *Config) { c.tracer = tracer }
}

func buildConfig(opts []Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run constructs an executor and pumps it to completion against d. Whenever
// execution suspends on a feedback request, the next unused entry of
// feedbackAnswers (in order) is supplied as the response; once those are
// exhausted, Run stops and returns the pending result for the caller to
// resolve out of band (e.g. via Stepper).
func (p *Program) Run(d *Dispatcher, feedbackAnswers []string, opts ...Option) (CommandResult, error) {
	cfg := buildConfig(opts)
	e := p.newExecutor(d, cfg)

	var last CommandResult
	answerIdx := 0
	for !e.Finished() {
		input := ""
		if e.PendingFeedback() {
			if answerIdx >= len(feedbackAnswers) {
				return last, nil
			}
			input = feedbackAnswers[answerIdx]
			answerIdx++
		}
		res, err := e.ExecuteNext(input)
		if err != nil {
			return last, err
		}
		last = res
	}
	return last, nil
}

// Stepper returns an executor over the program for interactive stepping
// (tests, debuggers, or a host driving feedback round trips by hand).
func (p *Program) Stepper(d *Dispatcher, opts ...Option) *exec.Executor {
	return p.newExecutor(d, buildConfig(opts))
}

func (p *Program) newExecutor(d *Dispatcher, cfg *Config) *exec.Executor {
	e := exec.New(p.instructions, d, cfg.maxIterations)
	e.Tracer = cfg.tracer
	return e
}
