package cmd

import (
	"fmt"
	"os"
	"strings"

	weave "github.com/cwbudde/weave"
	"github.com/cwbudde/weave/internal/ast"
	"github.com/cwbudde/weave/internal/instr"
	"github.com/cwbudde/weave/internal/parser"
	"github.com/spf13/cobra"
)

var (
	runEvalExpr   string
	dumpAST       bool
	dumpIR        bool
	trace         bool
	maxIterations int
	feedback      []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script from a file or inline expression",
	Long: `Execute a script from a file or inline expression.

Examples:
  # Run a script file
  weave run script.weave

  # Evaluate inline code
  weave run -e "setValue(x, 1, Wint);"

  # Dump the AST and the lowered instruction list before running
  weave run --dump-ast --dump-ir script.weave

  # Trace every instruction as it executes
  weave run --trace script.weave

  # Answer a feedback prompt (e.g. delete's confirmation) non-interactively
  weave run --feedback yes script.weave`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "dump the lowered instruction list before running")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace each instruction as it executes")
	runCmd.Flags().IntVar(&maxIterations, "max-iterations", 100000, "fail rather than loop past this many executed instructions (0 = unbounded)")
	runCmd.Flags().StringArrayVar(&feedback, "feedback", nil, "answer for a pending feedback prompt, in order; repeatable")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(runEvalExpr, args)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	if dumpAST {
		p := parser.New(input, filename)
		nodes, err := p.Parse()
		if err != nil {
			return err
		}
		fmt.Println("AST:")
		fmt.Print(ast.Dump(nodes))
		fmt.Println()
	}

	prog, err := weave.Compile(input)
	if err != nil {
		return err
	}

	if dumpIR {
		fmt.Println("Instructions:")
		fmt.Print(instr.Dump(prog.Instructions()))
		fmt.Println()
	}

	opts := []weave.Option{weave.WithMaxIterations(maxIterations)}
	if trace {
		opts = append(opts, weave.WithTrace(func(pc int, in instr.Instruction) {
			fmt.Fprintf(os.Stderr, "%4d  %s\n", pc, in)
		}))
	}

	d := weave.NewDispatcher()
	res, err := prog.Run(d, feedback, opts...)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	if res.Feedback != nil {
		options := strings.Join(res.Feedback.Options, "/")
		return fmt.Errorf("script is waiting for feedback (%s): %s\nre-run with --feedback <answer> to supply it",
			options, res.Feedback.Prompt)
	}

	if verbose || res.Message != "" {
		fmt.Println(res.Message)
	}
	if !res.Success {
		return fmt.Errorf("script finished unsuccessfully")
	}
	return nil
}
