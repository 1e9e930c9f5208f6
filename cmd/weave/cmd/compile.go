package cmd

import (
	"fmt"

	weave "github.com/cwbudde/weave"
	"github.com/cwbudde/weave/internal/instr"
	"github.com/spf13/cobra"
)

var compileEvalExpr string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a script and print its lowered instruction list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileEvalExpr, "eval", "e", "", "compile inline code instead of reading from file")
}

func compileScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(compileEvalExpr, args)
	if err != nil {
		return err
	}

	prog, err := weave.Compile(input)
	if err != nil {
		return err
	}

	fmt.Print(instr.Dump(prog.Instructions()))
	return nil
}
