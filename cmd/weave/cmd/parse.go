package cmd

import (
	"fmt"

	"github.com/cwbudde/weave/internal/ast"
	"github.com/cwbudde/weave/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	p := parser.New(input, filename)
	nodes, err := p.Parse()
	if err != nil {
		return err
	}

	fmt.Print(ast.Dump(nodes))
	return nil
}
