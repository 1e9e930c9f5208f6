package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/weave/internal/lexer"
	"github.com/cwbudde/weave/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	lexShowPos  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script file or expression",
	Long: `Tokenize a script and print the resulting tokens, one per line.

Examples:
  weave lex script.weave
  weave lex -e "setValue(x, 1, Wint);"
  weave lex --show-pos script.weave`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	count := 0
	for {
		tok := l.Next()
		printToken(tok)
		count++
		if tok.Kind == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", count)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-10s] %q", tok.Kind, tok.Literal)
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}

// readInput resolves a command's input either from an inline -e/--eval
// string or from the single positional file argument. The inline string
// takes precedence when both are given; supplying neither is an error.
func readInput(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline code")
}
