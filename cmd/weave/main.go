// Command weave is the CLI front end over the weave package: lex, parse,
// compile, and run scripts from a file or inline text.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/weave/cmd/weave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
