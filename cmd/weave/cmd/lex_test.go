package cmd

import (
	"strings"
	"testing"
)

func resetLexFlags() {
	lexEvalExpr, lexShowPos = "", false
}

func TestLexScript_InlineEval(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = `setValue(x, 1, Wint);`

	output, err := captureStdout(t, func() error { return lexScript(lexCmd, nil) })
	if err != nil {
		t.Fatalf("lexScript: %v", err)
	}
	if !strings.Contains(output, `"setValue"`) {
		t.Errorf("expected identifier token for setValue, got %q", output)
	}
	if !strings.Contains(output, "EOF") {
		t.Errorf("expected a trailing EOF token, got %q", output)
	}
}

func TestLexScript_ShowPos(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = `x`
	lexShowPos = true

	output, err := captureStdout(t, func() error { return lexScript(lexCmd, nil) })
	if err != nil {
		t.Fatalf("lexScript: %v", err)
	}
	if !strings.Contains(output, "@1:1") {
		t.Errorf("expected position annotation @1:1, got %q", output)
	}
}
