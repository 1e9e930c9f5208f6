package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		t.Fatalf("os.Pipe: %v", pipeErr)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), fnErr
}

func resetRunFlags() {
	runEvalExpr, dumpAST, dumpIR, trace, maxIterations, feedback = "", false, false, false, 100000, nil
}

func TestRunScript_InlineEval(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `setValue(x, 41, Wint); evaluate("x + 1", result); getValue(result);`

	output, err := captureStdout(t, func() error { return runScript(runCmd, nil) })
	if err != nil {
		t.Fatalf("runScript: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "42") {
		t.Errorf("expected output to contain 42, got %q", output)
	}
}

func TestRunScript_FileWithDumpIR(t *testing.T) {
	defer resetRunFlags()
	dumpIR = true

	dir := t.TempDir()
	path := filepath.Join(dir, "script.weave")
	src := `setValue(i, 0, Wint); do { i = i + 1; } while (i < 3); getValue(i);`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	output, err := captureStdout(t, func() error { return runScript(runCmd, []string{path}) })
	if err != nil {
		t.Fatalf("runScript: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Do_Open") {
		t.Errorf("expected instruction dump to mention Do_Open, got %q", output)
	}
	if !strings.Contains(output, "3") {
		t.Errorf("expected final getValue(i) result 3, got %q", output)
	}
}

func TestRunScript_PendingFeedbackIsReportedAsError(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `delete("myfile.txt");`

	output, err := captureStdout(t, func() error { return runScript(runCmd, nil) })
	if err == nil {
		t.Fatalf("expected an error reporting the pending feedback prompt, output: %q", output)
	}
	if !strings.Contains(err.Error(), "waiting for feedback") {
		t.Errorf("expected error to mention the pending feedback, got %v", err)
	}
}

func TestRunScript_FeedbackFlagResumesExecution(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `delete("myfile.txt");`
	feedback = []string{"yes"}

	output, err := captureStdout(t, func() error { return runScript(runCmd, nil) })
	if err != nil {
		t.Fatalf("runScript: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "deleted myfile.txt") {
		t.Errorf("expected confirmation of deletion, got %q", output)
	}
}
