// Package compileerr provides the closed set of error kinds used across the
// lexer, parser, lowering, evaluator, dispatcher and executor, and formats
// them with source context the way a compiler front end's diagnostics do.
package compileerr

import (
	"fmt"
	"strings"

	"github.com/cwbudde/weave/internal/token"
)

// Kind identifies one of the closed set of ways evaluation, lowering, or
// execution can fail.
type Kind string

const (
	Syntax               Kind = "syntax"
	UnsupportedExpr      Kind = "unsupported_expression"
	UnknownLabel         Kind = "unknown_label"
	UnknownCommand       Kind = "unknown_command"
	UnknownExtension     Kind = "unknown_extension"
	InvalidValue         Kind = "invalid_value"
	MaxIterations        Kind = "max_iterations"
	MissingFeedbackInput Kind = "missing_feedback_input"
	CommandFailed        Kind = "command_failed"
)

// Error is a single failure with an error Kind, a message, and optionally a
// source position (lex/parse errors have one; dispatcher/executor errors
// raised at run time generally do not).
type Error struct {
	Kind    Kind
	Message string
	File    string
	Source  string
	Pos     token.Position
	HasPos  bool
}

// New creates a positionless Error, for failures that originate after
// compilation (unknown command, unknown label, max iterations, ...).
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAt creates an Error carrying a source position, for lex/parse failures.
func NewAt(kind Kind, pos token.Position, source, file, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Source:  source,
		Pos:     pos,
		HasPos:  true,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Format()
}

// Format renders the error with a file:line:column header, the offending
// source line, and a caret.
// Errors with no position (HasPos == false) render just "kind: message".
func (e *Error) Format() string {
	if !e.HasPos {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
