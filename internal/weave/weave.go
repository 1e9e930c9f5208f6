// Package weave implements the command registry and dispatcher: it parses a
// single command-invocation string, routes it to a registered
// command, applies post-extensions, and manages the pending-feedback slot
// that suspends execution across a user round trip.
package weave

import (
	"strconv"

	"golang.org/x/text/cases"

	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/value"
)

var foldCaser = cases.Fold()

func fold(s string) string { return foldCaser.String(s) }

// Runtime is the shared state every command and extension operates against:
// the variable registry. The evaluator is stateless, so it is called
// directly against Registry rather than threaded through Runtime.
type Runtime struct {
	Registry *value.Registry
}

// CommandResult is the boundary result shape: a success flag, a message, an
// optional typed value, and an optional feedback request.
type CommandResult struct {
	Success              bool
	Message              string
	HasValue             bool
	Value                value.Value
	RequiresConfirmation bool
	Feedback             *Feedback
}

// Feedback is a pending continuation: a prompt, the accepted option strings,
// an opaque request id assigned when the dispatcher stores it, and a
// closure that turns a user response into the next CommandResult.
type Feedback struct {
	Prompt    string
	Options   []string
	RequestID string
	Continue  func(input string) CommandResult
}

// Command is a registered, namespaced unit invocable from script text.
// ArgCount is the expected argument count, or -1 for a variable count
// (e.g. evaluate's optional store_key). InvokeExtension handles a
// command-local extension name not claimed by a global extension; it
// returns ok=false when the command does not recognize ext.
type Command struct {
	Namespace       string
	Name            string
	ArgCount        int
	Execute         func(rt *Runtime, args []string) CommandResult
	InvokeExtension func(rt *Runtime, ext string, extArgs []string, args []string) (CommandResult, bool)
}

// ExtensionFunc is a global extension: given a replay closure that
// re-executes the original command, it post-processes the result.
type ExtensionFunc func(rt *Runtime, replay func() CommandResult, extArgs []string) CommandResult

// Weave is the dispatcher: command table, extension table, runtime, and the
// single pending-feedback slot.
type Weave struct {
	runtime    *Runtime
	commands   map[string]*Command
	order      []string // registration order, for list()
	extensions map[string]ExtensionFunc
	pending    *Feedback
	nextReqID  int
}

// New creates a Weave with an empty registry and the built-in commands and
// extensions (setValue/getValue/deleteValue/memory/list/help/evaluate/delete
// and the store extension) registered.
func New() *Weave {
	w := &Weave{
		runtime:    &Runtime{Registry: value.NewRegistry()},
		commands:   make(map[string]*Command),
		extensions: make(map[string]ExtensionFunc),
	}
	registerBuiltins(w)
	return w
}

// Runtime exposes the shared registry, e.g. for a host constructing a
// Program around the same variable store.
func (w *Weave) Runtime() *Runtime { return w.runtime }

// Pending reports the currently suspended feedback request, if any.
func (w *Weave) Pending() *Feedback { return w.pending }

func commandKey(ns, name string) string {
	if ns == "" {
		return fold(name)
	}
	return fold(ns) + ":" + fold(name)
}

// Register adds cmd to the command table, keyed by (namespace, name),
// both case-insensitive. A later registration with the same key replaces
// the earlier one.
func (w *Weave) Register(cmd *Command) {
	key := commandKey(cmd.Namespace, cmd.Name)
	if _, exists := w.commands[key]; !exists {
		w.order = append(w.order, key)
	}
	w.commands[key] = cmd
}

// RegisterExtension adds a global extension, keyed case-insensitively by
// name.
func (w *Weave) RegisterExtension(name string, fn ExtensionFunc) {
	w.extensions[fold(name)] = fn
}

// Commands returns every registered command in registration order, for the
// list() built-in.
func (w *Weave) Commands() []*Command {
	out := make([]*Command, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, w.commands[key])
	}
	return out
}

func (w *Weave) lookup(ns, name string) (*Command, bool) {
	cmd, ok := w.commands[commandKey(ns, name)]
	return cmd, ok
}

func (w *Weave) storeFeedback(fb *Feedback) {
	w.nextReqID++
	fb.RequestID = "fb-" + strconv.Itoa(w.nextReqID)
	w.pending = fb
}

// Process runs the input-processing pipeline:
//
//  1. While a feedback request is pending, ALL input is routed to its
//     continuation (not just input literally equal to one of its listed
//     options) — the continuation decides what an off-menu reply means,
//     which is what lets an unrecognized response (e.g. "maybe" to a
//     delete confirmation) re-prompt with a fresh feedback request instead
//     of being rejected by the dispatcher before the command ever sees it.
//  2. Otherwise the text is parsed as an invocation, resolved, and executed,
//     with extensions applied and any new feedback request stored.
func (w *Weave) Process(input string) CommandResult {
	if w.pending != nil {
		fb := w.pending
		w.pending = nil
		res := fb.Continue(input)
		if res.Feedback != nil {
			w.storeFeedback(res.Feedback)
		}
		return res
	}

	ns, name, args, ext, extArgs, err := parseInvocation(input)
	if err != nil {
		return failResult(compileerr.Syntax, "%v", err)
	}

	cmd, ok := w.lookup(ns, name)
	if !ok {
		return failResult(compileerr.UnknownCommand, "unknown command %s", qualify(ns, name))
	}

	execute := func() CommandResult { return cmd.Execute(w.runtime, args) }

	var res CommandResult
	switch {
	case ext == "":
		res = execute()
	default:
		if extFn, ok := w.extensions[fold(ext)]; ok {
			res = extFn(w.runtime, execute, extArgs)
		} else if cmd.InvokeExtension != nil {
			r, handled := cmd.InvokeExtension(w.runtime, ext, extArgs, args)
			if !handled {
				return failResult(compileerr.UnknownExtension, "unknown extension %s", ext)
			}
			res = r
		} else {
			return failResult(compileerr.UnknownExtension, "unknown extension %s", ext)
		}
	}

	if res.Feedback != nil {
		w.storeFeedback(res.Feedback)
	}
	return res
}

func failResult(kind compileerr.Kind, format string, args ...any) CommandResult {
	return CommandResult{Success: false, Message: compileerr.New(kind, format, args...).Error()}
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + ":" + name
}
