package weave

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/eval"
	"github.com/cwbudde/weave/internal/value"
)

// registerBuiltins installs the commands and extensions every Weave needs:
// list, help, the four registry commands, evaluate, the delete example
// (which exercises the feedback round trip), and the store global
// extension.
func registerBuiltins(w *Weave) {
	w.Register(&Command{Name: "list", ArgCount: 0, Execute: builtinList(w)})
	w.Register(&Command{Name: "help", ArgCount: 1, Execute: builtinHelp(w)})
	w.Register(&Command{Name: "setValue", ArgCount: 3, Execute: builtinSetValue})
	w.Register(&Command{Name: "getValue", ArgCount: 1, Execute: builtinGetValue})
	w.Register(&Command{Name: "deleteValue", ArgCount: 1, Execute: builtinDeleteValue})
	w.Register(&Command{Name: "memory", ArgCount: 0, Execute: builtinMemory})
	w.Register(&Command{Name: "evaluate", ArgCount: -1, Execute: builtinEvaluate})
	w.Register(&Command{Name: "delete", ArgCount: 1, Execute: builtinDelete})

	w.RegisterExtension("store", storeExtension)
}

func builtinList(w *Weave) func(rt *Runtime, args []string) CommandResult {
	return func(rt *Runtime, args []string) CommandResult {
		cmds := w.Commands()
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, qualify(c.Namespace, c.Name))
		}
		sort.Strings(names)
		return CommandResult{Success: true, Message: strings.Join(names, ", ")}
	}
}

func builtinHelp(w *Weave) func(rt *Runtime, args []string) CommandResult {
	return func(rt *Runtime, args []string) CommandResult {
		if len(args) != 1 {
			return CommandResult{Success: false, Message: "help expects exactly one argument: the command name"}
		}
		ns, name := "", args[0]
		if colon := strings.IndexByte(name, ':'); colon >= 0 {
			ns, name = name[:colon], name[colon+1:]
		}
		cmd, ok := w.lookup(ns, name)
		if !ok {
			return CommandResult{Success: false, Message: fmt.Sprintf("unknown command %s", args[0])}
		}
		argDesc := "variable argument count"
		if cmd.ArgCount >= 0 {
			argDesc = fmt.Sprintf("%d argument(s)", cmd.ArgCount)
		}
		return CommandResult{
			Success: true,
			Message: fmt.Sprintf("%s: %s", qualify(cmd.Namespace, cmd.Name), argDesc),
		}
	}
}

func builtinSetValue(rt *Runtime, args []string) CommandResult {
	if len(args) != 3 {
		return CommandResult{Success: false, Message: "setValue expects (key, text, type)"}
	}
	key, text, typeName := args[0], args[1], args[2]
	tag, ok := value.TagFromName(typeName)
	if !ok {
		return failResult(compileerr.InvalidValue, "unknown value type %q", typeName)
	}
	v, err := value.Parse(tag, text)
	if err != nil {
		return failResult(compileerr.InvalidValue, "%v", err)
	}
	rt.Registry.Set(key, v)
	return CommandResult{Success: true, Message: fmt.Sprintf("registered %s", key), HasValue: true, Value: v}
}

func builtinGetValue(rt *Runtime, args []string) CommandResult {
	if len(args) != 1 {
		return CommandResult{Success: false, Message: "getValue expects (key)"}
	}
	v, ok := rt.Registry.Get(args[0])
	if !ok {
		return CommandResult{Success: false, Message: fmt.Sprintf("%s not found", args[0])}
	}
	return CommandResult{Success: true, Message: v.Display(), HasValue: true, Value: v}
}

func builtinDeleteValue(rt *Runtime, args []string) CommandResult {
	if len(args) != 1 {
		return CommandResult{Success: false, Message: "deleteValue expects (key)"}
	}
	if !rt.Registry.Remove(args[0]) {
		return CommandResult{Success: false, Message: fmt.Sprintf("%s not found", args[0])}
	}
	return CommandResult{Success: true, Message: fmt.Sprintf("deleted %s", args[0])}
}

func builtinMemory(rt *Runtime, args []string) CommandResult {
	entries := rt.Registry.Enumerate()
	if len(entries) == 0 {
		return CommandResult{Success: true, Message: "memory is empty"}
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s = %s (%s)", e.Name, e.Value.Display(), e.Value.Tag()))
	}
	return CommandResult{Success: true, Message: strings.Join(lines, "\n")}
}

func builtinEvaluate(rt *Runtime, args []string) CommandResult {
	if len(args) != 1 && len(args) != 2 {
		return CommandResult{Success: false, Message: "evaluate expects (expr [, store_key])"}
	}
	expr := args[0]

	var display string
	var result value.Value
	if eval.IsBooleanExpression(expr) {
		b, err := eval.EvaluateBoolean(expr, rt.Registry)
		if err != nil {
			return CommandResult{Success: false, Message: err.Error()}
		}
		result = value.NewBool(b)
		display = eval.DisplayBoolean(b)
	} else {
		f, err := eval.EvaluateNumeric(expr, rt.Registry)
		if err != nil {
			return CommandResult{Success: false, Message: err.Error()}
		}
		result = value.NewDouble(f)
		display = eval.DisplayNumeric(f)
	}

	if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
		rt.Registry.Set(args[1], result)
	}
	return CommandResult{Success: true, Message: display, HasValue: true, Value: result}
}

// builtinDelete requests deletion of a path and always asks for confirmation
// first. "cancel" and "no" both resolve to the same "cancelled" outcome;
// anything else re-prompts with the same option set.
func builtinDelete(rt *Runtime, args []string) CommandResult {
	if len(args) != 1 {
		return CommandResult{Success: false, Message: "delete expects (path)"}
	}
	path := args[0]
	return deleteConfirmation(path)
}

func deleteConfirmation(path string) CommandResult {
	prompt := fmt.Sprintf("delete %q? (yes/no/cancel)", path)
	options := []string{"yes", "no", "cancel"}

	var continuation func(string) CommandResult
	continuation = func(input string) CommandResult {
		switch {
		case strings.EqualFold(input, "yes"):
			return CommandResult{Success: true, Message: fmt.Sprintf("deleted %s", path)}
		case strings.EqualFold(input, "no"), strings.EqualFold(input, "cancel"):
			return CommandResult{Success: false, Message: "cancelled"}
		default:
			return CommandResult{
				Success: false,
				Message: fmt.Sprintf("unrecognized response %q", input),
				Feedback: &Feedback{
					Prompt:   prompt,
					Options:  options,
					Continue: continuation,
				},
			}
		}
	}

	return CommandResult{
		Success:              true,
		RequiresConfirmation: true,
		Message:              prompt,
		Feedback: &Feedback{
			Prompt:   prompt,
			Options:  options,
			Continue: continuation,
		},
	}
}

func storeExtension(rt *Runtime, replay func() CommandResult, extArgs []string) CommandResult {
	res := replay()
	if !res.Success || !res.HasValue {
		return res
	}
	key := "result"
	if len(extArgs) > 0 && strings.TrimSpace(extArgs[0]) != "" {
		key = extArgs[0]
	}
	rt.Registry.Set(key, res.Value)
	return res
}
