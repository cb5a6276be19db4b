package dsl

import "strings"

type builtinResult struct {
	value Value
	err   error
}

// builtinCall evaluates a handful of small stdlib-ish functions the script
// grammar's expression language implies it needs (string/array helpers for
// the for-range and template-building idioms) without giving the DSL its
// own import system. Returns ok=false if name isn't a builtin, so the
// caller falls through to user-defined functions and aliases.
func builtinCall(name string, argExprs []Expr, r *Runner, env *Env) (builtinResult, bool) {
	switch name {
	case "len", "abs", "str", "int", "upper", "lower", "contains", "split", "join":
	default:
		return builtinResult{}, false
	}

	args := make([]Value, len(argExprs))
	for i, a := range argExprs {
		v, err := r.evalExpr(a, env)
		if err != nil {
			return builtinResult{err: err}, true
		}
		args[i] = v
	}

	switch name {
	case "len":
		switch v := args[0].(type) {
		case []Value:
			return builtinResult{value: len(v)}, true
		case string:
			return builtinResult{value: len([]rune(v))}, true
		}
		return builtinResult{err: newError(KindEvalError, 0, "len: unsupported type")}, true
	case "abs":
		n, err := asInt(args[0])
		if err != nil {
			return builtinResult{err: err}, true
		}
		if n < 0 {
			n = -n
		}
		return builtinResult{value: n}, true
	case "str":
		return builtinResult{value: asString(args[0])}, true
	case "int":
		n, err := asInt(args[0])
		return builtinResult{value: n, err: err}, true
	case "upper":
		return builtinResult{value: strings.ToUpper(asString(args[0]))}, true
	case "lower":
		return builtinResult{value: strings.ToLower(asString(args[0]))}, true
	case "contains":
		return builtinResult{value: strings.Contains(asString(args[0]), asString(args[1]))}, true
	case "split":
		parts := strings.Split(asString(args[0]), asString(args[1]))
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return builtinResult{value: out}, true
	case "join":
		arr, ok := args[0].([]Value)
		if !ok {
			return builtinResult{err: newError(KindEvalError, 0, "join: first argument must be an array")}, true
		}
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = asString(v)
		}
		return builtinResult{value: strings.Join(parts, asString(args[1]))}, true
	}
	return builtinResult{}, false
}
