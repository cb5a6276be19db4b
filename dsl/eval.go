package dsl

import (
	"fmt"
	"strconv"

	"github.com/dlclark/regexp2"
	"github.com/vicut/vicut/exsub"
)

// Value is a script-level dynamic value: int, bool, string, []Value, or a
// compiled *regexp2.Regexp for regex literals.
type Value = any

// Env is a lexically chained variable scope.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a scope nested under parent (nil for the global scope).
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

func (e *Env) get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// define always binds name in this exact scope (used by `let` and params).
func (e *Env) define(name string, v Value) { e.vars[name] = v }

// assign rebinds name in whichever ancestor scope already defines it,
// falling back to defining it in the current scope if none does.
func (e *Env) assign(name string, v Value) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

func truthy(v Value) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case string:
		return x != ""
	case []Value:
		return len(x) > 0
	case nil:
		return false
	}
	return true
}

func asInt(v Value) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, newError(KindEvalError, 0, "not an integer: "+x)
		}
		return n, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, newError(KindEvalError, 0, fmt.Sprintf("not an integer: %v", v))
}

func asString(v Value) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case *regexp2.Regexp:
		return x.String()
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func valuesEqual(a, b Value) bool {
	ai, aok := a.(int)
	bi, bok := b.(int)
	if aok && bok {
		return ai == bi
	}
	return asString(a) == asString(b)
}

// evalExpr evaluates e against env, dispatching function calls through the
// Runner's function/builtin table.
func (r *Runner) evalExpr(e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *IntLit:
		return n.Value, nil
	case *BoolLit:
		return n.Value, nil
	case *StringLit:
		return n.Value, nil
	case *RegexLit:
		re, err := exsub.CompilePattern(n.Pattern, exsub.Flags{})
		if err != nil {
			return nil, err
		}
		return re, nil
	case *ArrayLit:
		out := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := r.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *VarExpr:
		v, ok := env.get(n.Name)
		if !ok {
			return nil, newError(KindEvalError, 0, "undefined variable $"+n.Name)
		}
		return v, nil
	case *IndexExpr:
		arrV, err := r.evalExpr(n.Array, env)
		if err != nil {
			return nil, err
		}
		idxV, err := r.evalExpr(n.Index, env)
		if err != nil {
			return nil, err
		}
		idx, err := asInt(idxV)
		if err != nil {
			return nil, err
		}
		switch a := arrV.(type) {
		case []Value:
			if idx < 0 || idx >= len(a) {
				return nil, newError(KindEvalError, 0, "array index out of range")
			}
			return a[idx], nil
		case string:
			rs := []rune(a)
			if idx < 0 || idx >= len(rs) {
				return nil, newError(KindEvalError, 0, "string index out of range")
			}
			return string(rs[idx]), nil
		}
		return nil, newError(KindEvalError, 0, "value is not indexable")
	case *UnaryExpr:
		v, err := r.evalExpr(n.Operand, env)
		if err != nil {
			return nil, err
		}
		if n.Op == "!" {
			return !truthy(v), nil
		}
		i, err := asInt(v)
		if err != nil {
			return nil, err
		}
		return -i, nil
	case *TernaryExpr:
		c, err := r.evalExpr(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if truthy(c) {
			return r.evalExpr(n.Then, env)
		}
		return r.evalExpr(n.Else, env)
	case *BinaryExpr:
		return r.evalBinary(n, env)
	case *CallExpr:
		return r.evalCall(n, env)
	}
	return nil, newError(KindEvalError, 0, "unhandled expression node")
}

func (r *Runner) evalBinary(n *BinaryExpr, env *Env) (Value, error) {
	if n.Op == "&&" {
		l, err := r.evalExpr(n.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return false, nil
		}
		rv, err := r.evalExpr(n.Right, env)
		if err != nil {
			return nil, err
		}
		return truthy(rv), nil
	}
	if n.Op == "||" {
		l, err := r.evalExpr(n.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return true, nil
		}
		rv, err := r.evalExpr(n.Right, env)
		if err != nil {
			return nil, err
		}
		return truthy(rv), nil
	}

	lv, err := r.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	rv, err := r.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return valuesEqual(lv, rv), nil
	case "!=":
		return !valuesEqual(lv, rv), nil
	case "+":
		if ls, ok := lv.(string); ok {
			return ls + asString(rv), nil
		}
		if rs, ok := rv.(string); ok {
			return asString(lv) + rs, nil
		}
	}

	li, err1 := asInt(lv)
	ri, err2 := asInt(rv)
	if err1 != nil || err2 != nil {
		return nil, newError(KindEvalError, 0, "operator "+n.Op+" needs numeric operands")
	}
	switch n.Op {
	case "+":
		return li + ri, nil
	case "-":
		return li - ri, nil
	case "*":
		return li * ri, nil
	case "/":
		if ri == 0 {
			return nil, newError(KindEvalError, 0, "division by zero")
		}
		return li / ri, nil
	case "%":
		if ri == 0 {
			return nil, newError(KindEvalError, 0, "division by zero")
		}
		return li % ri, nil
	case "**":
		out := 1
		for i := 0; i < ri; i++ {
			out *= li
		}
		return out, nil
	case "<":
		return li < ri, nil
	case ">":
		return li > ri, nil
	case "<=":
		return li <= ri, nil
	case ">=":
		return li >= ri, nil
	}
	return nil, newError(KindEvalError, 0, "unknown operator "+n.Op)
}
