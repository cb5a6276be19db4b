// Package dsl implements the script front-end (§4.9): a lexer and parser
// for the scripting grammar, a tree-walking expression evaluator, and a
// Runner that interprets the resulting AST directly against a
// vimotion.Interp and record.Builder — the DSL's control flow (if/while/
// for/def/repeat with a dynamic count) is too dynamic to lower to the
// fixed-shape program.Program ahead of time, so the Runner drives the same
// primitives program.Run drives, one statement at a time, instead of first
// compiling to a static instruction list.
package dsl

import (
	"github.com/vicut/vicut/buffer"
	"github.com/vicut/vicut/exsub"
	"github.com/vicut/vicut/record"
	"github.com/vicut/vicut/register"
	"github.com/vicut/vicut/vimotion"
)

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

type ctrl struct {
	kind ctrlKind
	ret  Value
}

// Runner interprets a parsed script against a shared register file,
// switching which buffer's interpreter is "current" via the buf
// statements while registers stay process-local across the switch (§3:
// "Registers are process-local for the invocation").
type Runner struct {
	regs *register.File
	rb   *record.Builder

	interp   *vimotion.Interp
	bufs     map[string]*vimotion.Interp
	curBufID string
	nextBufN int

	bufStack []*vimotion.Interp

	funcs   map[string]*DefStmt
	aliases map[string]*AliasStmt
	opts    map[string]Value

	globals *Env // the top-level scope Run creates, where every def is declared

	tabWidth int
}

// NewRunner builds a Runner whose initial buffer is ip.
func NewRunner(ip *vimotion.Interp, regs *register.File, rb *record.Builder, tabWidth int) *Runner {
	r := &Runner{
		regs:     regs,
		rb:       rb,
		interp:   ip,
		bufs:     map[string]*vimotion.Interp{"0": ip},
		curBufID: "0",
		nextBufN: 1,
		funcs:    make(map[string]*DefStmt),
		aliases:  make(map[string]*AliasStmt),
		opts:     make(map[string]Value),
		tabWidth: tabWidth,
	}
	return r
}

// Opts returns the evaluated entries of the script's `opts { … }` prelude,
// if any.
func (r *Runner) Opts() map[string]Value { return r.opts }

// Run interprets stmts top to bottom in the global scope.
func (r *Runner) Run(stmts []Stmt) error {
	env := NewEnv(nil)
	r.globals = env
	for _, s := range stmts {
		if d, ok := s.(*DefStmt); ok {
			r.funcs[d.Name] = d
		}
		if a, ok := s.(*AliasStmt); ok {
			r.aliases[a.Name] = a
		}
	}
	_, err := r.execBlock(stmts, env)
	return err
}

func (r *Runner) execBlock(stmts []Stmt, env *Env) (ctrl, error) {
	for _, s := range stmts {
		c, err := r.execStmt(s, env)
		if err != nil {
			return ctrl{}, err
		}
		if c.kind != ctrlNone {
			return c, nil
		}
	}
	return ctrl{}, nil
}

func (r *Runner) execStmt(s Stmt, env *Env) (ctrl, error) {
	switch n := s.(type) {
	case *OptsStmt:
		for k, v := range n.Values {
			r.opts[k] = v
		}
		return ctrl{}, nil

	case *LetStmt:
		v, err := r.evalExpr(n.Value, env)
		if err != nil {
			return ctrl{}, err
		}
		env.define(n.Name, v)
		return ctrl{}, nil

	case *AssignStmt:
		return ctrl{}, r.execAssign(n, env)

	case *IfStmt:
		return r.execIf(n, env)

	case *WhileStmt:
		for {
			c, err := r.evalExpr(n.Cond, env)
			if err != nil {
				return ctrl{}, err
			}
			if !truthy(c) {
				break
			}
			sig, err := r.execBlock(n.Body, env)
			if err != nil {
				return ctrl{}, err
			}
			if sig.kind == ctrlBreak {
				break
			}
			if sig.kind == ctrlReturn {
				return sig, nil
			}
		}
		return ctrl{}, nil

	case *UntilStmt:
		for {
			c, err := r.evalExpr(n.Cond, env)
			if err != nil {
				return ctrl{}, err
			}
			if truthy(c) {
				break
			}
			sig, err := r.execBlock(n.Body, env)
			if err != nil {
				return ctrl{}, err
			}
			if sig.kind == ctrlBreak {
				break
			}
			if sig.kind == ctrlReturn {
				return sig, nil
			}
		}
		return ctrl{}, nil

	case *ForStmt:
		return r.execFor(n, env)

	case *DefStmt, *AliasStmt:
		// Hoisted into r.funcs/r.aliases before execution begins.
		return ctrl{}, nil

	case *ReturnStmt:
		var v Value
		if n.Value != nil {
			var err error
			v, err = r.evalExpr(n.Value, env)
			if err != nil {
				return ctrl{}, err
			}
		}
		return ctrl{kind: ctrlReturn, ret: v}, nil

	case *IncludeStmt:
		// `include` is parsed but not expanded: nothing splices the named
		// file into the AST, and the Runner treats the statement as a
		// no-op, so the included file's statements do not run.
		return ctrl{}, nil

	case *PushStmt:
		r.bufStack = append(r.bufStack, r.interp)
		return ctrl{}, nil

	case *PopStmt:
		if len(r.bufStack) == 0 {
			return ctrl{}, newError(KindEvalError, 0, "pop with no matching push")
		}
		top := r.bufStack[len(r.bufStack)-1]
		r.bufStack = r.bufStack[:len(r.bufStack)-1]
		r.interp = top
		return ctrl{}, nil

	case *BufIDStmt:
		id := itoaSimple(r.nextBufN)
		r.nextBufN++
		ip := vimotion.NewInterp(buffer.New("", r.tabWidth), r.regs)
		r.bufs[id] = ip
		r.curBufID = id
		r.interp = ip
		return ctrl{}, nil

	case *BufSwitchStmt:
		v, err := r.evalExpr(n.Target, env)
		if err != nil {
			return ctrl{}, err
		}
		id := asString(v)
		ip, ok := r.bufs[id]
		if !ok {
			return ctrl{}, newError(KindEvalError, 0, "buf switch: no such buffer "+id)
		}
		r.curBufID = id
		r.interp = ip
		return ctrl{}, nil

	case *GlobalStmt:
		return ctrl{}, r.execGlobal(n, env)

	case *MoveStmt:
		cmd, err := r.evalExpr(n.Cmd, env)
		if err != nil {
			return ctrl{}, err
		}
		if _, err := r.interp.Exec(asString(cmd)); err != nil {
			return ctrl{}, err
		}
		return ctrl{}, nil

	case *CutStmt:
		cmd, err := r.evalExpr(n.Cmd, env)
		if err != nil {
			return ctrl{}, err
		}
		res, err := r.interp.Exec(asString(cmd))
		if err != nil {
			return ctrl{}, err
		}
		if res.Captures {
			r.rb.Cut(n.Name, res.Captured)
		}
		return ctrl{}, nil

	case *YankStmt:
		v, err := r.evalExpr(n.Value, env)
		if err != nil {
			return ctrl{}, err
		}
		name := register.Name{}
		if n.Reg != "" {
			name = register.ParseName([]rune(n.Reg)[0])
		}
		r.regs.Write(name, register.Content{Kind: register.Char, Lines: []string{asString(v)}})
		return ctrl{}, nil

	case *EchoStmt:
		// echo evaluates its arguments, so an error inside one still
		// fails the script, and prints nothing: the Runner has no output
		// stream of its own.
		for _, e := range n.Values {
			if _, err := r.evalExpr(e, env); err != nil {
				return ctrl{}, err
			}
		}
		return ctrl{}, nil

	case *NextStmt:
		r.rb.Next()
		return ctrl{}, nil

	case *RepeatStmt:
		return r.execRepeat(n, env)

	case *BreakStmt:
		return ctrl{kind: ctrlBreak}, nil

	case *ContinueStmt:
		return ctrl{kind: ctrlContinue}, nil

	case *ExprStmt:
		_, err := r.evalExpr(n.Value, env)
		return ctrl{}, err
	}
	return ctrl{}, newError(KindEvalError, 0, "unhandled statement node")
}

func (r *Runner) execAssign(n *AssignStmt, env *Env) error {
	if n.Op == "=" {
		v, err := r.evalExpr(n.Value, env)
		if err != nil {
			return err
		}
		env.assign(n.Name, v)
		return nil
	}
	cur, ok := env.get(n.Name)
	if !ok {
		return newError(KindEvalError, 0, "undefined variable $"+n.Name)
	}
	delta, err := r.evalExpr(n.Value, env)
	if err != nil {
		return err
	}
	op := n.Op[:len(n.Op)-1] // "+=" -> "+"
	v, err := r.evalBinary(&BinaryExpr{Op: op, Left: litExpr(cur), Right: litExpr(delta)}, env)
	if err != nil {
		return err
	}
	env.assign(n.Name, v)
	return nil
}

// litExpr wraps an already-evaluated Value back into an Expr so
// evalBinary's usual dispatch can be reused for compound assignment
// without a separate value-level arithmetic path.
func litExpr(v Value) Expr {
	switch x := v.(type) {
	case int:
		return &IntLit{Value: x}
	case string:
		return &StringLit{Value: x}
	case bool:
		return &BoolLit{Value: x}
	default:
		return &StringLit{Value: asString(x)}
	}
}

func (r *Runner) execIf(n *IfStmt, env *Env) (ctrl, error) {
	c, err := r.evalExpr(n.Cond, env)
	if err != nil {
		return ctrl{}, err
	}
	if truthy(c) {
		return r.execBlock(n.Then, env)
	}
	for _, elif := range n.Elifs {
		c, err := r.evalExpr(elif.Cond, env)
		if err != nil {
			return ctrl{}, err
		}
		if truthy(c) {
			return r.execBlock(elif.Body, env)
		}
	}
	if n.Else != nil {
		return r.execBlock(n.Else, env)
	}
	return ctrl{}, nil
}

func (r *Runner) execFor(n *ForStmt, env *Env) (ctrl, error) {
	loopEnv := NewEnv(env)
	runBody := func(v Value) (ctrl, bool, error) {
		loopEnv.define(n.Var, v)
		sig, err := r.execBlock(n.Body, loopEnv)
		if err != nil {
			return ctrl{}, false, err
		}
		if sig.kind == ctrlBreak {
			return ctrl{}, true, nil
		}
		if sig.kind == ctrlReturn {
			return sig, true, nil
		}
		return ctrl{}, false, nil
	}

	switch n.Kind {
	case "range", "range_inclusive":
		fromV, err := r.evalExpr(n.From, env)
		if err != nil {
			return ctrl{}, err
		}
		toV, err := r.evalExpr(n.To, env)
		if err != nil {
			return ctrl{}, err
		}
		from, err := asInt(fromV)
		if err != nil {
			return ctrl{}, err
		}
		to, err := asInt(toV)
		if err != nil {
			return ctrl{}, err
		}
		if n.Kind == "range_inclusive" {
			to++
		}
		for i := from; i < to; i++ {
			sig, stop, err := runBody(i)
			if err != nil {
				return ctrl{}, err
			}
			if sig.kind == ctrlReturn {
				return sig, nil
			}
			if stop {
				break
			}
		}
	default: // "array" or "var"
		v, err := r.evalExpr(n.Array, env)
		if err != nil {
			return ctrl{}, err
		}
		arr, ok := v.([]Value)
		if !ok {
			return ctrl{}, newError(KindEvalError, 0, "for-in target is not an array")
		}
		for _, item := range arr {
			sig, stop, err := runBody(item)
			if err != nil {
				return ctrl{}, err
			}
			if sig.kind == ctrlReturn {
				return sig, nil
			}
			if stop {
				break
			}
		}
	}
	return ctrl{}, nil
}

func (r *Runner) execRepeat(n *RepeatStmt, env *Env) (ctrl, error) {
	cv, err := r.evalExpr(n.Count, env)
	if err != nil {
		return ctrl{}, err
	}
	count, err := asInt(cv)
	if err != nil {
		return ctrl{}, err
	}
	for i := 0; i < count; i++ {
		sig, err := r.execBlock(n.Body, env)
		if err != nil {
			return ctrl{}, err
		}
		if sig.kind == ctrlBreak {
			break
		}
		if sig.kind == ctrlReturn {
			return sig, nil
		}
	}
	return ctrl{}, nil
}

func (r *Runner) execGlobal(n *GlobalStmt, env *Env) error {
	patV, err := r.evalExpr(n.Pattern, env)
	if err != nil {
		return err
	}
	re, ok := patV.(interface{ MatchString(string) (bool, error) })
	if !ok {
		c, cerr := exsub.CompilePattern(asString(patV), exsub.Flags{})
		if cerr != nil {
			return cerr
		}
		re = c
	}

	buf := r.interp.Buf
	anyMatch := false
	for ln := 0; ln < buf.LineCount(); ln++ {
		matched, _ := re.MatchString(buf.LineText(ln))
		if matched != !n.Not {
			continue
		}
		anyMatch = true
		buf.MoveCursor(buffer.Pos{Line: ln, Col: 0}, false)
		if _, err := r.execBlock(n.Body, NewEnv(env)); err != nil {
			return err
		}
	}
	if !anyMatch && n.Else != nil {
		if _, err := r.execBlock(n.Else, NewEnv(env)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) evalCall(n *CallExpr, env *Env) (Value, error) {
	if v, ok := builtinCall(n.Name, n.Args, r, env); ok {
		return v.value, v.err
	}
	if def, ok := r.funcs[n.Name]; ok {
		return r.callFunc(def, n.Args, env)
	}
	if alias, ok := r.aliases[n.Name]; ok {
		if _, err := r.execBlock(alias.Body, NewEnv(env)); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return nil, newError(KindEvalError, 0, "unknown function or alias: "+n.Name)
}

func (r *Runner) callFunc(def *DefStmt, args []Expr, env *Env) (Value, error) {
	if len(args) != len(def.Params) {
		return nil, newError(KindEvalError, 0, "function "+def.Name+" expects "+itoaSimple(len(def.Params))+" arguments")
	}
	fnEnv := NewEnv(r.globals) // function bodies are lexically scoped to the def site, not the call site
	for i, p := range def.Params {
		v, err := r.evalExpr(args[i], env)
		if err != nil {
			return nil, err
		}
		fnEnv.define(p, v)
	}
	sig, err := r.execBlock(def.Body, fnEnv)
	if err != nil {
		return nil, err
	}
	return sig.ret, nil
}

func itoaSimple(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}
