package vimotion

import (
	"strconv"
	"strings"

	"github.com/vicut/vicut/register"
)

// Parser consumes a tokenized Normal-mode command string one full command
// at a time, mirroring the teacher's InputMachine state walk but driven
// by a fixed token slice instead of a per-key callback, since vicut has
// no live terminal to poll.
type Parser struct {
	toks     []token
	pos      int
	inVisual bool
}

// NewParser tokenizes raw and returns a Parser ready to walk it.
func NewParser(raw string) *Parser {
	return &Parser{toks: tokenize(raw)}
}

// SetVisual tells the parser whether the buffer is currently in a Visual
// mode, which changes d/c/y/>/</=/gu/gU/g~/g? from "operator+motion" into
// standalone commands that act on the live selection.
func (p *Parser) SetVisual(v bool) { p.inVisual = v }

// Done reports whether every token has been consumed.
func (p *Parser) Done() bool { return p.pos >= len(p.toks) }

// Pos returns the current token offset, used by callers to report error
// positions and to slice out a command's raw text.
func (p *Parser) Pos() int { return p.pos }

func (p *Parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) advance() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func isDigit(t token) (int, bool) {
	if t.special || len(t.text) != 1 {
		return 0, false
	}
	r := t.text[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// readCount consumes a leading count, disallowing a leading zero (which
// is instead the '0' motion) per Vim's grammar.
func (p *Parser) readCount() int {
	t, ok := p.peek()
	if !ok {
		return 0
	}
	d, isD := isDigit(t)
	if !isD || d == 0 {
		return 0
	}
	count := 0
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		d, isD := isDigit(t)
		if !isD {
			break
		}
		count = count*10 + d
		if count > 999999 {
			count = 999999
		}
		p.advance()
	}
	return count
}

func effectiveCount(c1, c2 int) int {
	if c1 == 0 {
		c1 = 1
	}
	if c2 == 0 {
		c2 = 1
	}
	return c1 * c2
}

// Next parses and returns the single next Normal-mode command, or nil,
// nil at end of input. The returned Cmd's RawSeq is the exact substring
// of tokens consumed.
func (p *Parser) Next() (*Cmd, error) {
	if p.Done() {
		return nil, nil
	}
	startTok := p.pos
	reg := register.Name{}
	if t, ok := p.peek(); ok && !t.special && t.text == `"` {
		p.advance()
		nt, ok := p.advance()
		if !ok || nt.special {
			return nil, newError(KindUnknownCommand, startTok, "expected register name after \"")
		}
		reg = register.ParseName([]rune(nt.text)[0])
	}

	count1 := p.readCount()

	t, ok := p.peek()
	if !ok {
		return nil, newError(KindUnknownCommand, startTok, "trailing register/count with no command")
	}

	cmd, err := p.parseBody(startTok, reg, count1, t)
	if err != nil {
		return nil, err
	}
	if cmd != nil {
		cmd.RawSeq = p.rawSince(startTok)
	}
	return cmd, err
}

func (p *Parser) rawSince(start int) string {
	var sb strings.Builder
	for i := start; i < p.pos; i++ {
		sb.WriteString(p.toks[i].text)
	}
	return sb.String()
}

func (p *Parser) parseBody(startTok int, reg register.Name, count1 int, t token) (*Cmd, error) {
	if t.special {
		p.advance()
		return nil, nil // a stray <esc>/<cr> between commands is a no-op
	}

	switch t.text {
	case "d", "c", "y", ">", "<", "=":
		p.advance()
		return p.parseOperator(reg, count1, t.text)
	case "g":
		p.advance()
		return p.parseGPrefix(reg, count1)
	case "~":
		p.advance()
		if p.inVisual {
			return &Cmd{Register: reg, Verb: &Verb{Kind: VToggleCase, Count: effectiveCount(count1, 0)}}, nil
		}
		n := effectiveCount(count1, 0)
		return &Cmd{Register: reg, Verb: &Verb{Kind: VToggleCase}, Motion: &Motion{Kind: MRight, Count: n}}, nil
	case "v":
		p.advance()
		return &Cmd{Register: reg, Verb: &Verb{Kind: VVisualMode}}, nil
	case "V":
		p.advance()
		return &Cmd{Register: reg, Verb: &Verb{Kind: VVisualLine}}, nil
	case "x":
		p.advance()
		n := effectiveCount(count1, 0)
		m := &Motion{Kind: MRight, Count: n}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VDelete}, Motion: m}, nil
	case "X":
		p.advance()
		n := effectiveCount(count1, 0)
		m := &Motion{Kind: MLeft, Count: n}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VDelete}, Motion: m}, nil
	case "D":
		p.advance()
		return &Cmd{Register: reg, Verb: &Verb{Kind: VDelete}, Motion: &Motion{Kind: MLineEnd}}, nil
	case "C":
		p.advance()
		return &Cmd{Register: reg, Verb: &Verb{Kind: VChange}, Motion: &Motion{Kind: MLineEnd}}, nil
	case "Y":
		p.advance()
		n := effectiveCount(count1, 0)
		return &Cmd{Register: reg, Verb: &Verb{Kind: VYank}, Motion: &Motion{Kind: MWholeLine, Count: n}}, nil
	case "p", "P":
		p.advance()
		anchor := After
		if t.text == "P" {
			anchor = AnchorBefore
		}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VPut, Anchor: anchor, Count: effectiveCount(count1, 0)}}, nil
	case "r":
		p.advance()
		nt, ok := p.advance()
		if !ok {
			return nil, newError(KindUnknownCommand, startTok, "expected char after r")
		}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VReplaceChar, Char: firstRune(nt.text), Count: effectiveCount(count1, 0)}}, nil
	case "R":
		p.advance()
		text, err := p.readInsertPayload()
		if err != nil {
			return nil, err
		}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VReplaceMode, Text: text}}, nil
	case "i", "a", "I", "A", "o", "O":
		if p.inVisual {
			if t.text == "o" {
				p.advance()
				return &Cmd{Register: reg, Verb: &Verb{Kind: VVisualSwap}}, nil
			}
			if t.text == "i" || t.text == "a" {
				obj, err := p.parseTextObject(t.text)
				if err != nil {
					return nil, err
				}
				return &Cmd{Register: reg, Motion: &Motion{Kind: MTextObject, Obj: obj}}, nil
			}
		}
		p.advance()
		text, err := p.readInsertPayload()
		if err != nil {
			return nil, err
		}
		return &Cmd{Register: reg, Verb: &Verb{Kind: VInsertMode, Char: firstRune(t.text), Text: text, Count: effectiveCount(count1, 0)}}, nil
	case "J":
		p.advance()
		n := effectiveCount(count1, 0)
		return &Cmd{Register: reg, Verb: &Verb{Kind: VJoinLines, Count: n}}, nil
	case ".":
		p.advance()
		return &Cmd{Register: reg, Verb: &Verb{Kind: VRepeatLast, Count: count1}}, nil
	case "u", "U":
		p.advance()
		return nil, nil // undo/redo-of-line are interactive-editor concepts; no-op in batch use
	}

	m, err := p.parseMotion(count1, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, newError(KindUnknownCommand, startTok, "unrecognized command '"+t.text+"'")
	}
	return &Cmd{Register: reg, Motion: m}, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// readInsertPayload captures literal text up to (and consuming) a
// terminating <esc>, per Vim's Insert-mode entry.
func (p *Parser) readInsertPayload() (string, error) {
	var sb strings.Builder
	for {
		t, ok := p.advance()
		if !ok {
			return sb.String(), nil // unterminated payload runs to end of input
		}
		if t.special && t.text == "<esc>" {
			return sb.String(), nil
		}
		if t.special && t.text == "<cr>" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(t.text)
	}
}

func (p *Parser) parseOperator(reg register.Name, count1 int, opText string) (*Cmd, error) {
	verbKind := map[string]VerbKind{"d": VDelete, "c": VChange, "y": VYank, ">": VIndent, "<": VDedent, "=": VEqualize}[opText]
	if p.inVisual {
		return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind, Count: effectiveCount(count1, 0)}}, verbKind)
	}
	count2 := p.readCount()

	t, ok := p.peek()
	if !ok {
		return nil, newError(KindUnknownCommand, p.pos, "operator '"+opText+"' with no motion")
	}

	// Doubled operator ("dd") operates on effective-count lines.
	if !t.special && t.text == opText {
		p.advance()
		n := effectiveCount(count1, count2)
		return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: &Motion{Kind: MWholeLine, Count: n}}, verbKind)
	}

	if !t.special && t.text == "g" {
		p.advance()
		gt, ok := p.advance()
		if ok && !gt.special && gt.text == "g" {
			return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: &Motion{Kind: MGotoFirstLine, Count: effectiveCount(count1, count2)}}, verbKind)
		}
		if ok && !gt.special && gt.text == "e" {
			return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: &Motion{Kind: MWordEndBackward, Word: SmallWord, Count: effectiveCount(count1, count2)}}, verbKind)
		}
		if ok && !gt.special && gt.text == "E" {
			return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: &Motion{Kind: MWordEndBackward, Word: BigWord, Count: effectiveCount(count1, count2)}}, verbKind)
		}
		return nil, newError(KindUnknownCommand, p.pos, "unrecognized g-motion after operator")
	}

	if !t.special && (t.text == "i" || t.text == "a") {
		obj, err := p.parseTextObject(t.text)
		if err != nil {
			return nil, err
		}
		return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: &Motion{Kind: MTextObject, Obj: obj}}, verbKind)
	}

	m, err := p.parseMotion(count2, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, newError(KindUnknownCommand, p.pos, "unrecognized motion after operator '"+opText+"'")
	}
	if count1 != 0 {
		m.Count = effectiveCount(count1, m.Count)
	}
	return p.finishOperator(&Cmd{Register: reg, Verb: &Verb{Kind: verbKind}, Motion: m}, verbKind)
}

// finishOperator attaches a literal Insert payload to a 'c' (Change)
// command, since Change drops the buffer into Insert mode and the
// typed replacement text immediately follows the motion in the same
// command string.
func (p *Parser) finishOperator(cmd *Cmd, verbKind VerbKind) (*Cmd, error) {
	if verbKind != VChange {
		return cmd, nil
	}
	text, err := p.readInsertPayload()
	if err != nil {
		return nil, err
	}
	cmd.Verb.Text = text
	return cmd, nil
}

func (p *Parser) parseGPrefix(reg register.Name, count1 int) (*Cmd, error) {
	t, ok := p.advance()
	if !ok {
		return nil, newError(KindUnknownCommand, p.pos, "'g' with no following command")
	}
	switch t.text {
	case "g":
		return &Cmd{Register: reg, Motion: &Motion{Kind: MGotoFirstLine, Count: effectiveCount(count1, 0)}}, nil
	case "e":
		return &Cmd{Register: reg, Motion: &Motion{Kind: MWordEndBackward, Word: SmallWord, Count: effectiveCount(count1, 0)}}, nil
	case "E":
		return &Cmd{Register: reg, Motion: &Motion{Kind: MWordEndBackward, Word: BigWord, Count: effectiveCount(count1, 0)}}, nil
	case "u":
		return p.parseGOperatorMotion(reg, count1, VToLower, "u")
	case "U":
		return p.parseGOperatorMotion(reg, count1, VToUpper, "U")
	case "~":
		return p.parseGOperatorMotion(reg, count1, VToggleCase, "~")
	case "?":
		return p.parseGOperatorMotion(reg, count1, VRot13, "?")
	}
	return nil, newError(KindUnknownCommand, p.pos, "unrecognized g-command")
}

// parseGOperatorMotion handles gu/gU/g~/g? (Vim's rot13), each of which
// takes a motion exactly like d/c/y do, and doubles (guu, gUU, g~~, g??)
// to act on the effective-count current lines.
func (p *Parser) parseGOperatorMotion(reg register.Name, count1 int, verb VerbKind, trigger string) (*Cmd, error) {
	if p.inVisual {
		return &Cmd{Register: reg, Verb: &Verb{Kind: verb, Count: effectiveCount(count1, 0)}}, nil
	}
	count2 := p.readCount()
	t, ok := p.peek()
	if !ok {
		return nil, newError(KindUnknownCommand, p.pos, "g-operator with no motion")
	}
	if !t.special && t.text == trigger {
		p.advance()
		n := effectiveCount(count1, count2)
		return &Cmd{Register: reg, Verb: &Verb{Kind: verb}, Motion: &Motion{Kind: MWholeLine, Count: n}}, nil
	}
	if !t.special && (t.text == "i" || t.text == "a") {
		obj, err := p.parseTextObject(t.text)
		if err != nil {
			return nil, err
		}
		return &Cmd{Register: reg, Verb: &Verb{Kind: verb}, Motion: &Motion{Kind: MTextObject, Obj: obj}}, nil
	}
	m, err := p.parseMotion(count2, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, newError(KindUnknownCommand, p.pos, "unrecognized motion after g-operator")
	}
	if count1 != 0 {
		m.Count = effectiveCount(count1, m.Count)
	}
	return &Cmd{Register: reg, Verb: &Verb{Kind: verb}, Motion: m}, nil
}

// parseTextObject consumes the 'i'/'a' token already identified by the
// caller plus the following object character.
func (p *Parser) parseTextObject(boundTok string) (TextObj, error) {
	p.advance() // consume i/a
	bound := Inside
	if boundTok == "a" {
		bound = Around
	}
	t, ok := p.advance()
	if !ok || t.special {
		return TextObj{}, newError(KindInvalidTextObject, p.pos, "expected text-object char after "+boundTok)
	}
	switch t.text {
	case "w":
		return TextObj{Kind: TOWord, Word: SmallWord, Bound: bound}, nil
	case "W":
		return TextObj{Kind: TOWord, Word: BigWord, Bound: bound}, nil
	case "s":
		return TextObj{Kind: TOSentence, Bound: bound}, nil
	case "p":
		return TextObj{Kind: TOParagraph, Bound: bound}, nil
	case `"`:
		return TextObj{Kind: TODoubleQuote, Bound: bound}, nil
	case "'":
		return TextObj{Kind: TOSingleQuote, Bound: bound}, nil
	case "`":
		return TextObj{Kind: TOBacktick, Bound: bound}, nil
	case "(", ")", "b":
		return TextObj{Kind: TOParen, Bound: bound}, nil
	case "[", "]":
		return TextObj{Kind: TOBracket, Bound: bound}, nil
	case "{", "}", "B":
		return TextObj{Kind: TOBrace, Bound: bound}, nil
	case "<", ">":
		return TextObj{Kind: TOAngle, Bound: bound}, nil
	case "t":
		return TextObj{Kind: TOTag, Bound: bound}, nil
	}
	return TextObj{}, newError(KindInvalidTextObject, p.pos, "unknown text object '"+t.text+"'")
}

// parseMotion consumes a single motion token (and any char-search
// argument or digit run for {n}G) and returns the parsed Motion. It
// returns nil, nil when t does not start a motion.
func (p *Parser) parseMotion(count int, t token) (*Motion, error) {
	if t.special {
		return nil, nil
	}
	switch t.text {
	case "h":
		p.advance()
		return &Motion{Kind: MLeft, Count: count}, nil
	case "l":
		p.advance()
		return &Motion{Kind: MRight, Count: count}, nil
	case "j":
		p.advance()
		return &Motion{Kind: MDown, Count: count}, nil
	case "k":
		p.advance()
		return &Motion{Kind: MUp, Count: count}, nil
	case "w":
		p.advance()
		return &Motion{Kind: MWordForward, Word: SmallWord, Count: count}, nil
	case "W":
		p.advance()
		return &Motion{Kind: MWordForward, Word: BigWord, Count: count}, nil
	case "b":
		p.advance()
		return &Motion{Kind: MWordBackward, Word: SmallWord, Count: count}, nil
	case "B":
		p.advance()
		return &Motion{Kind: MWordBackward, Word: BigWord, Count: count}, nil
	case "e":
		p.advance()
		return &Motion{Kind: MWordEnd, Word: SmallWord, Count: count}, nil
	case "E":
		p.advance()
		return &Motion{Kind: MWordEnd, Word: BigWord, Count: count}, nil
	case "0":
		p.advance()
		return &Motion{Kind: MLineStart}, nil
	case "^":
		p.advance()
		return &Motion{Kind: MLineFirstNonBlank}, nil
	case "$":
		p.advance()
		return &Motion{Kind: MLineEnd, Count: count}, nil
	case "|":
		p.advance()
		return &Motion{Kind: MScreenColumn, Count: count}, nil
	case "G":
		p.advance()
		if count > 0 {
			return &Motion{Kind: MGotoLine, Line: count - 1}, nil
		}
		return &Motion{Kind: MGotoLastLine}, nil
	case "%":
		p.advance()
		return &Motion{Kind: MPercentMatch}, nil
	case ";":
		p.advance()
		return &Motion{Kind: MRepeatFind, Count: count}, nil
	case ",":
		p.advance()
		return &Motion{Kind: MRepeatFindRev, Count: count}, nil
	case "n":
		p.advance()
		return &Motion{Kind: MSearchNext, Count: count}, nil
	case "N":
		p.advance()
		return &Motion{Kind: MSearchPrev, Count: count}, nil
	case "f", "F", "t", "T":
		return p.parseCharSearch(count, t.text)
	case "/", "?":
		return p.parseSearch(t.text)
	case "`":
		p.advance()
		mt, ok := p.advance()
		if !ok || mt.special {
			return nil, newError(KindUnknownCommand, p.pos, "expected mark letter after `")
		}
		return &Motion{Kind: MMarkJump, Mark: firstRune(mt.text)}, nil
	}
	return nil, nil
}

func (p *Parser) parseCharSearch(count int, which string) (*Motion, error) {
	p.advance()
	ct, ok := p.advance()
	if !ok || ct.special {
		return nil, newError(KindUnknownCommand, p.pos, "expected character after "+which)
	}
	dir := Forward
	dest := On
	switch which {
	case "F":
		dir = Backward
	case "t":
		dest = Before
	case "T":
		dir = Backward
		dest = Before
	}
	return &Motion{Kind: MCharSearch, Count: count, Char: firstRune(ct.text), Dir: dir, Dest: dest}, nil
}

func (p *Parser) parseSearch(which string) (*Motion, error) {
	p.advance()
	var sb strings.Builder
	for {
		t, ok := p.advance()
		if !ok {
			break
		}
		if t.special && t.text == "<cr>" {
			break
		}
		sb.WriteString(t.text)
	}
	kind := MSearchForward
	if which == "?" {
		kind = MSearchBackward
	}
	return &Motion{Kind: kind, Pattern: sb.String()}, nil
}

// ParseCount parses a decimal "{n}" count string with strconv.Atoi.
func ParseCount(s string) (int, error) {
	return strconv.Atoi(s)
}
