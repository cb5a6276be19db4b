// Package vimotion parses Vim Normal-mode command strings and executes
// their motions, operators, and text objects against a buffer.Buffer,
// producing the typed buffer.Span a field extraction records.
package vimotion

import "github.com/vicut/vicut/register"

// Direction is the scan direction of a char-search motion (f/F/t/T) and of
// the ; and , repeats of one.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Dest distinguishes 'f' (On) from 't' (Before) char-search motions.
type Dest int

const (
	On Dest = iota
	Before
)

// WordSize distinguishes 'w'-family motions (Small: a word is a maximal
// run of similarly-classed characters) from 'W'-family (Big: a word is a
// maximal run of non-whitespace).
type WordSize int

const (
	SmallWord WordSize = iota
	BigWord
)

// Bound distinguishes "inner" text objects (iw, i)) from "around" ones
// (aw, a)), which include surrounding delimiters/whitespace.
type Bound int

const (
	Inside Bound = iota
	Around
)

// ToEnd distinguishes 'w'-style (Start) from 'e'-style (End) word motion
// targets. The parser encodes e/E and ge/gE as their own MotionKind values
// and leaves Motion.ToEnd at its zero value.
type ToEnd int

const (
	ToStart ToEnd = iota
	ToEndOf
)

// TextObjKind enumerates the supported text object phrases.
type TextObjKind int

const (
	TOWord TextObjKind = iota
	TOSentence
	TOParagraph
	TODoubleQuote
	TOSingleQuote
	TOBacktick
	TOParen
	TOBracket
	TOBrace
	TOAngle
	TOTag
)

// TextObj is a span-producing phrase like `i)` or `aw`.
type TextObj struct {
	Kind  TextObjKind
	Word  WordSize // only meaningful when Kind == TOWord
	Bound Bound
}

// MotionKind enumerates every supported motion.
type MotionKind int

const (
	MLeft MotionKind = iota
	MRight
	MUp
	MDown
	MWordForward
	MWordBackward
	MWordEnd
	MWordEndBackward // ge/gE
	MLineFirstNonBlank
	MLineStart
	MLineEnd
	MScreenColumn // |
	MGotoFirstLine
	MGotoLastLine
	MGotoLine // {n}G
	MCharSearch
	MRepeatFind      // ;
	MRepeatFindRev   // ,
	MPercentMatch    // %
	MSearchNext      // n
	MSearchPrev      // N
	MSearchForward   // /pat<CR>
	MSearchBackward  // ?pat<CR>
	MTextObject
	MWholeBuffer
	MWholeLine   // motion form of 'whole line': the range of doubled operators (dd, yy, guu) and Y
	MMarkJump    // `a
	MRange       // a pre-computed span carried in Motion.Span; the parser never produces it
	MNull
)

// Motion is a cursor-moving command producing a typed span (buffer.Span).
type Motion struct {
	Kind    MotionKind
	Count   int // 0 means "use the caller-supplied effective count"
	Word    WordSize
	Dest    Dest
	Char    rune
	Dir     Direction
	ToEnd   ToEnd
	Obj     TextObj
	Line    int    // for {n}G and marks resolved to a line number
	Pattern string // for /, ?, n, N persistence is held by Interp, not here
	Mark    rune
	Span    *Span // for MRange
}

// VerbKind enumerates the supported operators and direct edits.
type VerbKind int

const (
	VDelete VerbKind = iota
	VChange
	VYank
	VToLower
	VToUpper
	VToggleCase
	VRot13
	VIndent
	VDedent
	VEqualize
	VReplaceChar   // r{c}
	VJoinLines     // J
	VPut           // p/P
	VInsertMode    // i a I A o O -> insert mode entry, payload follows
	VReplaceMode   // R
	VRepeatLast    // .
	VSubstituteCmd // Ex ':s' parsed separately by the exsub package
	VNormalMode    // Esc while already in Normal: no-op
	VVisualMode     // v
	VVisualLine     // V
	VVisualSwap     // o, while in Visual: swap anchor and cursor
)

// Anchor chooses whether a verb (chiefly Put) acts before or after the
// target.
type Anchor int

const (
	After Anchor = iota
	AnchorBefore
)

// Verb is a command that consumes a Motion's span to edit or yank, or
// (for the direct edits) acts without one.
type Verb struct {
	Kind   VerbKind
	Char   rune   // ReplaceChar's replacement, or the insert-entry variant (i/a/I/A/o/O)
	Count  int
	Anchor Anchor
	Text   string // literal insertion payload, captured up to <esc>
}

// Span mirrors buffer.Span but is declared here to avoid a second import
// cycle concern when Motion.Span needs to reference it before buffer is
// imported by callers; interp.go converts between the two directly.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol     int
	Linewise, Blockwise bool
	Inclusive           bool
}

// Cmd is a fully parsed Normal-mode command: an optional register prefix,
// an optional verb, and an optional motion or text object.
type Cmd struct {
	Register register.Name
	Verb     *Verb
	Motion   *Motion
	RawSeq   string
	EndedInVisual bool
}
