// Package record assembles the fields a program.Program cuts from a buffer
// into records, applying the trim-fields policy and field_N naming that
// the formatter later keys output on.
package record

import "strings"

// Field is one captured value: an optional explicit name (from `-c
// name=X`/`cut name="…"`), the text as captured, and the trimmed text
// actually serialized when --trim-fields is set. Raw is kept untrimmed so
// callers that need the original span never have to re-derive it.
type Field struct {
	Name string
	Raw  string
	Text string
}

// Record is an ordered sequence of fields, closed by a Next instruction or
// the end of the program.
type Record []Field

// Key returns the name a formatter should key this field on: its explicit
// name if given, otherwise "field_N" where N is this field's 1-based
// position among the record's unnamed fields.
func (r Record) Key(i int) string {
	if r[i].Name != "" {
		return r[i].Name
	}
	n := 0
	for j := 0; j <= i; j++ {
		if r[j].Name == "" {
			n++
		}
	}
	return "field_" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

// Builder accumulates fields into the current record and finished records
// into a sequence, matching §4.6's "born on first capture or Next, closed
// on the next Next or program end" lifecycle.
type Builder struct {
	trim    bool
	current Record
	done    []Record
	anyCut  bool
}

// NewBuilder creates a Builder. When trim is true, Cut strips leading and
// trailing whitespace from the stored Text (Raw is always kept untrimmed).
func NewBuilder(trim bool) *Builder {
	return &Builder{trim: trim}
}

// Cut appends a field to the current record, starting one if none is open.
func (b *Builder) Cut(name, raw string) {
	b.anyCut = true
	text := raw
	if b.trim {
		text = strings.TrimSpace(text)
	}
	b.current = append(b.current, Field{Name: name, Raw: raw, Text: text})
}

// Next closes the current record (even if empty — Vim scripts can Next
// without ever cutting, producing an empty record boundary) and starts a
// new one.
func (b *Builder) Next() {
	b.done = append(b.done, b.current)
	b.current = nil
}

// Finish closes any open record and returns every record produced. If Cut
// was never called during the whole run, wholeBuffer supplies the text for
// a single implicit field (§4.5: "If no Cut is ever executed, the whole
// buffer becomes a single implicit field").
func (b *Builder) Finish(wholeBuffer func() string) []Record {
	if !b.anyCut {
		return []Record{{{Text: wholeBuffer()}}}
	}
	b.done = append(b.done, b.current)
	b.current = nil
	return b.done
}
