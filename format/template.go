package format

import (
	"strconv"
	"strings"

	"github.com/vicut/vicut/record"
)

// placeholder is one {{N}} or {{name}} slot found in a template string.
type placeholder struct {
	literal bool   // true: text is literal output, not a field reference
	text    string // literal text, or the raw placeholder body (N or name)
}

// compileTemplate splits raw into a sequence of literal runs and
// placeholders, honoring the `\{{` escape for a literal "{{" (§4.8: "{{" is
// escaped as "\{{").
func compileTemplate(raw string) []placeholder {
	var out []placeholder
	var lit strings.Builder
	r := []rune(raw)
	for i := 0; i < len(r); i++ {
		if r[i] == '\\' && i+2 < len(r) && r[i+1] == '{' && r[i+2] == '{' {
			lit.WriteString("{{")
			i += 2
			continue
		}
		if r[i] == '{' && i+1 < len(r) && r[i+1] == '{' {
			end := -1
			for j := i + 2; j+1 < len(r); j++ {
				if r[j] == '}' && r[j+1] == '}' {
					end = j
					break
				}
			}
			if end >= 0 {
				if lit.Len() > 0 {
					out = append(out, placeholder{literal: true, text: lit.String()})
					lit.Reset()
				}
				out = append(out, placeholder{literal: false, text: string(r[i+2 : end])})
				i = end + 1
				continue
			}
		}
		lit.WriteRune(r[i])
	}
	if lit.Len() > 0 {
		out = append(out, placeholder{literal: true, text: lit.String()})
	}
	return out
}

// renderTemplate expands a compiled template against a single record.
// knownNames is the set of every explicit field name the whole program can
// ever produce (collected once, up front, across all records) — a name in
// that set that this particular record didn't capture becomes an empty
// string, while a name outside it is a fatal TemplateError (§4.6: "Unknown
// names in templates are a fatal TemplateError").
func renderTemplate(tmpl []placeholder, rec record.Record, knownNames map[string]bool) (string, error) {
	named := make(map[string]string)
	positional := make(map[int]string)
	pos := 0
	for _, f := range rec {
		if f.Name != "" {
			named[f.Name] = f.Text
			continue
		}
		pos++
		positional[pos] = f.Text
	}

	var out strings.Builder
	for _, ph := range tmpl {
		if ph.literal {
			out.WriteString(ph.text)
			continue
		}
		if n, err := strconv.Atoi(ph.text); err == nil {
			out.WriteString(positional[n])
			continue
		}
		if v, ok := named[ph.text]; ok {
			out.WriteString(v)
			continue
		}
		if knownNames[ph.text] {
			continue
		}
		return "", newError(KindTemplateError, ph.text, "unknown placeholder")
	}
	return out.String(), nil
}
