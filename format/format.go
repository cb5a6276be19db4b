// Package format renders the records a program.Program produces into the
// three output shapes vicut supports: delimiter-joined text, a line-per-
// record template, or a JSON array of objects.
package format

import (
	"strings"

	"github.com/vicut/vicut/record"
)

// outputKind selects which of the three output shapes Render produces.
type outputKind int

const (
	Delimited outputKind = iota
	Templated
	JSON
)

// Options configures Render. Exactly one of Delimiter or Template applies
// depending on Kind; JSON ignores both.
type Options struct {
	Kind      outputKind
	Delimiter string
	Template  string
}

// KnownNames collects every explicit field name across every record, used
// to distinguish a template placeholder that is legitimately absent from
// this record (renders empty) from one that names a field the program
// never produces at all (a fatal TemplateError).
func KnownNames(recs []record.Record) map[string]bool {
	names := make(map[string]bool)
	for _, rec := range recs {
		for _, f := range rec {
			if f.Name != "" {
				names[f.Name] = true
			}
		}
	}
	return names
}

// Render dispatches to the configured output shape.
func Render(recs []record.Record, opts Options) (string, error) {
	switch opts.Kind {
	case JSON:
		return renderJSON(recs)
	case Templated:
		tmpl := compileTemplate(opts.Template)
		known := KnownNames(recs)
		lines := make([]string, len(recs))
		for i, rec := range recs {
			line, err := renderTemplate(tmpl, rec, known)
			if err != nil {
				return "", err
			}
			lines[i] = line
		}
		return strings.Join(lines, "\n"), nil
	default:
		return renderDelimited(recs, opts.Delimiter), nil
	}
}
