package output

import (
	"bytes"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter formats the report with a user supplied text/template.
// The template receives the *Report; rows are available as .Rows.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a template formatter for templateStr.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{templateStr: templateStr}
}

// templateFuncs returns the helpers available inside templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Usage: {{seconds .Total}} -> 1.234
		"seconds": seconds,

		// Usage: {{ms .CPU}} -> 1234
		"ms": func(d time.Duration) int64 {
			return d.Milliseconds()
		},

		// Usage: {{bytes .FileSize}} -> 9.5 MiB
		"bytes": func(size int64) string {
			if size < 0 {
				size = 0
			}
			return humanize.IBytes(uint64(size))
		},

		// Usage: {{date .Started "2006-01-02"}}
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, r)
}

// defaultTemplate prints one "threads<TAB>total" line per case.
const defaultTemplate = `{{range .Rows}}{{.Threads}}	{{seconds .Total}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
