package query

import (
	"html"
	"strings"
)

// Kind classifies the outcome of a statement.
type Kind int

const (
	KindRows         Kind = iota // statement declared result columns
	KindExec                     // statement without result columns
	KindCompileError             // statement did not compile
	KindExecError                // statement compiled but failed to step (strict mode)
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindExec:
		return "exec"
	case KindCompileError:
		return "compile_error"
	case KindExecError:
		return "exec_error"
	default:
		return "unknown"
	}
}

const (
	preOpen  = "<pre>"
	preClose = "</pre>"

	pageHeader = "<html><body><h2>Query Result</h2>"
	pageFooter = "<br><a href='/'>Back</a></body></html>"
)

// Report is the outcome of running one statement.
type Report struct {
	Kind Kind
	// Columns and Rows are set for KindRows. NULL cells already hold NullText.
	Columns []string
	Rows    [][]string
	// Message is the engine diagnostic for the error kinds.
	Message string
	// Changes is the engine's changed-row count after a KindExec statement.
	Changes int
	// Trailing is the number of bytes after the first statement that were not run.
	Trailing int

	escape bool
}

func newErrorReport(kind Kind, message string, opts Options) *Report {
	return &Report{Kind: kind, Message: message, escape: opts.EscapeHTML}
}

// IsError reports whether the statement failed to compile or execute.
func (r *Report) IsError() bool {
	return r.Kind == KindCompileError || r.Kind == KindExecError
}

// Lines renders every row as its cells joined by ColumnSeparator.
func (r *Report) Lines() []string {
	return r.lines(false)
}

func (r *Report) lines(escape bool) []string {
	lines := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		if escape {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = html.EscapeString(cell)
			}
			row = cells
		}
		lines[i] = strings.Join(row, ColumnSeparator)
	}
	return lines
}

func (r *Report) writeRows(b *strings.Builder, escape bool) {
	for _, line := range r.lines(escape) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func (r *Report) message(prefix string, escape bool) string {
	if escape {
		return prefix + html.EscapeString(r.Message)
	}
	return prefix + r.Message
}

// Text is the report without any markup: one newline-terminated line per row,
// the success message, or the prefixed diagnostic.
func (r *Report) Text() string {
	return r.render(false)
}

func (r *Report) render(escape bool) string {
	switch r.Kind {
	case KindRows:
		var b strings.Builder
		r.writeRows(&b, escape)
		return b.String()
	case KindExec:
		return SuccessMessage
	case KindExecError:
		return r.message(ExecErrorPrefix, escape)
	default:
		return r.message(ErrorPrefix, escape)
	}
}

// Body is the report as an HTML fragment. Rows are wrapped in a <pre> block.
func (r *Report) Body() string {
	if r.Kind != KindRows {
		return r.render(r.escape)
	}
	var b strings.Builder
	b.WriteString(preOpen)
	r.writeRows(&b, r.escape)
	b.WriteString(preClose)
	return b.String()
}

// Page wraps Body in the result page: heading, output and a link back to the form.
func (r *Report) Page() string {
	return pageHeader + r.Body() + pageFooter
}
