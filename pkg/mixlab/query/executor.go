package query

import (
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
)

const (
	// ErrorPrefix starts every report for a statement that failed to compile.
	ErrorPrefix = "SQL error: "
	// ExecErrorPrefix starts the report for a statement that compiled but failed
	// while stepping. Only produced with Options.StrictExec.
	ExecErrorPrefix = "Execution error: "
	// SuccessMessage is the whole report of a statement without result columns.
	SuccessMessage = "Query executed successfully."
	// NullText stands in for SQL NULL cells.
	NullText = "NULL"
	// ColumnSeparator sits between the cells of one row.
	ColumnSeparator = " | "

	emptyStatement = "empty statement"
)

// Options tune how a statement is executed and rendered.
type Options struct {
	// StrictExec reports step failures instead of ignoring them.
	StrictExec bool
	// EscapeHTML escapes cell values and diagnostics in Body and Page.
	EscapeHTML bool
}

// Run compiles the first statement of sqlText on conn, executes it and returns
// its report. Anything after the first complete statement is ignored.
//
// A statement that declares result columns is stepped until exhausted and
// every row is captured as text. Any other statement is stepped exactly once.
// The compiled statement is finalized before Run returns.
//
// conn must not be used by another goroutine while Run executes.
func Run(conn *sqlite.Conn, sqlText string, opts Options) *Report {
	if isBlank(sqlText, 0) {
		return newErrorReport(KindCompileError, emptyStatement, opts)
	}
	stmt, trailing, err := conn.PrepareTransient(sqlText)
	if err != nil {
		return newErrorReport(KindCompileError, engineMessage(err, sqlText), opts)
	}
	if stmt == nil || isBlank(sqlText, trailing) {
		if stmt != nil {
			stmt.Finalize()
		}
		return newErrorReport(KindCompileError, emptyStatement, opts)
	}
	defer stmt.Finalize()

	report := &Report{Trailing: trailing, escape: opts.EscapeHTML}

	columns := stmt.ColumnCount()
	if columns == 0 {
		_, err := stmt.Step()
		if err != nil && opts.StrictExec {
			return newErrorReport(KindExecError, engineMessage(err, sqlText), opts)
		}
		report.Kind = KindExec
		report.Changes = conn.Changes()
		return report
	}

	report.Kind = KindRows
	report.Columns = make([]string, columns)
	for i := range columns {
		report.Columns[i] = stmt.ColumnName(i)
	}

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			if opts.StrictExec {
				return newErrorReport(KindExecError, engineMessage(err, sqlText), opts)
			}
			break
		}
		if !hasRow {
			break
		}

		row := make([]string, columns)
		for i := range columns {
			// Type must be read before the text conversion changes it.
			if stmt.ColumnType(i) == sqlite.TypeNull {
				row[i] = NullText
			} else {
				row[i] = stmt.ColumnText(i)
			}
		}
		report.Rows = append(report.Rows, row)
	}

	return report
}

// isBlank reports whether the compiled part of sqlText holds nothing but
// whitespace and comments.
func isBlank(sqlText string, trailing int) bool {
	rest := sqlText[:len(sqlText)-trailing]
	for {
		rest = strings.TrimSpace(rest)
		switch {
		case strings.HasPrefix(rest, "--"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				return true
			}
			rest = rest[end+1:]
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return true
			}
			rest = rest[end+4:]
		default:
			return rest == ""
		}
	}
}

// engineMessage strips the driver's decoration from err so only the engine
// diagnostic remains, e.g. `near "SELEC": syntax error`.
func engineMessage(err error, sqlText string) string {
	msg := err.Error()
	for {
		trimmed := strings.TrimPrefix(msg, "sqlite: ")
		trimmed = strings.TrimPrefix(trimmed, "prepare "+strconv.Quote(sqlText)+": ")
		trimmed = strings.TrimPrefix(trimmed, "prepare: ")
		trimmed = strings.TrimPrefix(trimmed, "step: ")
		if trimmed == msg {
			return msg
		}
		msg = trimmed
	}
}
