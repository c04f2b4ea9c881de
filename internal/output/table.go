package output

import (
	"bytes"
	"strings"
	"text/tabwriter"
)

// TableWriter writes kubectl-style aligned columns.
type TableWriter struct {
	buf     bytes.Buffer
	w       *tabwriter.Writer
	hasData bool
}

// NewTableWriter creates a TableWriter with three spaces between columns.
func NewTableWriter() *TableWriter {
	t := &TableWriter{}
	t.w = tabwriter.NewWriter(&t.buf, 0, 0, 3, ' ', 0)
	return t
}

// Header writes the header row with the given column names.
func (t *TableWriter) Header(columns ...string) {
	t.Row(columns...)
}

// Row writes a data row with the given values.
func (t *TableWriter) Row(values ...string) {
	t.hasData = true
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Field writes a name/value row, showing "-" for an empty value.
func (t *TableWriter) Field(name, value string) {
	t.Row(name, orDash(value))
}

// String flushes the writer and returns the table without a trailing newline.
// It is empty if nothing was written.
func (t *TableWriter) String() string {
	if !t.hasData {
		return ""
	}
	_ = t.w.Flush()
	return strings.TrimSuffix(t.buf.String(), "\n")
}
