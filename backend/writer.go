package backend

import "strings"

// SQLWriter accumulates the text of one render call. It counts emitted
// placeholders and keeps the first error reported by any builder method;
// once failed, further text is still accepted but never returned.
type SQLWriter struct {
	sb     strings.Builder
	params int
	err    error
}

// NewSQLWriter returns an empty writer.
func NewSQLWriter() *SQLWriter {
	return &SQLWriter{}
}

// WriteString appends s.
func (w *SQLWriter) WriteString(s string) {
	w.sb.WriteString(s)
}

// WriteByte appends c.
func (w *SQLWriter) WriteByte(c byte) error {
	return w.sb.WriteByte(c)
}

// NextParam reserves the next placeholder and returns its 1-based index.
func (w *SQLWriter) NextParam() int {
	w.params++
	return w.params
}

// Params returns the number of placeholders reserved so far.
func (w *SQLWriter) Params() int { return w.params }

// Fail records err unless an earlier error is already recorded.
func (w *SQLWriter) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Err returns the first recorded error.
func (w *SQLWriter) Err() error { return w.err }

// String returns the accumulated text.
func (w *SQLWriter) String() string { return w.sb.String() }

// Len returns the number of accumulated bytes.
func (w *SQLWriter) Len() int { return w.sb.Len() }
