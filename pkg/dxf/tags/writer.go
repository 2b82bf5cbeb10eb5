package tags

import (
	"fmt"
	"io"
	"strings"
)

// Writer emits tags in their textual form.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteTag(t Tag) error {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, "%3d\n%s\n", t.Code, t.Value)
	}
	return w.err
}

func (w *Writer) WriteTags(ts Tags) error {
	for _, t := range ts {
		if err := w.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Err() error {
	return w.err
}

func Format(ts Tags) string {
	sb := &strings.Builder{}
	NewWriter(sb).WriteTags(ts)
	return sb.String()
}
