package record

import (
	"encoding/csv"
	"fmt"
	"io"
)

const bom = "\ufeff"

// Writer serializes records as CSV with a fixed column set.
type Writer struct {
	w       io.Writer
	csv     *csv.Writer
	cols    []Column
	bom     bool
	started bool
}

// WriterOptions configures NewWriter.
type WriterOptions struct {
	Columns []Column // empty means DefaultColumns
	BOM     bool     // prefix a UTF-8 byte order mark for spreadsheet tools
}

// NewWriter returns a writer over w.
func NewWriter(w io.Writer, opts WriterOptions) *Writer {
	cols := opts.Columns
	if len(cols) == 0 {
		cols = DefaultColumns()
	}
	return &Writer{w: w, csv: csv.NewWriter(w), cols: cols, bom: opts.BOM}
}

// WriteHeader writes the BOM and the header row once.
func (w *Writer) WriteHeader() error {
	if w.started {
		return nil
	}
	w.started = true
	if w.bom {
		if _, err := io.WriteString(w.w, bom); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}
	header := make([]string, len(w.cols))
	for i, c := range w.cols {
		header[i] = string(c)
	}
	if err := w.csv.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// Write appends records, writing the header first if needed.
func (w *Writer) Write(recs ...Record) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	row := make([]string, len(w.cols))
	for _, rec := range recs {
		for i, c := range w.cols {
			row[i] = rec.Value(c)
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
