package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Column is one CSV column: a fixed header and how to render an item.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// WriteCSV writes the header row followed by one row per item. Fields
// containing commas, quotes or newlines are double-quoted.
func WriteCSV[T any](w io.Writer, columns []Column[T], items []T) error {
	cw := csv.NewWriter(w)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	row := make([]string, len(columns))
	for _, it := range items {
		for i, c := range columns {
			row[i] = c.Value(it)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV renders items into memory.
func CSV[T any](columns []Column[T], items []T) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Cell formatters shared by the column sets.

func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func Int(v int) string {
	return strconv.Itoa(v)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
