package export

import (
	"errors"
	"time"
)

// ErrNoColumns is returned when a dataset has nothing to render.
var ErrNoColumns = errors.New("dataset requires at least one column")

// Column describes one exported field. Key is the machine name written to
// CSV and XLSX headers; Label is the human-readable PDF header.
type Column struct {
	Key   string
	Label string
}

// Dataset defines tabular export content. Every row holds one value per column.
type Dataset struct {
	Title       string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
}

// Keys returns the raw column keys in order.
func (d Dataset) Keys() []string {
	keys := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Labels returns the column labels in order, falling back to the key.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		labels[i] = c.Label
		if labels[i] == "" {
			labels[i] = c.Key
		}
	}
	return labels
}

func (d Dataset) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
