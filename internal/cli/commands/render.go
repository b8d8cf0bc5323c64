package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapdb/internal/cli/config"
)

// renderRows writes a tabular result in the requested format.
func renderRows(w io.Writer, format string, cols []string, rows [][]any) error {
	if format == config.OutputJSON {
		records := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]any, len(cols))
			for i, col := range cols {
				rec[col] = row[i]
			}
			records = append(records, rec)
		}
		return renderJSON(w, records)
	}

	if len(rows) == 0 && format != config.OutputCSV {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}

	switch format {
	case config.OutputCSV:
		t.RenderCSV()
	case config.OutputMarkdown, "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	}
	return nil
}

// renderList writes a single-column listing.
func renderList(w io.Writer, format, header string, items []string) error {
	if format == config.OutputJSON {
		return renderJSON(w, items)
	}
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{item}
	}
	return renderRows(w, format, []string{header}, rows)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		return fmt.Sprint(val)
	}
}
