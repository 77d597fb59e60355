package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(w io.Writer, id string) {
	fmt.Fprintln(w, id)
}

// output renders v according to --format. Table output needs per-command
// columns, so callers that support it pass a non-nil table func.
func output(w io.Writer, format string, v any, quietVal string, table func(io.Writer)) error {
	switch format {
	case "quiet":
		formatQuiet(w, quietVal)
		return nil
	case "table":
		if table != nil {
			table(w)
			return nil
		}
		return formatJSON(w, v)
	case "json", "":
		return formatJSON(w, v)
	default:
		return fmt.Errorf("unknown output format %q (want json|table|quiet)", format)
	}
}
