package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// newTable writes the header row and its underline.
func newTable(headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	fmt.Fprintln(w, strings.Join(lines, "\t"))
	return w
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// newRowWriter aligns rows like newTable but without a header.
func newRowWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
}
