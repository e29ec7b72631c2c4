package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// table prints aligned columns on a terminal and tab-separated rows when
// piped, so output stays easy to cut and awk.
type table struct {
	out    io.Writer
	tw     *tabwriter.Writer
	width  int
	header []string
	rows   [][]string
}

func newTable(out io.Writer, header ...string) *table {
	t := &table{out: out, header: header}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			t.width = w
		}
	}
	return t
}

func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) flush() error {
	if t.tw == nil {
		for _, r := range append([][]string{t.header}, t.rows...) {
			if _, err := fmt.Fprintln(t.out, strings.Join(r, "\t")); err != nil {
				return err
			}
		}
		return nil
	}
	fmt.Fprintln(t.tw, strings.Join(t.header, "\t"))
	for _, r := range t.rows {
		fmt.Fprintln(t.tw, strings.Join(t.fit(r), "\t"))
	}
	return t.tw.Flush()
}

// fit shortens the last column so rows do not wrap.
func (t *table) fit(r []string) []string {
	if t.width == 0 || len(r) == 0 {
		return r
	}
	used := 0
	for _, c := range r[:len(r)-1] {
		used += len(c) + 2
	}
	room := t.width - used
	last := r[len(r)-1]
	if room > 3 && len(last) > room {
		out := append([]string(nil), r...)
		out[len(out)-1] = last[:room-3] + "..."
		return out
	}
	return r
}
