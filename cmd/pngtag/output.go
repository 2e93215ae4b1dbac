package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
)

// table prints aligned columns on a terminal and plain tab separated rows otherwise
type table struct {
	out    io.Writer
	tw     *tabwriter.Writer
	header []string
}

func newTable(out io.Writer, header ...string) *table {
	t := &table{out: out, header: header}
	if isTerminal(out) {
		t.tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		t.out = t.tw
		t.Row(header...)
	}
	return t
}

func (t *table) Row(columns ...string) {
	escaped := make([]string, len(columns))
	for i, c := range columns {
		escaped[i] = cellEscaper.Replace(c)
	}
	fmt.Fprintln(t.out, strings.Join(escaped, "\t"))
}

func (t *table) Flush() error {
	if t.tw != nil {
		return t.tw.Flush()
	}
	return nil
}

var cellEscaper = strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
