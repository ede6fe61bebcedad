// Access to the categories of a data block. A category may be written
// as a loop or, when it has one row, as plain items. The helpers here
// hide that and hand back string columns, with the CIF null
// placeholders "." and "?" turned into empty strings.

package mmcif

import (
	"strconv"

	"github.com/BurntSushi/cif"
)

// category fetches a set of columns, all from the same loop if one of
// the tags names a loop, otherwise from the plain items. Missing tags
// give nil columns. The second return value is the number of rows,
// zero when the category is absent.
func category(b *cif.DataBlock, tags ...string) ([][]string, int) {
	var loop *cif.Loop
	for _, t := range tags {
		if l, ok := b.Loops[t]; ok {
			loop = l
			break
		}
	}
	cols := make([][]string, len(tags))
	nrow := 0
	if loop != nil {
		for i, t := range tags {
			if _, ok := loop.Columns[t]; !ok {
				continue
			}
			cols[i] = strCol(loop.Get(t))
			if len(cols[i]) > nrow {
				nrow = len(cols[i])
			}
		}
		return cols, nrow
	}
	for i, t := range tags {
		if v, ok := b.Items[t]; ok {
			cols[i] = []string{rawStr(v)}
			nrow = 1
		}
	}
	return cols, nrow
}

// rawStr turns one data item into a string, whatever type the reader
// gave it.
func rawStr(v cif.Value) string {
	switch x := v.Raw().(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return ""
}

// strCol turns one loop column into strings, whatever the reader
// decided the column's type was.
func strCol(vl cif.ValueLoop) []string {
	if s := vl.Strings(); s != nil {
		return s
	}
	if is := vl.Ints(); is != nil {
		out := make([]string, len(is))
		for i, v := range is {
			out[i] = strconv.Itoa(v)
		}
		return out
	}
	if fs := vl.Floats(); fs != nil {
		out := make([]string, len(fs))
		for i, v := range fs {
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return out
	}
	return nil
}

// cell picks one value out of a column set. Out of range, missing
// columns and the null placeholders all come back as "".
func cell(cols [][]string, i, row int) string {
	if i >= len(cols) || cols[i] == nil || row >= len(cols[i]) {
		return ""
	}
	s := cols[i][row]
	if s == "." || s == "?" {
		return ""
	}
	return s
}

// intCell is cell plus conversion, with a fallback for bad numbers.
func intCell(cols [][]string, i, row, dflt int) int {
	s := cell(cols, i, row)
	if s == "" {
		return dflt
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return dflt
	}
	return v
}

func floatCell(cols [][]string, i, row int, dflt float64) float64 {
	s := cell(cols, i, row)
	if s == "" {
		return dflt
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dflt
	}
	return v
}

// byteCell gives the first byte of a cell, zero when empty.
func byteCell(cols [][]string, i, row int) byte {
	s := cell(cols, i, row)
	if s == "" {
		return 0
	}
	return s[0]
}
