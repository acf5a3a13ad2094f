package varviper

import (
	"fmt"
	"html"
	"strings"
)

// truncationNote records how much of a value was hidden. It is attached to
// a fragment whenever Shown < Total and must stay visible in the rendered
// form.
type truncationNote struct {
	Shown int
	Total int
}

func (n truncationNote) String() string {
	return fmt.Sprintf("(Showing first %d rows of %d - Limited by display size)", n.Shown, n.Total)
}

// brief is the compact wording used when the table sits inside a
// disclosure tree.
func (n truncationNote) brief() string {
	return fmt.Sprintf("(Showing first %d rows of %d)", n.Shown, n.Total)
}

func (n truncationNote) html() string {
	return noteDiv(n.String())
}

func (n truncationNote) briefHTML() string {
	return noteDiv(n.brief())
}

func noteDiv(s string) string {
	return `<div class="truncation-note">` + html.EscapeString(s) + `</div>`
}

// tableMarkup renders t as a styled HTML table. The leading cell of every
// row is a row-index header, so the client runtime treats column 0 as the
// label column for selection and heatmap purposes.
func tableMarkup(t Table) string {
	var sb strings.Builder
	sb.WriteString(`<table class="styled-table heatmap-table">`)
	sb.WriteString("<thead><tr><th></th>")
	for _, col := range t.Columns {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(col))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for i, row := range t.Rows {
		fmt.Fprintf(&sb, "<tr><th>%d</th>", i)
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

// renderTable renders t under the byte budget: at most estimateRowLimit
// rows, with a visible truncation note when rows were dropped.
func renderTable(t Table, targetBytes int) string {
	markup, note := limitTable(t, targetBytes)
	if note != nil {
		return markup + note.html()
	}
	return markup
}

// renderNestedTable is renderTable with the brief note wording used inside
// disclosure trees.
func renderNestedTable(t Table, targetBytes int) string {
	markup, note := limitTable(t, targetBytes)
	if note != nil {
		return markup + note.briefHTML()
	}
	return markup
}

func limitTable(t Table, targetBytes int) (string, *truncationNote) {
	limit := estimateRowLimit(t, targetBytes)
	total := len(t.Rows)
	if total <= limit {
		return tableMarkup(t), nil
	}
	shown := Table{Columns: t.Columns, Rows: t.Rows[:limit]}
	return tableMarkup(shown), &truncationNote{Shown: limit, Total: total}
}

// arrayTable converts a rank <= 2 array into a Table. Rank 1 wraps as a
// single labeled column; rank 0 is treated as one cell.
func arrayTable(a Array) Table {
	switch a.Rank() {
	case 0:
		rows := make([][]string, 0, 1)
		if len(a.Data) > 0 {
			rows = append(rows, []string{formatFloat(a.Data[0])})
		}
		return Table{Columns: []string{"Value"}, Rows: rows}
	case 1:
		rows := make([][]string, len(a.Data))
		for i, f := range a.Data {
			rows[i] = []string{formatFloat(f)}
		}
		return Table{Columns: []string{"Value"}, Rows: rows}
	default:
		nRows, nCols := a.Shape[0], a.Shape[1]
		cols := make([]string, nCols)
		for c := range cols {
			cols[c] = fmt.Sprintf("%d", c)
		}
		rows := make([][]string, nRows)
		for r := 0; r < nRows; r++ {
			row := make([]string, nCols)
			for c := 0; c < nCols; c++ {
				row[c] = formatFloat(a.Data[r*nCols+c])
			}
			rows[r] = row
		}
		return Table{Columns: cols, Rows: rows}
	}
}

// firstAxisLen is the number of first-axis rows a materializes into.
func firstAxisLen(a Array) int {
	if a.Rank() == 0 {
		return len(a.Data)
	}
	return a.Shape[0]
}

// arrayHead returns the first k first-axis rows of a. The head shares the
// parent's backing data.
func arrayHead(a Array, k int) Array {
	if a.Rank() == 0 || k >= a.Shape[0] {
		return a
	}
	stride := 1
	for _, n := range a.Shape[1:] {
		stride *= n
	}
	return Array{Shape: append([]int{k}, a.Shape[1:]...), Data: a.Data[:k*stride]}
}

// renderArray renders a rank <= 2 array as a budgeted table. Callers must
// route higher ranks through sliceArray first.
func renderArray(a Array, targetBytes int) string {
	markup, note := limitArray(a, targetBytes)
	if note != nil {
		return markup + note.html()
	}
	return markup
}

// renderNestedArray is renderArray with the brief note wording used inside
// disclosure trees.
func renderNestedArray(a Array, targetBytes int) string {
	markup, note := limitArray(a, targetBytes)
	if note != nil {
		return markup + note.briefHTML()
	}
	return markup
}

// limitArray estimates the row limit from a small leading prefix and cuts
// the array down to it before conversion, so cell strings for rows beyond
// the limit are never built.
func limitArray(a Array, targetBytes int) (string, *truncationNote) {
	total := firstAxisLen(a)
	if total > 0 {
		prefix := arrayTable(arrayHead(a, min(sampleRows, total)))
		if limit := estimateRowLimit(prefix, targetBytes); total > limit {
			shown := tableMarkup(arrayTable(arrayHead(a, limit)))
			return shown, &truncationNote{Shown: limit, Total: total}
		}
	}
	return tableMarkup(arrayTable(a)), nil
}
