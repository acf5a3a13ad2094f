package varviper

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colTable(rows int, cell string) Table {
	t := Table{Columns: []string{"A", "B", "C"}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []string{cell, cell, cell})
	}
	return t
}

// --- Size Estimator ---

func TestEstimateZeroRows(t *testing.T) {
	t.Parallel()
	limit := estimateRowLimit(Table{Columns: []string{"A"}}, targetBytesPerValue)
	assert.Equal(t, 0, limit)
}

func TestEstimateClampBounds(t *testing.T) {
	t.Parallel()
	// Tiny budget clamps to the floor.
	small := estimateRowLimit(colTable(20, "xxxxxxxxxxxxxxxxxxxxxxxxx"), 500)
	assert.Equal(t, minimumRows, small)

	// Huge budget clamps to the ceiling.
	big := estimateRowLimit(colTable(20, "x"), 1<<40)
	assert.Equal(t, absoluteRowCeiling, big)
}

func TestEstimateScenarioNoTruncation(t *testing.T) {
	t.Parallel()
	// 20 rows at roughly 100 bytes/row under a 500-byte budget: the raw
	// projection is ~5 rows, clamped up to 50, so all 20 rows render.
	tbl := colTable(20, "xxxxxxxxxxxxxxxxxxxxxxxxx")
	limit := estimateRowLimit(tbl, 500)
	require.Equal(t, 50, limit)
	out := renderTable(tbl, 500)
	assert.NotContains(t, out, "Showing first")
	assert.Equal(t, 21, strings.Count(out, "<tr>")) // header + 20 data rows
}

func TestEstimateDeterministic(t *testing.T) {
	t.Parallel()
	tbl := colTable(100, "value")
	a := estimateRowLimit(tbl, 1<<20)
	b := estimateRowLimit(tbl, 1<<20)
	assert.Equal(t, a, b)
}

func TestEstimateMonotoneInRowCost(t *testing.T) {
	t.Parallel()
	cheap := estimateRowLimit(colTable(100, "x"), 1<<20)
	costly := estimateRowLimit(colTable(100, strings.Repeat("x", 200)), 1<<20)
	assert.Greater(t, cheap, costly)
	assert.GreaterOrEqual(t, cheap, minimumRows)
	assert.LessOrEqual(t, cheap, absoluteRowCeiling)
	assert.GreaterOrEqual(t, costly, minimumRows)
}

// --- Table rendering ---

func TestRenderTableTruncationMarker(t *testing.T) {
	t.Parallel()
	tbl := colTable(60, "cell")
	// A tiny budget forces the minimum limit of 50 on a 60-row table.
	out := renderTable(tbl, 10)
	assert.Contains(t, out, "(Showing first 50 rows of 60 - Limited by display size)")
	assert.Equal(t, 51, strings.Count(out, "<tr>"))
}

func TestRenderTableNoMarkerWhenComplete(t *testing.T) {
	t.Parallel()
	out := renderTable(colTable(5, "cell"), targetBytesPerValue)
	assert.NotContains(t, out, "Showing first")
}

func TestTableMarkupEscapes(t *testing.T) {
	t.Parallel()
	tbl := Table{Columns: []string{"<b>"}, Rows: [][]string{{"<script>"}}}
	out := tableMarkup(tbl)
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestArrayHead(t *testing.T) {
	t.Parallel()
	data := make([]float64, 12)
	for i := range data {
		data[i] = float64(i)
	}
	a := Array{Shape: []int{4, 3}, Data: data}

	h := arrayHead(a, 2)
	assert.Equal(t, []int{2, 3}, h.Shape)
	assert.Equal(t, data[:6], h.Data)

	// Asking for at least the full first axis is the identity.
	assert.Equal(t, a, arrayHead(a, 4))
	assert.Equal(t, a, arrayHead(a, 100))
}

func TestRenderArrayVectorTruncated(t *testing.T) {
	t.Parallel()
	data := make([]float64, 120)
	for i := range data {
		data[i] = float64(i)
	}
	out := renderArray(Array{Shape: []int{120}, Data: data}, 10)
	assert.Contains(t, out, "(Showing first 50 rows of 120 - Limited by display size)")
	assert.Equal(t, 51, strings.Count(out, "<tr>"))
	// Values beyond the limit never reach the markup.
	assert.NotContains(t, out, "<td>50</td>")
	assert.NotContains(t, out, "<td>119</td>")
}

func TestRenderArrayMatrixTruncated(t *testing.T) {
	t.Parallel()
	data := make([]float64, 60*2)
	for i := range data {
		data[i] = float64(i)
	}
	out := renderArray(Array{Shape: []int{60, 2}, Data: data}, 10)
	assert.Contains(t, out, "(Showing first 50 rows of 60 - Limited by display size)")
	assert.Equal(t, 51, strings.Count(out, "<tr>"))
	assert.NotContains(t, out, "<td>118</td>")
}

func TestRenderArrayNoMarkerWhenComplete(t *testing.T) {
	t.Parallel()
	out := renderArray(Array{Shape: []int{3}, Data: []float64{1, 2, 3}}, targetBytesPerValue)
	assert.NotContains(t, out, "Showing first")
	assert.Equal(t, 4, strings.Count(out, "<tr>"))
}

func TestArrayTableRankOne(t *testing.T) {
	t.Parallel()
	tbl := arrayTable(Array{Shape: []int{3}, Data: []float64{1, 2.5, 3}})
	require.Equal(t, []string{"Value"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []string{"2.5"}, tbl.Rows[1])
}

func TestArrayTableRankTwo(t *testing.T) {
	t.Parallel()
	tbl := arrayTable(Array{Shape: []int{2, 3}, Data: []float64{0, 1, 2, 3, 4, 5}})
	require.Equal(t, []string{"0", "1", "2"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"3", "4", "5"}, tbl.Rows[1])
}

// --- Array Slicer ---

func TestSliceArrayUnderCap(t *testing.T) {
	t.Parallel()
	a := Array{Shape: []int{4, 2, 2}, Data: make([]float64, 16)}
	m := sliceArray(a)
	require.Len(t, m.Keys, 4)
	assert.Equal(t, "Slice 0", m.Keys[0])
	assert.Equal(t, "Slice 3", m.Keys[3])
	for _, v := range m.Values {
		sub, ok := v.(Array)
		require.True(t, ok)
		assert.Equal(t, []int{2, 2}, sub.Shape)
	}
}

func TestSliceArrayOverCap(t *testing.T) {
	t.Parallel()
	a := Array{Shape: []int{60, 2}, Data: make([]float64, 120)}
	m := sliceArray(a)
	require.Len(t, m.Keys, maxArraySlices+1)
	assert.Equal(t, "...", m.Keys[maxArraySlices])
	placeholder, ok := m.Values[maxArraySlices].(Text)
	require.True(t, ok)
	assert.Equal(t, "And 10 more slices...", placeholder.Value)
}

func TestSliceArrayFourDimensional(t *testing.T) {
	t.Parallel()
	data := make([]float64, 36)
	for i := range data {
		data[i] = float64(i)
	}
	a := Array{Shape: []int{2, 2, 3, 3}, Data: data}

	top := sliceArray(a)
	require.Len(t, top.Keys, 2)
	first, ok := top.Values[0].(Array)
	require.True(t, ok)
	require.Equal(t, []int{2, 3, 3}, first.Shape)
	assert.Equal(t, data[:18], first.Data)

	inner := sliceArray(first)
	require.Len(t, inner.Keys, 2)
	terminal, ok := inner.Values[1].(Array)
	require.True(t, ok)
	assert.Equal(t, []int{3, 3}, terminal.Shape)
	assert.Equal(t, data[9:18], terminal.Data)
}

// --- Recursive Tree Renderer ---

func TestTreeFirstLevelExpanded(t *testing.T) {
	t.Parallel()
	deepest := Mapping{Keys: []string{"leaf"}, Values: []Value{Scalar{Value: 1}}}
	mid := Mapping{Keys: []string{"mid"}, Values: []Value{deepest}}
	outer := Mapping{Keys: []string{"top"}, Values: []Value{mid}}
	out := renderTree(outer, 0, targetBytesPerValue)
	// Only the first level defaults to expanded.
	assert.Equal(t, 1, strings.Count(out, "<details open>"))
	assert.Equal(t, 1, strings.Count(out, "<details>"))
}

func TestTreeBudgetEarlyExit(t *testing.T) {
	t.Parallel()
	m := Mapping{}
	for i := 0; i < 100; i++ {
		m.Keys = append(m.Keys, fmt.Sprintf("key%02d", i))
		m.Values = append(m.Values, Text{Value: "some value text"})
	}
	out := renderTree(m, 0, 300)
	assert.Contains(t, out, "more items (truncated for performance)")
	assert.Contains(t, out, "key00")
	assert.NotContains(t, out, "key99")
	// Entries rendered plus entries reported skipped account for all 100.
	rendered := strings.Count(out, "row-item")
	var skipped int
	_, err := fmt.Sscanf(out[strings.Index(out, "... and "):], "... and %d more items", &skipped)
	require.NoError(t, err)
	assert.Equal(t, 100, rendered+skipped)
}

func TestTreeDepthGuard(t *testing.T) {
	t.Parallel()
	var v Value = Text{Value: "leaf"}
	for i := 0; i < maxTreeDepth+10; i++ {
		v = Mapping{Keys: []string{"nest"}, Values: []Value{v}}
	}
	out := renderTree(v, 0, targetBytesPerValue)
	assert.Contains(t, out, "maximum nesting depth reached")
}

func TestTreeFragmentEmbedded(t *testing.T) {
	t.Parallel()
	frag := Fragment{HTML: `<table class="styled-table"><tbody></tbody></table>`}
	m := Mapping{Keys: []string{"Slice 0"}, Values: []Value{frag}}
	out := renderTree(m, 0, targetBytesPerValue)
	assert.Contains(t, out, "[Table Slice]")
	assert.Contains(t, out, frag.HTML)
}

func TestTreeTableEntryTruncates(t *testing.T) {
	t.Parallel()
	m := Mapping{Keys: []string{"big"}, Values: []Value{colTable(60, "cell")}}
	out := renderTree(m, 0, 10)
	assert.Contains(t, out, "Table (60x3)")
	// Nested tables carry the brief note, not the top-level wording.
	assert.Contains(t, out, "(Showing first 50 rows of 60)")
	assert.NotContains(t, out, "Limited by display size")
}

func TestTreeArrayEntryBriefNote(t *testing.T) {
	t.Parallel()
	a := Array{Shape: []int{60}, Data: make([]float64, 60)}
	m := Mapping{Keys: []string{"vec"}, Values: []Value{a}}
	out := renderTree(m, 0, 10)
	assert.Contains(t, out, "(Showing first 50 rows of 60)")
	assert.NotContains(t, out, "Limited by display size")
}

// --- Value Formatter ---

func TestRenderValueScalar(t *testing.T) {
	t.Parallel()
	out := renderValue(NamedValue{Name: "n", Value: Scalar{Value: 42.5}}, targetBytesPerValue)
	assert.Equal(t, `<div class="text-box">42.5</div>`, out)
}

func TestRenderValueTextEscaped(t *testing.T) {
	t.Parallel()
	out := renderValue(NamedValue{Name: "s", Value: Text{Value: "<b>&"}}, targetBytesPerValue)
	assert.Contains(t, out, "&lt;b&gt;&amp;")
}

func TestRenderValueHighRankArrayBecomesTree(t *testing.T) {
	t.Parallel()
	a := Array{Shape: []int{2, 2, 2}, Data: make([]float64, 8)}
	out := renderValue(NamedValue{Name: "a", Value: a}, targetBytesPerValue)
	assert.Contains(t, out, "tree-wrapper")
	assert.Contains(t, out, "Slice 0")
	assert.Contains(t, out, "Slice 1")
}

func TestRenderValuePanicIsolated(t *testing.T) {
	t.Parallel()
	// Shape promises more data than is present; indexing panics and the
	// failure is converted into a visible error fragment.
	bad := Array{Shape: []int{2, 2}, Data: []float64{1}}
	out := renderValue(NamedValue{Name: "broken", Value: bad}, targetBytesPerValue)
	assert.Contains(t, out, "error-box")
	assert.Contains(t, out, "Error processing variable 'broken'")
}

// --- Helpers ---

func TestFormatFloat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "3", formatFloat(3))
	assert.Equal(t, "-3", formatFloat(-3))
	assert.Equal(t, "2.5", formatFloat(2.5))
	assert.Equal(t, "NaN", formatFloat(math.NaN()))
}

func TestTruncationNoteString(t *testing.T) {
	t.Parallel()
	n := truncationNote{Shown: 50, Total: 120}
	assert.Equal(t, "(Showing first 50 rows of 120 - Limited by display size)", n.String())
}
