package varviper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// NamedValue is one captured variable: a name, the runtime type name the
// snapshot harness observed, and the value itself. It is an immutable
// snapshot entry, read once during rendering and discarded afterwards.
type NamedValue struct {
	Name     string
	TypeName string
	Value    Value
}

// Value is the closed set of renderable variants. Implementations live in
// this package only; unknown data must be mapped to one of them (typically
// [Opaque]) before rendering, which is what keeps a single bad value from
// crashing the whole document.
type Value interface {
	kind() valueKind
}

type valueKind int

const (
	kindScalar valueKind = iota
	kindText
	kindTable
	kindArray
	kindMapping
	kindSequence
	kindFragment
	kindOpaque
)

// Scalar is a single numeric or boolean value.
type Scalar struct {
	Value any
}

// Text is a string value. Long strings are rendered in full; only the
// sidebar preview is shortened.
type Text struct {
	Value string
}

// Table is 2D labeled data: a column header and rows of cell strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Array is a numeric n-dimensional array in row-major order.
// len(Data) must equal the product of Shape.
type Array struct {
	Shape []int
	Data  []float64
}

// Rank returns the number of dimensions.
func (a Array) Rank() int { return len(a.Shape) }

// Mapping is an ordered set of key/value entries.
type Mapping struct {
	Keys   []string
	Values []Value
}

// Sequence is an ordered list of values.
type Sequence struct {
	Items []Value
}

// Fragment is pre-rendered markup embedded as-is. It is how array slices
// re-enter the disclosure tree after being rendered to a table.
type Fragment struct {
	HTML string
}

// Opaque is the fallback for values with no richer representation.
type Opaque struct {
	Repr string
}

func (Scalar) kind() valueKind   { return kindScalar }
func (Text) kind() valueKind     { return kindText }
func (Table) kind() valueKind    { return kindTable }
func (Array) kind() valueKind    { return kindArray }
func (Mapping) kind() valueKind  { return kindMapping }
func (Sequence) kind() valueKind { return kindSequence }
func (Fragment) kind() valueKind { return kindFragment }
func (Opaque) kind() valueKind   { return kindOpaque }

// previewWidth is the display width (in terminal columns, so wide runes
// count double) at which string previews are cut for the sidebar.
const previewWidth = 20

// Preview returns the short summary string shown in the sidebar for v:
// shape and numeric range for tabular/array data, length for containers,
// the literal for scalars, and a width-truncated quoted prefix for strings.
func Preview(v Value) string {
	switch v := v.(type) {
	case Table:
		return fmt.Sprintf("Shape: (%d, %d)", len(v.Rows), len(v.Columns))
	case Array:
		base := "Shape: " + shapeString(v.Shape)
		if mn, mx, ok := numericRange(v.Data); ok {
			return base + " | " + rangeString(mn, mx)
		}
		return base
	case Sequence:
		base := fmt.Sprintf("Length: %d", len(v.Items))
		if mn, mx, ok := sequenceRange(v.Items); ok {
			return base + " | " + rangeString(mn, mx)
		}
		return base
	case Mapping:
		return fmt.Sprintf("Length: %d", len(v.Keys))
	case Scalar:
		return fmt.Sprintf("Value: %v", v.Value)
	case Text:
		return strconv.Quote(runewidth.Truncate(v.Value, previewWidth, "..."))
	default:
		return "-"
	}
}

func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// rangeString prints integral ranges without decimals and everything else
// to two places.
func rangeString(mn, mx float64) string {
	if mn == math.Trunc(mn) && mx == math.Trunc(mx) {
		return fmt.Sprintf("Min: %d, Max: %d", int64(mn), int64(mx))
	}
	return fmt.Sprintf("Min: %.2f, Max: %.2f", mn, mx)
}

// numericRange returns the finite min/max of data. It reports ok=false for
// empty data or data containing no finite element.
func numericRange(data []float64) (mn, mx float64, ok bool) {
	for _, f := range data {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if !ok {
			mn, mx, ok = f, f, true
			continue
		}
		mn = math.Min(mn, f)
		mx = math.Max(mx, f)
	}
	return mn, mx, ok
}

// sequenceRange reports the min/max of a sequence whose items are all
// numeric scalars. A single non-numeric item disqualifies the range.
func sequenceRange(items []Value) (mn, mx float64, ok bool) {
	nums := make([]float64, 0, len(items))
	for _, item := range items {
		s, isScalar := item.(Scalar)
		if !isScalar {
			return 0, 0, false
		}
		f, isNum := scalarFloat(s.Value)
		if !isNum {
			return 0, 0, false
		}
		nums = append(nums, f)
	}
	return numericRange(nums)
}

func scalarFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// formatFloat renders a cell value the way the tables and previews expect:
// integral values without a decimal point, NaN as "NaN" so the client
// runtime can recognize it as a placeholder.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
