package varviper

import (
	"fmt"
	"html"
)

// renderValue routes one named value to its rendering strategy and returns
// the display fragment. A failure while formatting (a panic from malformed
// shape data, for example) is recovered locally and replaced with a visible
// error box naming the value; it never aborts sibling values.
func renderValue(nv NamedValue, targetBytes int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = errorBox(nv.Name, fmt.Sprint(r))
		}
	}()
	switch v := nv.Value.(type) {
	case Table:
		return renderTable(v, targetBytes)
	case Array:
		if v.Rank() > 2 {
			return `<div class="tree-wrapper">` + renderTree(sliceArray(v), 0, targetBytes) + "</div>"
		}
		return renderArray(v, targetBytes)
	case Mapping, Sequence:
		return `<div class="tree-wrapper">` + renderTree(v, 0, targetBytes) + "</div>"
	case Fragment:
		return `<div class="tree-wrapper">` + renderTree(v, 0, targetBytes) + "</div>"
	case Scalar:
		return textBox(fmt.Sprintf("%v", v.Value))
	case Text:
		return textBox(v.Value)
	case Opaque:
		return textBox(v.Repr)
	default:
		return errorBox(nv.Name, fmt.Sprintf("unsupported value %T", nv.Value))
	}
}

func textBox(s string) string {
	return `<div class="text-box">` + html.EscapeString(s) + "</div>"
}

func errorBox(name, reason string) string {
	return fmt.Sprintf(`<div class="error-box">Error processing variable '%s': %s</div>`,
		html.EscapeString(name), html.EscapeString(reason))
}
