package varviper

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// maxTreeDepth bounds recursion over nested containers. The snapshot is
// assumed acyclic, but a cyclic or pathologically deep structure must fail
// safely with a visible notice instead of looping.
const maxTreeDepth = 50

// renderTree renders a Mapping or Sequence as a disclosure tree. level 0
// entries default to expanded, deeper levels to collapsed. A running byte
// counter enforces the budget: once cumulative entry size exceeds
// targetBytes, one truncation notice is emitted and the remaining entries
// are never visited.
func renderTree(v Value, level, targetBytes int) string {
	if level >= maxTreeDepth {
		return `<ul class="tree"><li class="tree-note">(maximum nesting depth reached)</li></ul>`
	}

	var keys []string
	var vals []Value
	switch v := v.(type) {
	case Mapping:
		keys, vals = v.Keys, v.Values
	case Sequence:
		keys = make([]string, len(v.Items))
		for i := range v.Items {
			keys[i] = strconv.Itoa(i)
		}
		vals = v.Items
	default:
		// Not a container; render as a single anonymous entry.
		keys, vals = []string{""}, []Value{v}
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="tree">`)
	used := 0
	for i := range vals {
		if used > targetBytes {
			remaining := len(vals) - i
			fmt.Fprintf(&sb, `<li class="tree-note">... and %d more items (truncated for performance) ...</li>`, remaining)
			break
		}
		entry := "<li>" + renderTreeEntry(keys[i], vals[i], level, targetBytes) + "</li>"
		used += len(entry)
		sb.WriteString(entry)
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func renderTreeEntry(key string, val Value, level, targetBytes int) string {
	k := html.EscapeString(key)
	switch v := val.(type) {
	case Table:
		tag := fmt.Sprintf("Table (%dx%d)", len(v.Rows), len(v.Columns))
		return disclosure(k, tag, false, `<div class="table-wrapper">`+renderNestedTable(v, targetBytes)+"</div>")
	case Array:
		tag := "Array " + shapeString(v.Shape)
		if v.Rank() > 2 {
			return disclosure(k, tag, false, renderTree(sliceArray(v), level+1, targetBytes))
		}
		return disclosure(k, tag, false, `<div class="table-wrapper">`+renderNestedArray(v, targetBytes)+"</div>")
	case Mapping:
		tag := fmt.Sprintf("[%d items]", len(v.Keys))
		return disclosure(k, tag, level < 1, renderTree(v, level+1, targetBytes))
	case Sequence:
		tag := fmt.Sprintf("[%d items]", len(v.Items))
		return disclosure(k, tag, level < 1, renderTree(v, level+1, targetBytes))
	case Fragment:
		if strings.HasPrefix(strings.TrimSpace(v.HTML), "<table") {
			return disclosure(k, "[Table Slice]", false, `<div class="table-wrapper">`+v.HTML+"</div>")
		}
		return leafEntry(k, v.HTML)
	case Scalar:
		return leafEntry(k, fmt.Sprintf("%v", v.Value))
	case Text:
		return leafEntry(k, v.Value)
	case Opaque:
		return leafEntry(k, v.Repr)
	default:
		return leafEntry(k, "-")
	}
}

// disclosure wraps content in a collapsible details element with a labeled
// summary. key must already be escaped; tag is escaped here.
func disclosure(key, tag string, open bool, content string) string {
	openAttr := ""
	if open {
		openAttr = " open"
	}
	return fmt.Sprintf(
		`<details%s><summary><span class="key">%s</span> <span class="meta type-tag">%s</span></summary>%s</details>`,
		openAttr, key, html.EscapeString(tag), content)
}

func leafEntry(key, text string) string {
	return fmt.Sprintf(
		`<div class="row-item"><span class="key">%s: </span><span class="val">%s</span></div>`,
		key, html.EscapeString(text))
}
