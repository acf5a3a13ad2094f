// Package varviper renders a snapshot of named values into a single
// self-contained interactive HTML document for visual exploration.
//
// A snapshot is a slice of [NamedValue], each carrying a name, a declared
// type name, and a [Value]. Values form a closed set of variants:
//
//   - [Table]: 2D labeled data, rendered as a styled HTML table
//   - [Array]: numeric n-dimensional data; rank <= 2 renders as a table,
//     higher ranks are decomposed into labeled slices
//   - [Mapping], [Sequence]: nested containers, rendered as a collapsible
//     disclosure tree
//   - [Fragment]: pre-rendered markup, embedded as-is
//   - [Scalar], [Text], [Opaque]: leaf values, rendered as escaped text
//
// Rendering is budgeted: each value may contribute at most a fixed number of
// bytes to the document. Tables are truncated to an estimated row limit,
// trees stop iterating once their cumulative size exceeds the budget, and
// high-rank arrays are capped at a fixed number of slices. Whatever is
// hidden is announced by a visible truncation note; nothing fails silently,
// and a failure while formatting one value never aborts the rest of the
// document.
//
// The central entry points are [Assemble], which builds a frozen [Document]
// from a snapshot, and [Show], which additionally writes the document to the
// temporary-files location and opens it in the default browser:
//
//	vars, err := varviper.DecodeJSONSnapshot(data)
//	...
//	err = varviper.Show(vars)
//
// The generated document embeds its own interactive runtime: cell range
// selection, table-wide heatmap coloring, column and sidebar resizing,
// sidebar sorting, pop-out windows, tab-separated clipboard export, and
// ad-hoc plotting of selected numeric cells (via the Plotly CDN, the only
// external reference in the document).
package varviper
