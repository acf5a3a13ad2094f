package varviper

// Rendering budgets. These are compile-time policy, not runtime
// configuration: the document must stay openable in a browser no matter how
// large the snapshot is, so oversized values are cut down before they are
// ever materialized.
const (
	// targetBytesPerValue is the HTML byte budget for one rendered value.
	targetBytesPerValue = 15 * 1024 * 1024

	// absoluteRowCeiling caps table rows regardless of how cheap a row is.
	absoluteRowCeiling = 200000

	// minimumRows is the floor: even very wide tables show this many rows.
	minimumRows = 50

	// sampleRows is how many leading rows are rendered to estimate the
	// byte cost of one row.
	sampleRows = 5

	// sampleOverheadBytes approximates the table scaffolding (table/thead/
	// tbody tags) that does not scale with row count.
	sampleOverheadBytes = 100
)

// estimateRowLimit projects how many rows of t fit in targetBytes. It
// renders the first few rows once, measures the bytes per row, and divides
// the budget by that cost. The result is a heuristic, not an exact bound:
// the contract is determinism (same table, same limit) and clamping to
// [minimumRows, absoluteRowCeiling], with zero-row tables returning 0
// without sampling at all.
func estimateRowLimit(t Table, targetBytes int) int {
	total := len(t.Rows)
	if total == 0 {
		return 0
	}
	n := min(sampleRows, total)
	sample := tableMarkup(Table{Columns: t.Columns, Rows: t.Rows[:n]})
	bytesPerRow := (len(sample) - sampleOverheadBytes) / n
	if bytesPerRow <= 0 {
		// Degenerate tiny rows: avoid division collapse.
		bytesPerRow = 1
	}
	limit := targetBytes / bytesPerRow
	if limit < minimumRows {
		limit = minimumRows
	}
	if limit > absoluteRowCeiling {
		limit = absoluteRowCeiling
	}
	return limit
}
