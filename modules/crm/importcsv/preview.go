package importcsv

// PlaceholderCell stands in for empty cells in previews so the table reads
// as intentionally blank rather than broken.
const PlaceholderCell = "—"

// DefaultPreviewRows is how many rows the mapping screen shows.
const DefaultPreviewRows = 5

// Preview returns up to n data rows with empty cells replaced by the
// placeholder glyph. The table itself is never mutated.
func Preview(t *Table, n int) [][]string {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell == "" {
				cells[i] = PlaceholderCell
			} else {
				cells[i] = cell
			}
		}
		out = append(out, cells)
	}
	return out
}
