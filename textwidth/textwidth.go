// Package textwidth measures the display width of formatted text so
// column_limit and alignment column widths are counted in display cells,
// not raw runes or bytes — matters once a source file contains fullwidth
// identifiers or CJK comment text, which do occur in real hardware repos.
package textwidth

import "golang.org/x/text/width"

// String returns the display width of s in terminal cells: each rune
// contributes 2 cells if it folds to an East-Asian Wide or Fullwidth form,
// 1 otherwise. Tabs are not expected in formatter output and count as 1.
func String(s string) int {
	total := 0
	for _, r := range s {
		total += Rune(r)
	}
	return total
}

// Rune returns the display width of a single rune.
func Rune(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
