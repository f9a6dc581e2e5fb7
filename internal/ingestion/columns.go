package ingestion

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// columnSpec describes how to find one field in a header row
type columnSpec struct {
	field    string
	aliases  []string
	fallback int // positional index when no alias matches, -1 for none
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// foldHeader lowercases, strips accents and collapses punctuation to single spaces
func foldHeader(s string) string {
	s = accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// headerMatches reports whether alias appears in header as whole words
func headerMatches(header, alias string) bool {
	if header == "" {
		return false
	}
	return strings.Contains(" "+header+" ", " "+alias+" ")
}

// locateColumns resolves every spec against the header row. Specs are
// resolved in order and a column is never assigned to two fields.
func locateColumns(header []Cell, specs []columnSpec) map[string]int {
	folded := lo.Map(header, func(c Cell, _ int) string {
		return foldHeader(CellString(c))
	})

	taken := make(map[int]bool)
	found := make(map[string]int, len(specs))

	for _, spec := range specs {
		idx := -1
		// Exact header matches beat partial ones.
		for _, alias := range spec.aliases {
			if idx >= 0 {
				break
			}
			for i, h := range folded {
				if !taken[i] && h == alias {
					idx = i
					break
				}
			}
		}
		for _, alias := range spec.aliases {
			if idx >= 0 {
				break
			}
			for i, h := range folded {
				if !taken[i] && headerMatches(h, alias) {
					idx = i
					break
				}
			}
		}
		if idx < 0 && spec.fallback >= 0 && !taken[spec.fallback] {
			idx = spec.fallback
		}
		if idx >= 0 {
			taken[idx] = true
			found[spec.field] = idx
		}
	}
	return found
}

// findHeaderRow scans the first maxRows rows for a cell containing any token
// as a whole word, so title rows such as "Filas - Janeiro" are passed over.
// When no row has a whole-word match, headers like "Filas" or "QueueName"
// are accepted by substring, but only in rows with more than one filled
// cell.
func findHeaderRow(table Table, maxRows int, tokens []string) (int, bool) {
	limit := min(len(table), maxRows)

	for i := 0; i < limit; i++ {
		if rowHasToken(table[i], tokens, headerMatches) {
			return i, true
		}
	}
	for i := 0; i < limit; i++ {
		if lo.CountBy(table[i], func(c Cell) bool { return CellString(c) != "" }) < 2 {
			continue
		}
		if rowHasToken(table[i], tokens, strings.Contains) {
			return i, true
		}
	}
	return -1, false
}

func rowHasToken(row []Cell, tokens []string, match func(header, token string) bool) bool {
	for _, c := range row {
		h := foldHeader(CellString(c))
		if h == "" {
			continue
		}
		for _, tok := range tokens {
			if match(h, tok) {
				return true
			}
		}
	}
	return false
}
