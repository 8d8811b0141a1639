package queridodiario

import "regexp"

// CNPJ pattern with the fourth group pinned to "0001": the identifiers
// sought in gazette excerpts are head-office branch suffixes.
var cnpjPattern = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?0001-?\d{2}`)

var nonDigits = regexp.MustCompile(`[^\d]`)

// NormalizeCNPJ strips punctuation, validates exactly 14 digits and
// re-renders the canonical XX.XXX.XXX/XXXX-XX form. Idempotent: normalizing
// an already-normalized CNPJ returns the identical string.
func NormalizeCNPJ(raw string) (string, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 14 {
		return "", false
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:], true
}

// ExtractCNPJs scans free text for CNPJ numbers and returns them normalized
// and deduplicated, in order of first appearance.
func ExtractCNPJs(text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	seen := make(map[string]bool)

	for _, match := range cnpjPattern.FindAllString(text, -1) {
		normalized, ok := NormalizeCNPJ(match)
		if !ok || seen[normalized] {
			continue
		}
		seen[normalized] = true
		found = append(found, normalized)
	}

	return found
}
