package namelist

import "unicode"

// Valid reports whether s looks like a personal name: letters plus inner
// spaces, hyphens and apostrophes.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) || !unicode.IsLetter(runes[len(runes)-1]) {
		return false
	}
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
		case r == ' ' || r == '-' || r == '\'' || r == '’':
		default:
			return false
		}
	}
	return true
}
