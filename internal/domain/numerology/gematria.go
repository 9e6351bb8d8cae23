// Package numerology holds the pure number derivations used by the scoring
// engine: the letter reduction of names, the six-number date fingerprint and
// a primality test.
package numerology

import "strings"

// Gematria reduces s to an integer with the Pythagorean table
// (a..i = 1..9, j..r = 1..9, s..z = 1..8). The string is lower-cased first
// and anything outside a-z is ignored afterwards.
func Gematria(s string) int {
	sum := 0
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			sum += int((r-'a')%9) + 1
		}
	}
	return sum
}
