// Package text provides small utilities for text measurement.
// The functions here are shared between the heuristic assessor, the repair
// engine, and the AI providers so that counting behavior stays consistent.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Counting runes instead of bytes keeps limits correct for multi-byte input.
//
// Examples:
//
//	CountRunes("hello")    // returns 5
//	CountRunes("héllo")    // returns 5
//	CountRunes("")         // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-delimited tokens in the given text.
// Consecutive whitespace is treated as a single delimiter, so the empty
// string and all-whitespace strings both count zero words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
