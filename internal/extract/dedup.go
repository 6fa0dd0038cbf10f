// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// dedupFold keeps the first occurrence of each item, comparing
// case-insensitively, and stops after max items.
func dedupFold(items []string, max int) []string {
	return dedupBy(items, max, strings.ToLower)
}

// dedupBy keeps the first item for each key and stops after max items.
func dedupBy(items []string, max int, key func(string) string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}

// prefixKey lower-cases s and truncates it to n runes.
func prefixKey(n int) func(string) string {
	return func(s string) string {
		r := []rune(strings.ToLower(s))
		if len(r) > n {
			r = r[:n]
		}
		return string(r)
	}
}

// runeLen is the length of s in characters.
func runeLen(s string) int {
	return len([]rune(s))
}

// between reports whether s has between lo and hi characters inclusive.
func between(s string, lo, hi int) bool {
	n := runeLen(s)
	return n >= lo && n <= hi
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
