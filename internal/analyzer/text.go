package analyzer

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// words extracts lowercase word tokens from already-lowercased text.
func words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

func wordCounts(text string) (map[string]int, map[string]struct{}) {
	counts := make(map[string]int)
	set := make(map[string]struct{})
	for _, w := range words(text) {
		counts[w]++
		set[w] = struct{}{}
	}
	return counts, set
}

// firstSentence truncates text at the first sentence break, falling back to
// a fixed-length cut for run-on input.
func firstSentence(text string, maxLen int) string {
	if len(text) <= 50 {
		return text
	}
	if idx := strings.IndexAny(text, ".!?"); idx > 0 && idx < maxLen {
		return strings.TrimSpace(text[:idx]) + "..."
	}
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
