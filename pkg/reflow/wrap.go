package reflow

import "strings"

// Wrap splits text into lines whose measured width does not exceed maxWidth,
// filling each line greedily word by word. Words are atomic: a single word
// wider than maxWidth is kept unsplit on its own line, and that line is the
// only case allowed to overflow. Word order and content are preserved; runs
// of whitespace between words collapse to a single space.
//
// text must be a single paragraph with no embedded newlines. An empty or
// whitespace-only text produces no lines.
func Wrap(text string, measure func(string) float64, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 1)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
