package keyword

import "strings"

// Case-insensitive substring match of text against a word list. Returns the
// first matching word (lowercased) and whether any matched. Entries are
// normalized again here; word lists come from external configuration and may
// not be lowercase.
func MatchAnyWord(text string, words []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if strings.Contains(lowered, w) {
			return w, true
		}
	}
	return "", false
}

// Normalizes a configured word list: lowercase, trimmed, empties dropped.
func NormalizeWordList(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
