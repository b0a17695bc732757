package cache

import "strings"

// Normalize turns a raw user prompt into its canonical cache key form:
// trim, lowercase, strip punctuation, collapse whitespace runs. The
// transform is total and idempotent, so repeated prompts that differ
// only in casing or punctuation share one cache entry.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch r {
		case '.', ',', '!', '?', '\'', '"', '\\':
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
