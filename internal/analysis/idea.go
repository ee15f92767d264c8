package analysis

import "strings"

// NormalizeIdea trims user-supplied idea text. The text is otherwise passed
// through untouched; escaping happens where it is rendered. An empty return
// value means there is nothing to evaluate.
func NormalizeIdea(raw string) string {
	return strings.TrimSpace(raw)
}
