package transcript

import "strings"

// Normalize canonicalizes line endings and deletes page-break control
// characters left by PDF text extraction. Applying it twice yields the same
// result as applying it once (R1.3).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.ReplaceAll(text, "\f", "")
}
