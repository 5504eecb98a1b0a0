// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcript

import (
	"regexp"
	"strings"
)

// disclaimerRe captures everything between the disclaimer label and the next
// footer marker, or end of text when no footer follows (R5.1).
var disclaimerRe = regexp.MustCompile(`(?is)Disclaimer\s*:\s*(.*?)(?:Report\s+Generated\s+@|\z)`)

// ParseDisclaimer returns the disclaimer paragraph with runs of whitespace
// collapsed to single spaces. ok is false when the document carries no
// disclaimer label (R5.2).
func ParseDisclaimer(text string) (string, bool) {
	m := disclaimerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.Join(strings.Fields(m[1]), " "), true
}
