// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript converts degraded transcript text into structured records.
// topics.go holds the canonical topic dictionary and the title/topic/provider
// split of an activity row's middle region.
// Implements: prd002-parsing (R4);
//
//	docs/ARCHITECTURE § Parsing.
package transcript

import (
	"regexp"
	"strings"
)

// canonicalTopics is the ordered dictionary of subject areas printed in the
// topic column. Order is part of the contract: when a middle region contains
// more than one topic, the earliest entry in this list wins (R4.1, R4.2).
var canonicalTopics = []string{
	"Disease State Management/Drug Therapy",
	"HIV/AIDS Therapy",
	"Law Related to Pharmacy Practice",
	"General Pharmacy",
	"Patient Safety",
	"Medication Safety",
	"Immunizations",
	"Compounding",
	"Pain Management",
	"Substance Abuse",
	"Drug Information",
	"Pharmacy Administration",
}

// topicPatterns holds one compiled pattern per dictionary entry, in the same
// order. Each pattern tolerates runs of whitespace between an entry's words
// so wrapped topic text still matches (R4.2).
var topicPatterns = compileTopicPatterns()

func compileTopicPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(canonicalTopics))
	for i, topic := range canonicalTopics {
		words := strings.Fields(topic)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		patterns[i] = regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)
	}
	return patterns
}

// Topics returns the canonical topic names in dictionary order.
func Topics() []string {
	out := make([]string, len(canonicalTopics))
	copy(out, canonicalTopics)
	return out
}

// wrapRepairs maps known mid-word line-wrap artifacts to their repaired
// spelling. Applied to the middle region before dictionary matching (R4.4).
var wrapRepairs = map[string]string{
	"Substan ce": "Substance",
}

func repairWrapArtifacts(s string) string {
	for broken, fixed := range wrapRepairs {
		s = strings.ReplaceAll(s, broken, fixed)
	}
	return s
}

// splitMiddle divides an activity row's middle region into title, topic, and
// provider. It tries each dictionary entry in order and anchors on the
// leftmost occurrence of the first entry that matches: text before the match
// is the title, text after it the provider (R4.2). When no entry matches,
// the region is split by word count and guessed reports true (R4.3).
func splitMiddle(middle string) (title, topic, provider string, guessed bool) {
	middle = repairWrapArtifacts(middle)
	for i, re := range topicPatterns {
		loc := re.FindStringIndex(middle)
		if loc == nil {
			continue
		}
		title = strings.TrimSpace(middle[:loc[0]])
		provider = strings.TrimSpace(middle[loc[1]:])
		return title, canonicalTopics[i], provider, false
	}
	title, topic, provider = splitByThirds(middle)
	return title, topic, provider, true
}

// splitByThirds divides the middle region into three word groups of
// near-equal size. Division slack goes to the title group; a short region
// degrades to empty topic and provider rather than failing the row (R4.3).
func splitByThirds(middle string) (title, topic, provider string) {
	words := strings.Fields(middle)
	n := len(words)
	per := n / 3
	title = strings.Join(words[:n-2*per], " ")
	topic = strings.Join(words[n-2*per:n-per], " ")
	provider = strings.Join(words[n-per:], " ")
	return title, topic, provider
}
