package safety

import (
	"regexp"
	"strings"
)

var (
	delimiterRe  = regexp.MustCompile("```" + `|"""|\*\*\*`)
	specialTagRe = regexp.MustCompile(`<\|.*?\|>`)
	roleMarkerRe = regexp.MustCompile(`\[SYSTEM\]|\[INST\]|\[/INST\]`)
	roleLabelRe  = regexp.MustCompile(`USER:|ASSISTANT:|SYSTEM:`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Sanitize strips structural markup an attacker could use to smuggle
// instructions past the prompt template, without touching the intent-bearing
// text. Removing one token can splice surviving fragments into new markup
// ("[SYS" + "USER:" + "TEM]" reassembles a role marker), so the strip passes
// repeat until the text stops changing. The fixpoint makes Sanitize
// idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(input string) string {
	s := input
	for {
		next := stripMarkup(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func stripMarkup(s string) string {
	s = delimiterRe.ReplaceAllString(s, "")
	s = specialTagRe.ReplaceAllString(s, "")
	s = roleMarkerRe.ReplaceAllString(s, "")
	s = roleLabelRe.ReplaceAllString(s, "")
	return blankRunRe.ReplaceAllString(s, "\n\n")
}
