// Package trigger detects clip phrases in chat messages and in speech.
package trigger

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// TextCommand is the exact chat message that requests a clip.
const TextCommand = "!clip"

var (
	// textPattern tolerates the usual ways of misspelling "terry" in chat.
	textPattern  = regexp.MustCompile(`(?i)\bt[ea3]rr[yi1l!|]\s+clip\s+that\b`)
	voicePattern = regexp.MustCompile(`(?i)\bterry\s+clip\s+that\b`)
)

// MatchText reports whether a chat message asks for a clip, returning the
// matched text.
func MatchText(content string) (string, bool) {
	if content == TextCommand {
		return TextCommand, true
	}
	if m := textPattern.FindString(content); m != "" {
		return m, true
	}
	return "", false
}

// PhraseMatcher finds the wake phrase in a transcript. Besides the literal
// phrase it accepts transcripts whose words sound like the phrase, or that are
// close enough by Jaro-Winkler similarity.
type PhraseMatcher struct {
	phrase    []string
	codes     [][2]string
	threshold float64
}

// NewPhraseMatcher creates a matcher for phrase with the given Jaro-Winkler
// threshold.
func NewPhraseMatcher(phrase string, threshold float64) *PhraseMatcher {
	words := tokenize(phrase)
	codes := make([][2]string, len(words))
	for i, w := range words {
		p, s := matchr.DoubleMetaphone(w)
		codes[i] = [2]string{p, s}
	}
	return &PhraseMatcher{
		phrase:    words,
		codes:     codes,
		threshold: threshold,
	}
}

// Match returns the part of transcript that matched.
func (m *PhraseMatcher) Match(transcript string) (string, bool) {
	if s := voicePattern.FindString(transcript); s != "" {
		return s, true
	}

	n := len(m.phrase)
	words := tokenize(transcript)
	if n == 0 || len(words) < n {
		return "", false
	}

	want := strings.Join(m.phrase, " ")
	for i := 0; i+n <= len(words); i++ {
		window := words[i : i+n]
		if m.soundsAlike(window) {
			return strings.Join(window, " "), true
		}
		got := strings.Join(window, " ")
		if matchr.JaroWinkler(got, want, false) >= m.threshold {
			return got, true
		}
	}
	return "", false
}

func (m *PhraseMatcher) soundsAlike(words []string) bool {
	for i, w := range words {
		p, s := matchr.DoubleMetaphone(w)
		if !codesOverlap(m.codes[i], [2]string{p, s}) {
			return false
		}
	}
	return true
}

func codesOverlap(a, b [2]string) bool {
	for _, x := range a {
		if x == "" {
			continue
		}
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
