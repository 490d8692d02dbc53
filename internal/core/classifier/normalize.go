package classifier

import (
	"regexp"
	"strings"
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// NormalizeNewlines converts CRLF and CR to LF and collapses any run of three
// or more newlines into a single blank line.
func NormalizeNewlines(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return blankRun.ReplaceAllString(s, "\n\n")
}

// Only the Portuguese diacritics seen in real documents are folded.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// FoldAccents maps the Portuguese accented lowercase letters to their base
// letter. Callers lowercase first.
func FoldAccents(text string) string {
	return accentFolder.Replace(text)
}

// searchForm is the lowercase copy used for keyword search.
func searchForm(text string) string {
	return strings.ToLower(text)
}

// foldedForm is the lowercase, accent-folded copy.
func foldedForm(text string) string {
	return FoldAccents(strings.ToLower(text))
}

func containsAll(haystack string, needles ...string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
