package classifier

import (
	"regexp"
	"strings"
)

const (
	DetectorBodyMail = "body_mail"

	bodyMailMaxLines       = 120
	bodyMailLookahead      = 2
	bodyMailHeaderEmailHit = 4
	bodyMailPhrasePresent  = 1
	bodyMailThreshold      = 5
)

// A header is one of the listed names followed by a colon, space or tab.
var mailHeaderPattern = regexp.MustCompile(`(?i)^(de|para|from|to|cc|cco|bcc|assunto|subject|data|sent|reply-to)[: \t]`)

var bodyMailPhrases = []string{
	"segue em anexo",
	"em anexo",
	"anexo",
	"bom dia",
	"boa tarde",
	"boa noite",
	"favor ",
	"gentileza",
	"segue abaixo",
}

// ScoreBodyMail scores text as the body of an e-mail message. Header evidence
// alone stays below the threshold; a conversational phrase is also needed.
func ScoreBodyMail(text string) Evaluation {
	if isBlank(text) {
		return rejected(DetectorBodyMail, bodyMailThreshold)
	}

	normalized := NormalizeNewlines(text)
	s := newScorer(DetectorBodyMail, bodyMailThreshold)

	if hits := countHeaderEmailHits(strings.Split(normalized, "\n")); hits > 0 {
		s.add("header_with_email", bodyMailHeaderEmailHit)
	}
	s.addIf(containsAny(searchForm(normalized), bodyMailPhrases...), "conversational_phrase", bodyMailPhrasePresent)

	return s.result()
}

// IsBodyMail reports whether text reads as an e-mail message.
func IsBodyMail(text string) bool {
	return ScoreBodyMail(text).Matched
}

// countHeaderEmailHits counts header lines among the first bodyMailMaxLines
// that carry an address on the same line or on the next non-blank line, at
// most bodyMailLookahead lines below.
func countHeaderEmailHits(lines []string) int {
	limit := len(lines)
	if limit > bodyMailMaxLines {
		limit = bodyMailMaxLines
	}

	hits := 0
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if !mailHeaderPattern.MatchString(line) {
			continue
		}
		if HasEmailAddress(line) || nextLineHasEmail(lines, i) {
			hits++
		}
	}
	return hits
}

func nextLineHasEmail(lines []string, header int) bool {
	for j := header + 1; j <= header+bodyMailLookahead && j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if next == "" {
			continue
		}
		return HasEmailAddress(next)
	}
	return false
}
