package classifier

import (
	"regexp"
	"unicode"
)

// Patterns are compiled once and shared; regexp.Regexp is safe for
// concurrent use.
var (
	emailPattern          = regexp.MustCompile(`(?i)[a-z0-9_.+\-]+@[a-z0-9\-]+\.[a-z0-9.\-]{2,}`)
	cnpjPattern           = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)
	longDigitRunPattern   = regexp.MustCompile(`\d{8,}`)
	digitRunPattern       = regexp.MustCompile(`\d{44,}`)
	wideNumericPattern    = regexp.MustCompile(`[\d\s.\-]{45,}`)
	replySeparatorPattern = regexp.MustCompile(`(?im)^-{2,}\s*(mensagem original|original message|forwarded message)\s*-{2,}$`)
)

const accessKeyLength = 44

// HasEmailAddress reports whether text contains something shaped like an
// e-mail address.
func HasEmailAddress(text string) bool {
	return emailPattern.MatchString(text)
}

// CountCNPJ counts non-overlapping CNPJ-shaped matches (NN.NNN.NNN/NNNN-NN,
// every separator optional). A match touching another digit is a slice of a
// longer number, such as an access key, and is not counted.
func CountCNPJ(text string) int {
	n := 0
	for _, loc := range cnpjPattern.FindAllStringIndex(text, -1) {
		if isDigitAt(text, loc[0]-1) || isDigitAt(text, loc[1]) {
			continue
		}
		n++
	}
	return n
}

func isDigitAt(text string, i int) bool {
	return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9'
}

// HasLongDigitRun reports a run of at least eight consecutive digits.
func HasLongDigitRun(text string) bool {
	return longDigitRunPattern.MatchString(text)
}

// HasAccessKey reports a run of exactly 44 consecutive digits, the length of
// an NF-e access key. Longer runs do not count.
func HasAccessKey(text string) bool {
	for _, run := range digitRunPattern.FindAllString(text, -1) {
		if len(run) == accessKeyLength {
			return true
		}
	}
	return false
}

// HasWideNumericRun reports a span of 45 or more characters made only of
// digits, whitespace, dots and dashes: how a barcode line usually survives
// extraction.
func HasWideNumericRun(text string) bool {
	return wideNumericPattern.MatchString(text)
}

// HasReplySeparator reports a "-- Original Message --" style line.
func HasReplySeparator(text string) bool {
	return replySeparatorPattern.MatchString(text)
}

// CountDigits counts every Unicode decimal digit in text.
func CountDigits(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Signals is a snapshot of every reusable pattern over one text.
type Signals struct {
	EmailAddress   bool `json:"emailAddress"`
	CNPJCount      int  `json:"cnpjCount"`
	LongDigitRun   bool `json:"longDigitRun"`
	AccessKey      bool `json:"accessKey"`
	WideNumericRun bool `json:"wideNumericRun"`
	ReplySeparator bool `json:"replySeparator"`
	DigitCount     int  `json:"digitCount"`
}

func ExtractSignals(text string) Signals {
	return Signals{
		EmailAddress:   HasEmailAddress(text),
		CNPJCount:      CountCNPJ(text),
		LongDigitRun:   HasLongDigitRun(text),
		AccessKey:      HasAccessKey(text),
		WideNumericRun: HasWideNumericRun(text),
		ReplySeparator: HasReplySeparator(text),
		DigitCount:     CountDigits(text),
	}
}
