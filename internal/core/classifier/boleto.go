package classifier

const (
	DetectorBoleto = "boleto"

	// boletoMinDigits is the digit count below which no barcode line fits.
	boletoMinDigits = 40
)

// "autentic" is a stem on purpose: it matches both "autenticação" and the
// unaccented "autenticacao" that OCR tends to produce.
var boletoGateKeywords = []string{"ficha", "carteira", "autentic"}

// ScoreBoleto scores text as a bank slip. The score is the digit count of
// the whole text, reported only when the keyword gate passes and a wide
// numeric run exists.
func ScoreBoleto(text string) Evaluation {
	if isBlank(text) {
		return rejected(DetectorBoleto, boletoMinDigits)
	}

	s := newScorer(DetectorBoleto, boletoMinDigits)
	if !containsAll(searchForm(text), boletoGateKeywords...) {
		return s.gateFailed()
	}
	if !HasWideNumericRun(text) {
		return s.result()
	}
	s.add("digits", CountDigits(text))
	return s.result()
}

// IsBoleto reports whether text is a boleto.
func IsBoleto(text string) bool {
	return ScoreBoleto(text).Matched
}
