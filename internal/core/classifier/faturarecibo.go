package classifier

import "strings"

const (
	DetectorFaturaRecibo = "fatura_recibo"

	faturaReciboKeyword   = 1
	faturaReciboThreshold = 5
)

// Matched against the folded text, so the list itself carries no accents.
var faturaReciboKeywords = []string{
	"hospedagem", "hospede", "diaria", "hotel", "quarto", "reserva",
	"check-in", "check-out", "locacao", "locatario", "locador",
	"aluguel", "aluguer", "carro", "veiculo",
	"lodging", "guest", "room", "reservation", "checkin", "checkout",
	"daily rate", "rate", "night", "nights", "rental", "vehicle", "car",
}

// ScoreFaturaRecibo scores text as a lodging or rental RPS receipt. Keyword
// search runs on the accent-folded lowercase text.
func ScoreFaturaRecibo(text string) Evaluation {
	if isBlank(text) {
		return rejected(DetectorFaturaRecibo, faturaReciboThreshold)
	}

	folded := foldedForm(text)
	s := newScorer(DetectorFaturaRecibo, faturaReciboThreshold)
	if !strings.Contains(folded, "rps") || !strings.Contains(folded, "recibo provisorio de servico") {
		return s.gateFailed()
	}

	for _, kw := range faturaReciboKeywords {
		s.addIf(strings.Contains(folded, kw), "keyword:"+kw, faturaReciboKeyword)
	}
	return s.result()
}

// IsFaturaRecibo reports whether text is a lodging/rental receipt.
func IsFaturaRecibo(text string) bool {
	return ScoreFaturaRecibo(text).Matched
}
