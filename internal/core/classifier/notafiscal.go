package classifier

import "strings"

const (
	DetectorNotaFiscal          = "nota_fiscal"
	DetectorNotaFiscalMunicipal = "nota_fiscal_municipal"
	DetectorNotaFiscalEstadual  = "nota_fiscal_estadual"
)

// Municipal (NFS-e) weights.
const (
	municipalTomador      = 2
	municipalPrestador    = 2
	municipalNotaPhrase   = 2
	municipalPrefeitura   = 2
	municipalFieldLabel   = 1
	municipalManyCNPJ     = 3
	municipalSingleCNPJ   = 1
	municipalLongDigitRun = 1
	municipalThreshold    = 8
)

// Estadual (NF-e / DANFE) weights.
const (
	estadualDanfe       = 3
	estadualNFeMention  = 2
	estadualChaveAcesso = 2
	estadualAccessKey   = 3
	estadualManyCNPJ    = 2
	estadualSingleCNPJ  = 1
	estadualInscricao   = 1
	estadualThreshold   = 7
)

var (
	municipalNotaPhrases = []string{
		"nota fiscal", "nfs-e", "nfs e", "nfse",
		"código de verificação", "codigo de verificacao",
	}

	// Each label found adds one point, so overlapping labels such as
	// "serviço" and "serviço(s)" both count.
	municipalFieldLabels = []string{
		"chave de acesso",
		"inscrição municipal",
		"inscricao municipal",
		"iss",
		"serviço",
		"servicos",
		"serviço(s)",
		"regime especial tributação",
		"competência",
		"competencia",
		"discriminação dos serviços",
		"discriminacao dos servicos",
		"valor dos serviços",
		"valor total dos serviços",
	}

	// The leading space keeps "nfe" inside other words from counting.
	estadualNFeMentions    = []string{" nfe", " nf-e", " nf e"}
	estadualDanfeMarkers   = []string{"danfe", "documento auxiliar"}
	estadualChaveMarkers   = []string{"chave de acesso", "chave acesso"}
	estadualInscricaoMarks = []string{"inscrição estadual", "inscricao estadual", "i.e."}
)

// ScoreNotaFiscalMunicipal scores text as a city-issued service invoice.
// The text must mention "prefeitura" and an invoice phrase before any
// evidence is counted.
func ScoreNotaFiscalMunicipal(text string) Evaluation {
	if isBlank(text) {
		return rejected(DetectorNotaFiscalMunicipal, municipalThreshold)
	}

	lower := searchForm(text)
	s := newScorer(DetectorNotaFiscalMunicipal, municipalThreshold)
	if !strings.Contains(lower, "prefeitura") || !containsAny(lower, municipalNotaPhrases...) {
		return s.gateFailed()
	}

	s.addIf(strings.Contains(lower, "tomador"), "tomador", municipalTomador)
	s.addIf(strings.Contains(lower, "prestador"), "prestador", municipalPrestador)
	s.add("nota_fiscal_phrase", municipalNotaPhrase)
	s.add("prefeitura", municipalPrefeitura)
	for _, label := range municipalFieldLabels {
		s.addIf(strings.Contains(lower, label), "field:"+label, municipalFieldLabel)
	}
	switch n := CountCNPJ(text); {
	case n >= 2:
		s.add("cnpj_multiple", municipalManyCNPJ)
	case n == 1:
		s.add("cnpj_single", municipalSingleCNPJ)
	}
	s.addIf(HasLongDigitRun(text), "long_digit_run", municipalLongDigitRun)

	return s.result()
}

// ScoreNotaFiscalEstadual scores text as a state goods invoice or its DANFE
// print. There is no gate.
func ScoreNotaFiscalEstadual(text string) Evaluation {
	if isBlank(text) {
		return rejected(DetectorNotaFiscalEstadual, estadualThreshold)
	}

	lower := searchForm(text)
	s := newScorer(DetectorNotaFiscalEstadual, estadualThreshold)

	s.addIf(containsAny(lower, estadualDanfeMarkers...), "danfe", estadualDanfe)
	s.addIf(containsAny(lower, estadualNFeMentions...), "nfe_mention", estadualNFeMention)
	s.addIf(containsAny(lower, estadualChaveMarkers...), "chave_de_acesso", estadualChaveAcesso)
	s.addIf(HasAccessKey(text), "access_key", estadualAccessKey)
	switch n := CountCNPJ(text); {
	case n >= 2:
		s.add("cnpj_multiple", estadualManyCNPJ)
	case n == 1:
		s.add("cnpj_single", estadualSingleCNPJ)
	}
	s.addIf(containsAny(lower, estadualInscricaoMarks...), "inscricao_estadual", estadualInscricao)

	return s.result()
}

// IsNotaFiscal reports whether text is either a municipal or a state invoice.
func IsNotaFiscal(text string) bool {
	return ScoreNotaFiscalMunicipal(text).Matched || ScoreNotaFiscalEstadual(text).Matched
}

// ScoreNotaFiscal returns the winning branch evaluation, or the municipal one
// when neither matched.
func ScoreNotaFiscal(text string) Evaluation {
	municipal := ScoreNotaFiscalMunicipal(text)
	if municipal.Matched {
		return municipal
	}
	if estadual := ScoreNotaFiscalEstadual(text); estadual.Matched {
		return estadual
	}
	return municipal
}
