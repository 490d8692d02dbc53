package classifier

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

// Rule binds a detector to the label it assigns.
type Rule struct {
	Name     string
	Label    domain.DocumentType
	Evaluate func(text string) Evaluation
}

func (r Rule) Matches(text string) bool {
	return r.Evaluate(text).Matched
}

// DefaultRules is the production priority order. BodyMail comes first so
// that a forwarded e-mail quoting a boleto or an invoice stays Outros.
func DefaultRules() []Rule {
	return []Rule{
		{Name: DetectorBodyMail, Label: domain.DocumentTypeOutros, Evaluate: ScoreBodyMail},
		{Name: DetectorBoleto, Label: domain.DocumentTypeBoleto, Evaluate: ScoreBoleto},
		{Name: DetectorNotaFiscal, Label: domain.DocumentTypeNotaFiscal, Evaluate: ScoreNotaFiscal},
		{Name: DetectorFaturaRecibo, Label: domain.DocumentTypeFaturaRecibo, Evaluate: ScoreFaturaRecibo},
	}
}

// Decision is the label chosen for one text and the rule that produced it.
// Rule is empty when no detector matched.
type Decision struct {
	Type domain.DocumentType `json:"type"`
	Rule string              `json:"rule,omitempty"`
}

type Classifier struct {
	rules   []Rule
	workers int
}

type Option func(*Classifier)

// WithWorkers bounds how many documents of a batch are classified at once.
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = append([]Rule(nil), rules...)
		}
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:   DefaultRules(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify applies the rules in order; the first match wins and Outros is
// the fallback.
func (c *Classifier) Classify(text string) Decision {
	for _, rule := range c.rules {
		if rule.Matches(text) {
			return Decision{Type: rule.Label, Rule: rule.Name}
		}
	}
	return Decision{Type: domain.DocumentTypeOutros}
}

// Explain evaluates every rule without short-circuiting.
func (c *Classifier) Explain(text string) []Evaluation {
	out := make([]Evaluation, 0, len(c.rules))
	for _, rule := range c.rules {
		eval := rule.Evaluate(text)
		if eval.Detector != rule.Name {
			eval.Branch = eval.Detector
			eval.Detector = rule.Name
		}
		out = append(out, eval)
	}
	return out
}

func (c *Classifier) ClassifyDocument(doc domain.ExtractedDocument) domain.ClassifiedDocument {
	return domain.ClassifiedDocument{
		FileName:    doc.FileName,
		FullPath:    doc.FullPath,
		TextContent: doc.TextContent,
		FileType:    c.Classify(doc.TextContent).Type,
	}
}

// ClassifyBatch labels every document of batch. Documents are processed
// concurrently but the output keeps input order. Cancellation is checked
// before each document.
func (c *Classifier) ClassifyBatch(ctx context.Context, batch *domain.ExtractionBatch) (*domain.ClassificationBatchResult, error) {
	if batch == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "classify batch", errors.New("batch is nil"))
	}

	result := &domain.ClassificationBatchResult{
		SourceIdentifier:    batch.SourceIdentifier,
		WorkspaceFolderName: batch.WorkspaceFolderName,
		WorkspaceFullPath:   batch.WorkspaceFullPath,
		Files:               make([]domain.ClassifiedDocument, len(batch.Files)),
	}
	if len(batch.Files) == 0 {
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range batch.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Files[i] = c.ClassifyDocument(batch.Files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
