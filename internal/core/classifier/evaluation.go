package classifier

// Contribution is one named piece of evidence added to a detector score.
type Contribution struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Evaluation is the outcome of a single detector call. GatePassed is false
// when a mandatory keyword gate failed, in which case Score stays zero.
// Branch names the sub-detector that produced the result when a rule
// combines several, such as the municipal and state invoice scorers.
type Evaluation struct {
	Detector      string         `json:"detector"`
	Branch        string         `json:"branch,omitempty"`
	GatePassed    bool           `json:"gatePassed"`
	Score         int            `json:"score"`
	Threshold     int            `json:"threshold"`
	Matched       bool           `json:"matched"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// scorer accumulates contributions within one detector call.
type scorer struct {
	eval Evaluation
}

func newScorer(detector string, threshold int) *scorer {
	return &scorer{eval: Evaluation{Detector: detector, GatePassed: true, Threshold: threshold}}
}

func (s *scorer) add(name string, points int) {
	s.eval.Score += points
	s.eval.Contributions = append(s.eval.Contributions, Contribution{Name: name, Points: points})
}

func (s *scorer) addIf(cond bool, name string, points int) {
	if cond {
		s.add(name, points)
	}
}

func (s *scorer) gateFailed() Evaluation {
	s.eval.GatePassed = false
	s.eval.Score = 0
	s.eval.Contributions = nil
	return s.eval
}

func (s *scorer) result() Evaluation {
	s.eval.Matched = s.eval.Score >= s.eval.Threshold
	return s.eval
}

func rejected(detector string, threshold int) Evaluation {
	return Evaluation{Detector: detector, Threshold: threshold}
}
