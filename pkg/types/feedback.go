// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Rubric criterion names as they appear as section headers in the feedback report.
const (
	SectionThesis         = "Thesis"
	SectionEvidence       = "Evidence and Commentary"
	SectionSophistication = "Sophistication"
)

// RubricNames lists the rubric criteria in canonical report order.
var RubricNames = []string{SectionThesis, SectionEvidence, SectionSophistication}

// QuoteFeedbackPair holds one excerpt from the essay and the grader's
// commentary on it. Feedback may be empty; Quote never is.
type QuoteFeedbackPair struct {
	Quote    string `json:"quote" yaml:"quote"`
	Feedback string `json:"feedback" yaml:"feedback"`
}

// RubricSection holds the parsed content of one rubric criterion.
type RubricSection struct {
	// Name is one of RubricNames.
	Name string `json:"name" yaml:"name"`

	// Grade is a "<int>/<int>" token, or empty when the section had none.
	Grade string `json:"grade" yaml:"grade"`

	// Overview is the prose preceding the first quote.
	Overview string `json:"overview" yaml:"overview"`

	// Quotes lists quote/feedback pairs in document order.
	Quotes []QuoteFeedbackPair `json:"quotes" yaml:"quotes"`
}

// FeedbackDocument is the structured result of parsing one feedback report.
// Sections follow document order; canonical ordering is left to the renderer.
type FeedbackDocument struct {
	OverallGrade    string          `json:"overall_grade" yaml:"overall_grade"`
	OverallOverview string          `json:"overall_overview" yaml:"overall_overview"`
	Sections        []RubricSection `json:"sections" yaml:"sections"`
}

// Section returns the section with the given name, if present.
func (d FeedbackDocument) Section(name string) (RubricSection, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return RubricSection{}, false
}
