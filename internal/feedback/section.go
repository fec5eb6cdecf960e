// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feedback

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/rubric-report/pkg/types"
)

// lineState is the classifier state while walking a section's quotes.
type lineState int

const (
	// stateOverview: no quote has started yet.
	stateOverview lineState = iota
	// stateQuoteOpen: inside a quote whose closing mark has not been seen.
	stateQuoteOpen
	// stateQuoteClosed: the quote is closed; lines are feedback on it.
	stateQuoteClosed
)

func (s lineState) String() string {
	switch s {
	case stateOverview:
		return "overview"
	case stateQuoteOpen:
		return "quote-open"
	case stateQuoteClosed:
		return "quote-closed"
	default:
		return "unknown"
	}
}

// isQuoteMark reports whether r is a straight or typographic double quote.
// PDF extraction does not reliably preserve which curly quote was used, so
// both directions are accepted at either end.
func isQuoteMark(r rune) bool {
	return r == '"' || r == '“' || r == '”'
}

func startsQuote(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return isQuoteMark(r)
}

// closesQuote reports whether line ends the quote in progress: some quote
// mark follows the opening one, with or without attribution after it, as in
// `"Great point," she said.`. On the line that opens the quote the leading
// mark is the opener. On a continuation line a leading mark opens a nested
// quote, unless it is the whole line.
func closesQuote(line string, opening bool) bool {
	s := strings.TrimSpace(line)
	for i, r := range s {
		if i == 0 && (opening || len(s) > utf8.RuneLen(r)) {
			continue
		}
		if isQuoteMark(r) {
			return true
		}
	}
	return false
}

// pairBuilder accumulates the lines of the quote/feedback pair in progress.
type pairBuilder struct {
	quote    []string
	feedback []string
}

// flush appends the pending pair to pairs when a quote was captured and
// resets the builder.
func (b *pairBuilder) flush(pairs []types.QuoteFeedbackPair) []types.QuoteFeedbackPair {
	if len(b.quote) > 0 {
		pairs = append(pairs, types.QuoteFeedbackPair{
			Quote:    JoinLines(b.quote),
			Feedback: JoinLines(b.feedback),
		})
	}
	b.quote, b.feedback = nil, nil
	return pairs
}

// parseSection splits one section's lines into grade, overview and
// quote/feedback pairs.
func parseSection(name string, lines []string) types.RubricSection {
	sec := types.RubricSection{
		Name:   name,
		Quotes: []types.QuoteFeedbackPair{},
	}

	i := 0
	if len(lines) > 0 && IsGradeToken(lines[0]) {
		sec.Grade = lines[0]
		i = 1
	}

	overviewStart := i
	for i < len(lines) && !startsQuote(lines[i]) {
		i++
	}
	sec.Overview = JoinLines(lines[overviewStart:i])

	var pending pairBuilder
	state := stateOverview
	for _, line := range lines[i:] {
		switch {
		case state == stateQuoteOpen:
			pending.quote = append(pending.quote, line)
			if closesQuote(line, false) {
				state = stateQuoteClosed
			}
		case startsQuote(line):
			sec.Quotes = pending.flush(sec.Quotes)
			pending.quote = []string{line}
			state = stateQuoteOpen
			if closesQuote(line, true) {
				state = stateQuoteClosed
			}
		case state == stateQuoteClosed:
			pending.feedback = append(pending.feedback, line)
		}
	}
	sec.Quotes = pending.flush(sec.Quotes)

	return sec
}
