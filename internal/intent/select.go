package intent

import (
	"rental-autotest/internal/entity"
	"sort"
	"strings"
)

const (
	keywordBonus    = 10
	secondHalfBonus = 5
	metaPenalty     = -5
)

// keywordPhrases hint that the fragment right after them is meant for the tag.
var keywordPhrases = map[entity.ActionKind][]string{
	entity.ActionSearchCar:         {"searching cars", "search car", "for searching"},
	entity.ActionFillBookingForm:   {"filling booking", "booking form", "for filling"},
	entity.ActionSubmitBooking:     {"submitting booking", "submit booking", "for submitting"},
	entity.ActionResetForm:         {"resetting form", "reset form", "reset the form", "for resetting"},
	entity.ActionNavigateToSection: {"navigating to", "navigate to", "for navigating"},
	entity.ActionTestContactLinks:  {"contact link", "testing contact", "test contact"},
	entity.ActionCheckPricing:      {"checking pricing", "check pricing", "pricing"},
	entity.ActionValidateEmptyForm: {"validating empty", "empty form", "for validating"},
	entity.ActionCheckCarDetails:   {"checking car details", "car details", "check car"},
}

// metaMarkers flag template echoes rather than the real answer.
var metaMarkers = []string{"example", "format", "use only"}

type Scored struct {
	Candidate entity.Candidate
	Score     int
}

// Select picks one candidate. With none it reports false; with one it is
// returned as is; otherwise the best-ranked wins, even with a negative score.
func Select(text string, candidates []entity.Candidate) (entity.Candidate, bool) {
	switch len(candidates) {
	case 0:
		return entity.Candidate{}, false
	case 1:
		return candidates[0], true
	}

	return Rank(text, candidates)[0].Candidate, true
}

// Rank scores every candidate and sorts them best first. Equal scores keep
// extraction order.
func Rank(text string, candidates []entity.Candidate) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{
			Candidate: c,
			Score:     Score(text, c, precedingText(text, candidates, c)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// Score rates c given the text immediately before it.
func Score(text string, c entity.Candidate, preceding string) int {
	preceding = strings.ToLower(preceding)
	score := 0

	if containsAny(preceding, keywordPhrases[c.Command.Action]) {
		score += keywordBonus
	}

	if c.Offset*2 > len(text) {
		score += secondHalfBonus
	}

	if containsAny(preceding, metaMarkers) {
		score += metaPenalty
	}

	return score
}

// precedingText is the text between the nearest earlier fragment and c,
// both taken at the positions where they were found.
func precedingText(text string, all []entity.Candidate, c entity.Candidate) string {
	start := 0

	for _, other := range all {
		if other.ScanEnd <= c.ScanStart && other.ScanEnd > start {
			start = other.ScanEnd
		}
	}

	if c.ScanStart < start || c.ScanStart > len(text) {
		return ""
	}

	return text[start:c.ScanStart]
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}

	return false
}
