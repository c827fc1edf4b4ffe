// Package intent recovers a single structured command from free-form model
// output that may also contain prose, echoed templates and broken JSON.
package intent

import (
	"encoding/json"
	"fmt"
	"rental-autotest/internal/entity"
	"strconv"
	"strings"
)

// ExtractCandidates returns every brace-balanced fragment of text that
// decodes as a JSON object, in order of appearance. Braces inside quoted
// values are not special, so a literal "{" or "}" in a value can split a
// fragment in the wrong place.
func ExtractCandidates(text string) []entity.Candidate {
	var out []entity.Candidate

	closers := matchBraces(text)

	for i := 0; i < len(text); {
		if text[i] != '{' {
			i++

			continue
		}

		end, ok := closers[i]
		if !ok {
			// unbalanced: keep looking for later fragments
			i++

			continue
		}

		fragment := text[i : end+1]
		if c, ok := parseFragment(fragment); ok {
			c.Offset = strings.Index(text, fragment)
			c.End = c.Offset + len(fragment)
			c.ScanStart = i
			c.ScanEnd = end + 1
			out = append(out, c)
		}

		i = end + 1
	}

	return out
}

// matchBraces pairs every balanced "{" with its closing "}" in one pass.
// Opening braces that are never closed have no entry; a "}" with nothing
// open is ignored.
func matchBraces(text string) map[int]int {
	closers := make(map[int]int)

	var open []int

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}

			closers[open[len(open)-1]] = i
			open = open[:len(open)-1]
		}
	}

	return closers
}

func parseFragment(fragment string) (entity.Candidate, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(fragment), &fields); err != nil || fields == nil {
		return entity.Candidate{}, false
	}

	return entity.Candidate{
		Command:  commandFrom(fields),
		Fields:   fields,
		Fragment: fragment,
	}, true
}

func commandFrom(fields map[string]any) entity.Command {
	cmd := entity.Command{
		Action:  entity.ActionKind(stringField(fields, "action")),
		Query:   stringField(fields, "query"),
		Section: stringField(fields, "section"),
		CarType: stringField(fields, "car_type"),
	}

	if raw, ok := fields["form_data"].(map[string]any); ok {
		cmd.FormData = &entity.FormData{
			Name:      stringField(raw, "name"),
			Email:     stringField(raw, "email"),
			StartDate: stringField(raw, "start_date"),
			EndDate:   stringField(raw, "end_date"),
			CarType:   stringField(raw, "car_type"),
			CDW:       boolField(raw, "cdw"),
			Terms:     boolField(raw, "terms"),
		}
	}

	return cmd
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func boolField(m map[string]any, key string) *bool {
	switch v := m[key].(type) {
	case bool:
		return &v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return &b
		}
	}

	return nil
}
