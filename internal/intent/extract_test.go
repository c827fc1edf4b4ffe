package intent

import (
	"rental-autotest/internal/entity"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCandidatesSingle(t *testing.T) {
	fragment := `{"action": "search_car", "query": "BMW"}`
	text := "Sure! Here is the instruction:\n" + fragment + "\nHope this helps."

	got := ExtractCandidates(text)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, fragment, c.Fragment)
	assert.Equal(t, map[string]any{"action": "search_car", "query": "BMW"}, c.Fields)
	assert.Equal(t, strings.Index(text, fragment), c.Offset)
	assert.Equal(t, c.Offset+len(fragment), c.End)
	assert.Equal(t, entity.Command{Action: entity.ActionSearchCar, Query: "BMW"}, c.Command)
}

func TestExtractCandidatesNone(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "prose", text: "I cannot help with that."},
		{name: "unclosed", text: `{"action": "reset_form"`},
		{name: "not json", text: "{action: reset_form}"},
		{name: "reversed braces", text: "} then {"},
		{name: "array only", text: `["reset_form"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractCandidates(tt.text))
		})
	}
}

func TestExtractCandidatesNested(t *testing.T) {
	text := `Filling now: {"action": "fill_booking_form", "form_data": {"name": "Keerthana", "email": "keer@example.com", "car_type": "VAN", "cdw": true, "terms": "false"}}`

	got := ExtractCandidates(text)
	require.Len(t, got, 1)

	cmd := got[0].Command
	assert.Equal(t, entity.ActionFillBookingForm, cmd.Action)
	require.NotNil(t, cmd.FormData)
	assert.Equal(t, "Keerthana", cmd.FormData.Name)
	assert.Equal(t, "keer@example.com", cmd.FormData.Email)
	assert.Equal(t, "VAN", cmd.FormData.CarType)
	assert.Equal(t, "", cmd.FormData.StartDate)
	require.NotNil(t, cmd.FormData.CDW)
	assert.True(t, *cmd.FormData.CDW)
	require.NotNil(t, cmd.FormData.Terms)
	assert.False(t, *cmd.FormData.Terms)
}

func TestExtractCandidatesSkipsMalformed(t *testing.T) {
	text := `{oops, not json} then {"action": "reset_form"} and {"action": "submit_booking",} and {"action": "check_pricing", "car_type": "VAN"}`

	got := ExtractCandidates(text)
	require.Len(t, got, 2)
	assert.Equal(t, entity.ActionResetForm, got[0].Command.Action)
	assert.Equal(t, entity.ActionCheckPricing, got[1].Command.Action)
	assert.Less(t, got[0].Offset, got[1].Offset)
}

func TestExtractCandidatesUnbalancedPrefix(t *testing.T) {
	text := `{ "note": "dangling" {"action": "reset_form"}`

	got := ExtractCandidates(text)
	require.Len(t, got, 1)
	assert.Equal(t, entity.ActionResetForm, got[0].Command.Action)
}

func TestExtractCandidatesQuotedBraceLimitation(t *testing.T) {
	// the "}" inside the value closes the fragment early
	text := `{"action": "search_car", "query": "a}b"}`

	assert.Empty(t, ExtractCandidates(text))
}

func TestExtractCandidatesDuplicatesShareFirstOffset(t *testing.T) {
	fragment := `{"action": "reset_form"}`
	text := "First " + fragment + " and again " + fragment

	got := ExtractCandidates(text)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].Offset)
	assert.Equal(t, got[0].Offset, got[1].Offset)

	assert.Equal(t, 6, got[0].ScanStart)
	assert.Equal(t, 6+len(fragment), got[0].ScanEnd)
	assert.Equal(t, strings.LastIndex(text, fragment), got[1].ScanStart)
	assert.Equal(t, len(text), got[1].ScanEnd)
}

func TestExtractCandidatesManyUnclosedBraces(t *testing.T) {
	text := strings.Repeat("{", 200000) + `{"action": "reset_form"}`

	got := ExtractCandidates(text)
	require.Len(t, got, 1)
	assert.Equal(t, entity.ActionResetForm, got[0].Command.Action)
	assert.Equal(t, 200000, got[0].ScanStart)
}

func TestExtractCandidatesUnknownAction(t *testing.T) {
	got := ExtractCandidates(`{"action": "fly_to_moon", "speed": 3}`)
	require.Len(t, got, 1)
	assert.Equal(t, entity.ActionKind("fly_to_moon"), got[0].Command.Action)
	assert.Equal(t, float64(3), got[0].Fields["speed"])
}

func TestExtractCandidatesNonStringFields(t *testing.T) {
	got := ExtractCandidates(`{"action": "search_car", "query": 42}`)
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].Command.Query)
}
