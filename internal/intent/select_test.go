package intent

import (
	"context"
	"rental-autotest/internal/entity"
	"rental-autotest/pkg/apperr"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// padding pushes every fragment into the first half of the text.
var padding = strings.Repeat(" and that is all there is to say about it.", 20)

func selectFrom(t *testing.T, text string) entity.Candidate {
	t.Helper()

	got, ok := Select(text, ExtractCandidates(text))
	require.True(t, ok)

	return got
}

func TestSelectNone(t *testing.T) {
	_, ok := Select("nothing", nil)
	assert.False(t, ok)
}

func TestSelectSingleIsUnconditional(t *testing.T) {
	text := `Use only this example format: {"action": "reset_form"}`

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionResetForm, got.Command.Action)
}

func TestSelectPrefersKeyword(t *testing.T) {
	text := `For searching cars: {"action": "search_car", "query": "BMW"} and then {"action": "check_car_details", "car_type": "VAN"}` + padding

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionSearchCar, got.Command.Action)
}

func TestSelectPrefersKeywordLater(t *testing.T) {
	text := `{"action": "check_car_details", "car_type": "VAN"} Here is the JSON for filling booking form: {"action": "fill_booking_form"}` + padding

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionFillBookingForm, got.Command.Action)
}

func TestSelectPenalisesExample(t *testing.T) {
	text := `For example: {"action": "search_car", "query": "Audi"} My answer: {"action": "search_car", "query": "BMW"}` + padding

	got := selectFrom(t, text)
	assert.Equal(t, "BMW", got.Command.Query)
}

func TestSelectPrefersSecondHalf(t *testing.T) {
	text := `{"action": "reset_form"}` + padding + `{"action": "submit_booking"}`

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionSubmitBooking, got.Command.Action)
}

func TestSelectTieKeepsOrder(t *testing.T) {
	text := `{"action": "reset_form"} or {"action": "submit_booking"}` + padding

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionResetForm, got.Command.Action)
}

func TestSelectAllNegativeStillPicks(t *testing.T) {
	text := `Use only: {"action": "reset_form"} another example {"action": "submit_booking"}` + padding

	ranked := Rank(text, ExtractCandidates(text))
	require.Len(t, ranked, 2)
	assert.Equal(t, -5, ranked[0].Score)
	assert.Equal(t, -5, ranked[1].Score)

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionResetForm, got.Command.Action)
}

func TestSelectPromptEcho(t *testing.T) {
	text := "Use only one of the following formats:\n" +
		"1. For searching cars:\n" +
		`{"action": "search_car", "query": "BMW"}` + "\n" +
		"2. For filling booking form:\n" +
		`{"action": "fill_booking_form", "form_data": {"name": "Keerthana"}}` + "\n" +
		"User Instruction: fill booking form for van\n" +
		"Answer:\n" +
		`{"action": "fill_booking_form", "form_data": {"name": "Alex", "car_type": "VAN"}}` + "\n"

	ranked := Rank(text, ExtractCandidates(text))
	require.Len(t, ranked, 3)
	assert.Equal(t, 15, ranked[0].Score)

	got := selectFrom(t, text)
	require.NotNil(t, got.Command.FormData)
	assert.Equal(t, "Alex", got.Command.FormData.Name)
}

func TestSelectRepeatedFragmentBoundsWindow(t *testing.T) {
	text := `To reset form: {"action": "reset_form"} (that is the format) {"action": "reset_form"} ` +
		`Checking pricing: {"action": "check_pricing", "car_type": "VAN"}`

	candidates := ExtractCandidates(text)
	require.Len(t, candidates, 3)

	scores := make([]int, len(candidates))
	for i, c := range candidates {
		scores[i] = Score(text, c, precedingText(text, candidates, c))
	}

	assert.Equal(t, []int{10, -5, 15}, scores)
	assert.Equal(t, " Checking pricing: ", precedingText(text, candidates, candidates[2]))

	got := selectFrom(t, text)
	assert.Equal(t, entity.ActionCheckPricing, got.Command.Action)
	assert.Equal(t, "VAN", got.Command.CarType)
}

func TestScore(t *testing.T) {
	c := entity.Candidate{Command: entity.Command{Action: entity.ActionCheckPricing}, Offset: 80}
	text := strings.Repeat("x", 100)

	assert.Equal(t, 15, Score(text, c, "Checking PRICING now:"))
	assert.Equal(t, 10, Score(text, c, "the format is: check pricing"))
	assert.Equal(t, 5, Score(text, c, "here"))

	c.Offset = 50
	assert.Equal(t, 0, Score(text, c, "here"))
}

func TestExtractorExtract(t *testing.T) {
	e := NewExtractor(Params{Logger: zap.NewNop()})

	got, err := e.Extract(context.Background(), `Ok: {"action": "validate_empty_form"}`)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionValidateEmptyForm, got.Command.Action)

	_, err = e.Extract(context.Background(), "no idea")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeExtractionFailed, apperr.CodeOf(err))
	assert.Equal(t, "no_candidates", apperr.Reason(err))
}
