// Package vocabulary is the closed registry of actions the orchestrator
// understands, with their fields and defaults.
package vocabulary

import (
	"rental-autotest/internal/entity"
	"rental-autotest/internal/site"
	"strings"
)

const (
	DefaultName      = "John Doe"
	DefaultEmail     = "john@example.com"
	DefaultStartDate = "2025-08-01"
	DefaultEndDate   = "2025-08-07"
	DefaultCarType   = site.CarSUV
	DefaultSection   = site.SectionHome
	DefaultCDW       = true
	DefaultTerms     = true
)

type Entry struct {
	Kind     entity.ActionKind
	Required []string
	Optional []string
	// Purpose and Example feed the instruction prompt.
	Purpose string
	Example string
}

var entries = []Entry{
	{
		Kind:     entity.ActionSearchCar,
		Required: []string{"query"},
		Purpose:  "searching cars",
		Example:  `{"action": "search_car", "query": "BMW"}`,
	},
	{
		Kind:     entity.ActionFillBookingForm,
		Optional: []string{"form_data"},
		Purpose:  "filling booking form",
		Example: `{
  "action": "fill_booking_form",
  "form_data": {
    "name": "Keerthana",
    "email": "keer@example.com",
    "start_date": "2025-08-01",
    "end_date": "2025-08-07",
    "car_type": "VAN",
    "cdw": true,
    "terms": true
  }
}`,
	},
	{
		Kind:    entity.ActionSubmitBooking,
		Purpose: "submitting booking",
		Example: `{"action": "submit_booking"}`,
	},
	{
		Kind:    entity.ActionResetForm,
		Purpose: "resetting form",
		Example: `{"action": "reset_form"}`,
	},
	{
		Kind:     entity.ActionNavigateToSection,
		Optional: []string{"section"},
		Purpose:  "navigating to a section",
		Example:  `{"action": "navigate_to_section", "section": "#cars"}`,
	},
	{
		Kind:    entity.ActionTestContactLinks,
		Purpose: "testing contact links",
		Example: `{"action": "test_contact_links"}`,
	},
	{
		Kind:     entity.ActionCheckPricing,
		Optional: []string{"car_type"},
		Purpose:  "checking pricing",
		Example:  `{"action": "check_pricing", "car_type": "Luxury"}`,
	},
	{
		Kind:    entity.ActionValidateEmptyForm,
		Purpose: "validating empty form",
		Example: `{"action": "validate_empty_form"}`,
	},
	{
		Kind:     entity.ActionCheckCarDetails,
		Optional: []string{"car_type"},
		Purpose:  "checking car details",
		Example:  `{"action": "check_car_details", "car_type": "SUV"}`,
	},
}

// Entries returns the vocabulary in its canonical order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	return out
}

func Lookup(kind entity.ActionKind) (Entry, bool) {
	for _, e := range entries {
		if e.Kind == kind {
			return e, true
		}
	}

	return Entry{}, false
}

func Known(kind entity.ActionKind) bool {
	_, ok := Lookup(kind)

	return ok
}

// Normalize backfills defaults for known actions. Unknown actions are
// returned untouched so the orchestrator can report them.
func Normalize(cmd entity.Command) entity.Command {
	switch cmd.Action {
	case entity.ActionFillBookingForm:
		cmd.FormData = normalizeForm(cmd.FormData)
	case entity.ActionNavigateToSection:
		cmd.Section = normalizeSection(cmd.Section)
	case entity.ActionCheckPricing, entity.ActionCheckCarDetails:
		cmd.CarType = normalizeCarType(cmd.CarType)
	}

	return cmd
}

func normalizeForm(in *entity.FormData) *entity.FormData {
	out := entity.FormData{}
	if in != nil {
		out = *in
	}

	if out.Name == "" {
		out.Name = DefaultName
	}

	if out.Email == "" {
		out.Email = DefaultEmail
	}

	if out.StartDate == "" {
		out.StartDate = DefaultStartDate
	}

	if out.EndDate == "" {
		out.EndDate = DefaultEndDate
	}

	out.CarType = normalizeCarType(out.CarType)

	if out.CDW == nil {
		out.CDW = boolPtr(DefaultCDW)
	}

	if out.Terms == nil {
		out.Terms = boolPtr(DefaultTerms)
	}

	return &out
}

func normalizeSection(section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return DefaultSection
	}

	if !strings.HasPrefix(section, "#") {
		section = "#" + section
	}

	return section
}

func normalizeCarType(carType string) string {
	if strings.TrimSpace(carType) == "" {
		return DefaultCarType
	}

	canonical, _ := site.CanonicalCarType(carType)

	return canonical
}

func boolPtr(b bool) *bool {
	return &b
}
