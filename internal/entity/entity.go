package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionSearchCar         ActionKind = "search_car"
	ActionFillBookingForm   ActionKind = "fill_booking_form"
	ActionSubmitBooking     ActionKind = "submit_booking"
	ActionResetForm         ActionKind = "reset_form"
	ActionNavigateToSection ActionKind = "navigate_to_section"
	ActionTestContactLinks  ActionKind = "test_contact_links"
	ActionCheckPricing      ActionKind = "check_pricing"
	ActionValidateEmptyForm ActionKind = "validate_empty_form"
	ActionCheckCarDetails   ActionKind = "check_car_details"
)

// Command is a structured instruction for the orchestrator. Fields that do
// not apply to Action are left zero.
type Command struct {
	Action   ActionKind
	Query    string
	Section  string
	CarType  string
	FormData *FormData
}

// FormData mirrors the booking form. Nil flags mean "not given".
type FormData struct {
	Name      string
	Email     string
	StartDate string
	EndDate   string
	CarType   string
	CDW       *bool
	Terms     *bool
}

// Candidate is a command recovered from raw model output but not yet chosen.
type Candidate struct {
	Command Command
	// Fields is the decoded fragment exactly as it appeared.
	Fields   map[string]any
	Fragment string
	// Offset is the byte offset of the fragment's first occurrence.
	Offset int
	End    int
	// ScanStart and ScanEnd bound the fragment where it was actually found.
	// They differ from Offset and End only for repeated fragments.
	ScanStart int
	ScanEnd   int
}

type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

type ExecutionResult struct {
	RunID       uuid.UUID
	Action      ActionKind
	Status      ResultStatus
	Message     string
	Screenshot  *Screenshot
	Checkpoints []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

func (r *ExecutionResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Screenshot is never mutated after capture.
type Screenshot struct {
	Label   string
	TakenAt time.Time
	Width   int
	Height  int
	Data    []byte
}

type RunRecord struct {
	Prompt string
	Result *ExecutionResult
	At     time.Time
}
