package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
	"github.com/iliyamo/procedure-booking-bot/internal/session"
)

// Conversation kinds. One active session per (actor, kind).
const (
	KindCreateEvent = "create_event"
	KindApply       = "apply"
)

// Step names shared between the flows and the dispatcher's markup builders.
const (
	stepDate       = "date"
	stepTime       = "time"
	stepProcedure  = "procedure"
	stepNeedsPhoto = "needs_photo"
	stepComment    = "comment"
	stepConfirm    = "confirm"
	stepFullName   = "full_name"
	stepPhone      = "phone"
	stepPhotos     = "photos"
	stepConsent    = "consent"
)

// Field keys accumulated in session state.
const (
	fieldEventID    = "event_id"
	fieldNeedsPhoto = "needs_photo"
	fieldDate       = "date"
	fieldTime       = "time"
	fieldProcedure  = "procedure"
	fieldComment    = "comment"
	fieldFullName   = "full_name"
	fieldPhone      = "phone"
	fieldConsent    = "consent"
)

// NewCreateEventFlow builds the six-step admin dialog that collects an
// event payload: date, time, procedure, photo requirement, optional
// comment, confirmation. The clock pins "today" for date validation.
func NewCreateEventFlow(now func() time.Time) *session.Flow {
	return &session.Flow{
		Kind: KindCreateEvent,
		Steps: []session.Step{
			{
				Name:   stepDate,
				Prompt: "Select the event date:",
				Apply: func(s *session.Session, in session.Input) string {
					if !model.ValidDate(in.Text, now()) {
						return "That date is not available. Pick one of the offered dates."
					}
					s.Fields[fieldDate] = in.Text
					return ""
				},
			},
			{
				Name:   stepTime,
				Prompt: "Select the event time:",
				Apply: func(s *session.Session, in session.Input) string {
					if !model.ValidSlot(in.Text) {
						return "That time is not available. Pick one of the offered slots."
					}
					s.Fields[fieldTime] = in.Text
					return ""
				},
			},
			{
				Name:   stepProcedure,
				Prompt: "Select the procedure type:",
				Apply: func(s *session.Session, in session.Input) string {
					for _, p := range model.ProcedureTypes {
						if p == in.Text {
							s.Fields[fieldProcedure] = in.Text
							return ""
						}
					}
					return "Unknown procedure. Pick one from the list."
				},
			},
			{
				Name:   stepNeedsPhoto,
				Prompt: "Should candidates provide a photo of the treatment area?",
				Apply: func(s *session.Session, in session.Input) string {
					if in.Text != "yes" && in.Text != "no" {
						return "Please answer with the buttons."
					}
					s.Fields[fieldNeedsPhoto] = in.Text
					return ""
				},
			},
			{
				Name:   stepComment,
				Prompt: "Add a comment for the event (optional). Tap Skip if none is needed.",
				Apply: func(s *session.Session, in session.Input) string {
					s.Fields[fieldComment] = strings.TrimSpace(in.Text)
					return ""
				},
			},
			{
				Name:   stepConfirm,
				Prompt: "", // summary is composed by the dispatcher
				Apply: func(s *session.Session, in session.Input) string {
					if in.Text != "confirm" {
						return "Please confirm or cancel with the buttons."
					}
					return ""
				},
			},
		},
	}
}

// NewApplyFlow builds the five-step candidate dialog: full name, phone,
// photo collection (a bounded repeat-until-done loop), consent,
// confirmation. The photo step is skipped by the dispatcher when the
// event does not require photos.
func NewApplyFlow() *session.Flow {
	return &session.Flow{
		Kind: KindApply,
		Steps: []session.Step{
			{
				Name:   stepFullName,
				Prompt: "Enter your full name (last, first, patronymic):",
				Apply: func(s *session.Session, in session.Input) string {
					name := strings.TrimSpace(in.Text)
					if len(name) < 3 || !strings.Contains(name, " ") {
						return "Please enter your complete full name."
					}
					s.Fields[fieldFullName] = name
					return ""
				},
			},
			{
				Name:   stepPhone,
				Prompt: "Enter your phone number:",
				Apply: func(s *session.Session, in session.Input) string {
					if phoneDigits(in.Text) < 10 {
						return "That phone number looks invalid. Enter it again:"
					}
					s.Fields[fieldPhone] = strings.TrimSpace(in.Text)
					return ""
				},
			},
			{
				Name:   stepPhotos,
				Prompt: fmt.Sprintf("Send photos of the treatment area (up to %d). Send /done when finished.", model.MaxApplicationPhotos),
				Loop:   true,
				Apply: func(s *session.Session, in session.Input) string {
					if in.Done {
						if s.Fields[fieldNeedsPhoto] == "yes" && len(s.Photos) == 0 {
							return "A photo is required for this event. Add at least one photo."
						}
						return ""
					}
					if in.Photo == "" {
						return "Send a photo, or /done to finish."
					}
					if len(s.Photos) >= model.MaxApplicationPhotos {
						return fmt.Sprintf("No more than %d photos are allowed. Send /done to finish.", model.MaxApplicationPhotos)
					}
					s.Photos = append(s.Photos, in.Photo)
					return ""
				},
			},
			{
				Name: stepConsent,
				Prompt: "Confirmation:\n\nI confirm that:\n" +
					"- I am at least 18 years old\n" +
					"- I understand the nature of the procedure\n" +
					"- I understand the possible consequences of the procedure",
				Apply: func(s *session.Session, in session.Input) string {
					if in.Text != "consent" {
						return "Please confirm or cancel with the buttons."
					}
					s.Fields[fieldConsent] = "yes"
					return ""
				},
			},
			{
				Name:   stepConfirm,
				Prompt: "", // summary is composed by the dispatcher
				Apply: func(s *session.Session, in session.Input) string {
					if in.Text != "submit" {
						return "Please confirm or cancel with the buttons."
					}
					return ""
				},
			},
		},
	}
}

// phoneDigits counts digits ignoring separators and formatting.
func phoneDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
