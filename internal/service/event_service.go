package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// EventService owns the event lifecycle: draft → published → closed,
// linear with no back-transitions. Drafts become published when the
// creation dialog is confirmed; published events close manually or when
// their slot time passes.
type EventService struct {
	events   EventStore
	notifier Notifier
	now      func() time.Time
}

func NewEventService(events EventStore, notifier Notifier) *EventService {
	return &EventService{events: events, notifier: notifier, now: time.Now}
}

// SetClock replaces the time source used for date validation and the
// elapsed-event sweep. Tests use it to pin "today".
func (s *EventService) SetClock(now func() time.Time) { s.now = now }

// EventFields is the payload collected by the event-creation dialog.
type EventFields struct {
	Date       string
	Time       string
	Procedure  string
	NeedsPhoto bool
	Comment    string
}

// Create validates the payload and persists a draft event. The date must
// fall inside the offered range, the time on the slot grid and the
// procedure inside the fixed catalog.
func (s *EventService) Create(ctx context.Context, f EventFields) (model.Event, error) {
	if !model.ValidDate(f.Date, s.now()) {
		return model.Event{}, invalid("date outside the offered range")
	}
	if !model.ValidSlot(f.Time) {
		return model.Event{}, invalid("time is not an offered slot")
	}
	known := false
	for _, p := range model.ProcedureTypes {
		if p == f.Procedure {
			known = true
			break
		}
	}
	if !known {
		return model.Event{}, invalid("unknown procedure type")
	}

	ev := model.Event{
		Date:       f.Date,
		Time:       f.Time,
		Procedure:  f.Procedure,
		NeedsPhoto: f.NeedsPhoto,
	}
	if f.Comment != "" {
		c := f.Comment
		ev.Comment = &c
	}
	if err := s.events.Create(ctx, &ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Publish announces a draft event to the channel and transitions it to
// published with the announcement reference attached. Publishing anything
// but a draft is a state conflict.
func (s *EventService) Publish(ctx context.Context, id int64) (model.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if ev.Status != model.EventDraft {
		return model.Event{}, ErrStateConflict
	}

	ref, err := s.notifier.AnnounceEvent(ctx, ev)
	if err != nil {
		return model.Event{}, err
	}
	ok, err := s.events.MarkPublished(ctx, id, ref)
	if err != nil {
		return model.Event{}, err
	}
	if !ok {
		return model.Event{}, ErrStateConflict
	}
	ev.Status = model.EventPublished
	ev.MessageRef = &ref
	return ev, nil
}

// Close transitions a published event to closed. Closing an already
// closed event is a no-op; closing a draft is a state conflict.
func (s *EventService) Close(ctx context.Context, id int64) error {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return err
	}
	switch ev.Status {
	case model.EventClosed:
		return nil
	case model.EventPublished:
	default:
		return ErrStateConflict
	}

	ok, err := s.events.MarkClosed(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race; closed by someone else is still success.
		ev, err = s.events.Get(ctx, id)
		if err != nil {
			return err
		}
		if ev.Status != model.EventClosed {
			return ErrStateConflict
		}
	}
	return nil
}

// Get fetches a single event.
func (s *EventService) Get(ctx context.Context, id int64) (model.Event, error) {
	return s.events.Get(ctx, id)
}

// ListOpen returns published events from today onwards for browsing.
func (s *EventService) ListOpen(ctx context.Context) ([]model.Event, error) {
	return s.events.ListOpen(ctx, s.today())
}

// ListPast returns published events whose date already passed.
func (s *EventService) ListPast(ctx context.Context) ([]model.Event, error) {
	return s.events.ListPast(ctx, s.today())
}

// ListByDate returns all non-closed events on a given date.
func (s *EventService) ListByDate(ctx context.Context, date string) ([]model.Event, error) {
	return s.events.ListByDate(ctx, date)
}

// CloseElapsed closes published events whose slot time has passed. Run
// periodically from main.
func (s *EventService) CloseElapsed(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.events.CloseElapsed(ctx, now.Format("2006-01-02"), now.Format("15:04"))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("event-service: closed %d elapsed events", n)
	}
	return n, nil
}

func (s *EventService) today() string { return s.now().Format("2006-01-02") }
