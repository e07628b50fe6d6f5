package service

import (
	"context"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// EventStore is the persistence surface the event lifecycle manager needs.
// Implemented by repository.EventRepo; tests supply in-memory fakes.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	Get(ctx context.Context, id int64) (model.Event, error)
	MarkPublished(ctx context.Context, id, messageRef int64) (bool, error)
	MarkClosed(ctx context.Context, id int64) (bool, error)
	ListOpen(ctx context.Context, today string) ([]model.Event, error)
	ListPast(ctx context.Context, today string) ([]model.Event, error)
	ListByDate(ctx context.Context, date string) ([]model.Event, error)
	CloseElapsed(ctx context.Context, today, nowSlot string) (int64, error)
}

// ApplicationStore is the persistence surface the application lifecycle
// manager needs. Implemented by repository.ApplicationRepo.
type ApplicationStore interface {
	Create(ctx context.Context, app *model.Application, photos []string) error
	Get(ctx context.Context, id int64) (model.Application, error)
	MarkReviewed(ctx context.Context, id int64, status string) (bool, error)
	SetPrimary(ctx context.Context, id int64) (bool, error)
	HasActive(ctx context.Context, eventID, userID int64) (bool, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Application, error)
	ListApproved(ctx context.Context, eventID int64) ([]model.Application, error)
	SetGroupMessageRef(ctx context.Context, id, messageRef int64) error
	Photos(ctx context.Context, applicationID int64) ([]string, error)
}

// UserStore is the persistence surface for candidate profiles.
// Implemented by repository.UserRepo.
type UserStore interface {
	EnsureExists(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, phone string) error
	Block(ctx context.Context, userID int64) error
	IsBlocked(ctx context.Context, userID int64) (bool, error)
}

// Notifier is the outward-message adapter invoked on every status-changing
// operation. Implementations recompute message state from the entities
// passed in rather than applying deltas, so refreshes are idempotent.
type Notifier interface {
	AnnounceEvent(ctx context.Context, ev model.Event) (int64, error)
	PublishApplication(ctx context.Context, app model.Application, ev model.Event, photos []string) (int64, error)
	RefreshApplicationMessage(ctx context.Context, app model.Application, ev model.Event) error
	NotifyApproved(ctx context.Context, userID int64) error
	NotifyRejected(ctx context.Context, userID int64) error
	SendPrimaryInstruction(ctx context.Context, app model.Application, ev model.Event) error
}
