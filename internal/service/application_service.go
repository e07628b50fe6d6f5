package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
	"github.com/iliyamo/procedure-booking-bot/internal/repository"
)

// ApplicationService owns application submission, moderation and
// primary-candidate selection. Moderation states are pending → approved
// or rejected, both terminal for the row; the primary flag is an
// orthogonal bit settable only on approved applications, unique per event.
type ApplicationService struct {
	apps     ApplicationStore
	events   EventStore
	users    UserStore
	notifier Notifier
}

func NewApplicationService(apps ApplicationStore, events EventStore, users UserStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{apps: apps, events: events, users: users, notifier: notifier}
}

// ApplicationFields is the payload collected by the submission dialog.
type ApplicationFields struct {
	FullName string
	Phone    string
	Consent  bool
}

// Submit validates and persists a candidate's application against an
// event, refreshes the user's cached profile and publishes the moderation
// message. Failure modes, in check order: blocked user, event not open,
// photo bounds, duplicate non-rejected application. The duplicate check is
// backed by a uniqueness constraint so concurrent double submissions
// serialize: exactly one insert wins.
func (s *ApplicationService) Submit(ctx context.Context, eventID, actorID int64, f ApplicationFields, photos []string) (model.Application, error) {
	blocked, err := s.users.IsBlocked(ctx, actorID)
	if err != nil {
		return model.Application{}, err
	}
	if blocked {
		return model.Application{}, ErrUserBlocked
	}

	ev, err := s.events.Get(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Application{}, ErrEventNotOpen
	}
	if err != nil {
		return model.Application{}, err
	}
	if ev.Status != model.EventPublished {
		return model.Application{}, ErrEventNotOpen
	}

	if len(photos) > model.MaxApplicationPhotos {
		return model.Application{}, ErrMissingPhotos
	}
	if ev.NeedsPhoto && len(photos) == 0 {
		return model.Application{}, ErrMissingPhotos
	}

	if dup, err := s.apps.HasActive(ctx, eventID, actorID); err != nil {
		return model.Application{}, err
	} else if dup {
		return model.Application{}, ErrDuplicateApplication
	}

	if err := s.users.EnsureExists(ctx, actorID); err != nil {
		return model.Application{}, err
	}
	if err := s.users.UpdateProfile(ctx, actorID, f.FullName, f.Phone); err != nil {
		return model.Application{}, err
	}

	app := model.Application{
		EventID:  eventID,
		UserID:   actorID,
		FullName: f.FullName,
		Phone:    f.Phone,
		Consent:  f.Consent,
	}
	if err := s.apps.Create(ctx, &app, photos); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Application{}, ErrDuplicateApplication
		}
		return model.Application{}, err
	}

	// Moderation message delivery is best-effort: the application is
	// already persisted and moderators can list it either way.
	ref, err := s.notifier.PublishApplication(ctx, app, ev, photos)
	if err != nil {
		log.Printf("application-service: publish moderation message failed for app %d: %v", app.ID, err)
		return app, nil
	}
	app.GroupMessageRef = &ref
	if err := s.apps.SetGroupMessageRef(ctx, app.ID, ref); err != nil {
		log.Printf("application-service: store message ref failed for app %d: %v", app.ID, err)
	}
	return app, nil
}

// Approve moves a pending application to approved, notifies the applicant
// and refreshes the moderation message. Approving a non-pending row is an
// invalid transition.
func (s *ApplicationService) Approve(ctx context.Context, id int64) error {
	return s.review(ctx, id, model.ApplicationApproved)
}

// Reject moves a pending application to rejected. The (event, user) pair
// may submit again afterwards; each rejection reopens it.
func (s *ApplicationService) Reject(ctx context.Context, id int64) error {
	return s.review(ctx, id, model.ApplicationRejected)
}

func (s *ApplicationService) review(ctx context.Context, id int64, status string) error {
	ok, err := s.apps.MarkReviewed(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return err
	}
	if status == model.ApplicationApproved {
		if err := s.notifier.NotifyApproved(ctx, app.UserID); err != nil {
			log.Printf("application-service: notify applicant %d failed: %v", app.UserID, err)
		}
	} else {
		if err := s.notifier.NotifyRejected(ctx, app.UserID); err != nil {
			log.Printf("application-service: notify applicant %d failed: %v", app.UserID, err)
		}
	}
	s.refresh(ctx, app)
	return nil
}

// SetPrimary selects the application as the single winning candidate of
// its event. The store clears any prior primary and sets the target inside
// one transaction. Instruction delivery fires exactly once per transition
// into primary: re-invoking on an already-primary row is an accepted
// no-op that triggers nothing. An expected serialization conflict between
// racing calls is retried once, then surfaced as a state conflict.
func (s *ApplicationService) SetPrimary(ctx context.Context, id int64) error {
	promoted, err := s.apps.SetPrimary(ctx, id)
	if errors.Is(err, repository.ErrTxConflict) {
		promoted, err = s.apps.SetPrimary(ctx, id)
	}
	switch {
	case errors.Is(err, repository.ErrNotApproved):
		return ErrInvalidTransition
	case errors.Is(err, repository.ErrTxConflict):
		return ErrStateConflict
	case err != nil:
		return err
	}
	if !promoted {
		return nil
	}

	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return err
	}
	ev, err := s.events.Get(ctx, app.EventID)
	if err != nil {
		return err
	}
	if err := s.notifier.SendPrimaryInstruction(ctx, app, ev); err != nil {
		log.Printf("application-service: send instruction for app %d failed: %v", id, err)
	}
	s.refresh(ctx, app)
	return nil
}

// Get fetches an application by id.
func (s *ApplicationService) Get(ctx context.Context, id int64) (model.Application, error) {
	return s.apps.Get(ctx, id)
}

// ListByEvent returns all applications of an event, primaries first.
func (s *ApplicationService) ListByEvent(ctx context.Context, eventID int64) ([]model.Application, error) {
	return s.apps.ListByEvent(ctx, eventID)
}

// ListApproved returns the approved applications of an event.
func (s *ApplicationService) ListApproved(ctx context.Context, eventID int64) ([]model.Application, error) {
	return s.apps.ListApproved(ctx, eventID)
}

// Photos returns the stored photo refs of an application, oldest first.
func (s *ApplicationService) Photos(ctx context.Context, applicationID int64) ([]string, error) {
	return s.apps.Photos(ctx, applicationID)
}

// BlockUser marks a user as blocked so future submissions are refused.
func (s *ApplicationService) BlockUser(ctx context.Context, userID int64) error {
	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return err
	}
	return s.users.Block(ctx, userID)
}

// Profile returns the cached profile for the saved-data shortcut in the
// submission dialog.
func (s *ApplicationService) Profile(ctx context.Context, userID int64) (model.User, error) {
	return s.users.Get(ctx, userID)
}

// EnsureUser records first contact with an actor.
func (s *ApplicationService) EnsureUser(ctx context.Context, userID int64) error {
	return s.users.EnsureExists(ctx, userID)
}

// refresh recomputes the moderation message from current state.
func (s *ApplicationService) refresh(ctx context.Context, app model.Application) {
	ev, err := s.events.Get(ctx, app.EventID)
	if err != nil {
		log.Printf("application-service: load event %d for refresh failed: %v", app.EventID, err)
		return
	}
	if err := s.notifier.RefreshApplicationMessage(ctx, app, ev); err != nil {
		log.Printf("application-service: refresh message for app %d failed: %v", app.ID, err)
	}
}
