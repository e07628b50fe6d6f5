package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

type appFixture struct {
	svc      *ApplicationService
	events   *fakeEventStore
	apps     *fakeAppStore
	users    *fakeUserStore
	notifier *fakeNotifier
	eventSvc *EventService
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	events := newFakeEventStore()
	apps := newFakeAppStore()
	users := newFakeUserStore()
	notifier := newFakeNotifier()

	eventSvc := NewEventService(events, notifier)
	eventSvc.SetClock(func() time.Time { return testNow })

	return &appFixture{
		svc:      NewApplicationService(apps, events, users, notifier),
		events:   events,
		apps:     apps,
		users:    users,
		notifier: notifier,
		eventSvc: eventSvc,
	}
}

// openEvent creates and publishes an event to submit against.
func (fx *appFixture) openEvent(t *testing.T, needsPhoto bool) model.Event {
	t.Helper()
	f := validFields()
	f.NeedsPhoto = needsPhoto
	ev, err := fx.eventSvc.Create(context.Background(), f)
	require.NoError(t, err)
	ev, err = fx.eventSvc.Publish(context.Background(), ev.ID)
	require.NoError(t, err)
	return ev
}

func fields() ApplicationFields {
	return ApplicationFields{FullName: "Jane Doe", Phone: "+15550101234", Consent: true}
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)

		app, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationPending, app.Status)
		require.NotNil(t, app.GroupMessageRef, "moderation message ref recorded")
		assert.Equal(t, []int64{app.ID}, fx.notifier.published)

		// Profile captured for the saved-data shortcut.
		u, err := fx.svc.Profile(ctx, 500)
		require.NoError(t, err)
		require.NotNil(t, u.FullName)
		assert.Equal(t, "Jane Doe", *u.FullName)
	})

	t.Run("closed event refuses applications", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		require.NoError(t, fx.eventSvc.Close(ctx, ev.ID))

		_, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrEventNotOpen)
	})

	t.Run("unknown event refuses applications", func(t *testing.T) {
		fx := newAppFixture(t)
		_, err := fx.svc.Submit(ctx, 404, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrEventNotOpen)
	})

	t.Run("photo bounds", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, true)

		_, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrMissingPhotos, "photo-required event needs at least one")

		_, err = fx.svc.Submit(ctx, ev.ID, 500, fields(), []string{"p1", "p2", "p3", "p4"})
		assert.ErrorIs(t, err, ErrMissingPhotos, "more than the cap is refused")

		app, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), []string{"p1", "p2"})
		require.NoError(t, err)

		photos, err := fx.svc.Photos(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, photos)
	})

	t.Run("duplicate while pending or approved", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)

		app, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err)

		_, err = fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrDuplicateApplication)

		require.NoError(t, fx.svc.Approve(ctx, app.ID))
		_, err = fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrDuplicateApplication)
	})

	t.Run("rejection reopens submission", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)

		app, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err)
		require.NoError(t, fx.svc.Reject(ctx, app.ID))

		again, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err)
		assert.NotEqual(t, app.ID, again.ID, "resubmission creates a fresh application")
	})

	t.Run("blocked user is refused", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		require.NoError(t, fx.svc.BlockUser(ctx, 500))

		_, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		assert.ErrorIs(t, err, ErrUserBlocked)
	})

	t.Run("moderation message failure does not lose the application", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		fx.notifier.publishErr = assert.AnError

		app, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err, "the application is persisted even when delivery fails")
		assert.Nil(t, app.GroupMessageRef)

		list, err := fx.svc.ListByEvent(ctx, ev.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestApplicationService_Moderation(t *testing.T) {
	ctx := context.Background()

	t.Run("approve notifies and refreshes", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		app, _ := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)

		require.NoError(t, fx.svc.Approve(ctx, app.ID))

		stored, _ := fx.svc.Get(ctx, app.ID)
		assert.Equal(t, model.ApplicationApproved, stored.Status)
		assert.Equal(t, []int64{500}, fx.notifier.approved)
		assert.Equal(t, []int64{app.ID}, fx.notifier.refreshed)
	})

	t.Run("reject notifies the applicant", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		app, _ := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)

		require.NoError(t, fx.svc.Reject(ctx, app.ID))
		assert.Equal(t, []int64{500}, fx.notifier.rejected)
	})

	t.Run("double review is an invalid transition", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		app, _ := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)

		require.NoError(t, fx.svc.Approve(ctx, app.ID))
		assert.ErrorIs(t, fx.svc.Approve(ctx, app.ID), ErrInvalidTransition)
		assert.ErrorIs(t, fx.svc.Reject(ctx, app.ID), ErrInvalidTransition)
		assert.Len(t, fx.notifier.approved, 1, "no duplicate applicant notice")
	})
}

func TestApplicationService_SetPrimary(t *testing.T) {
	ctx := context.Background()

	submitApproved := func(t *testing.T, fx *appFixture, eventID, userID int64) model.Application {
		t.Helper()
		app, err := fx.svc.Submit(ctx, eventID, userID, fields(), nil)
		require.NoError(t, err)
		require.NoError(t, fx.svc.Approve(ctx, app.ID))
		return app
	}

	t.Run("selection moves between candidates, one primary at a time", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		first := submitApproved(t, fx, ev.ID, 500)
		second := submitApproved(t, fx, ev.ID, 501)

		require.NoError(t, fx.svc.SetPrimary(ctx, first.ID))
		require.NoError(t, fx.svc.SetPrimary(ctx, second.ID))

		list, err := fx.svc.ListApproved(ctx, ev.ID)
		require.NoError(t, err)
		var primaries []int64
		for _, a := range list {
			if a.IsPrimary {
				primaries = append(primaries, a.ID)
			}
		}
		assert.Equal(t, []int64{second.ID}, primaries, "selection replaces the prior primary")
	})

	t.Run("instruction delivered once per transition", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)
		app := submitApproved(t, fx, ev.ID, 500)

		require.NoError(t, fx.svc.SetPrimary(ctx, app.ID))
		require.NoError(t, fx.svc.SetPrimary(ctx, app.ID), "re-selecting the current primary is accepted")
		assert.Equal(t, []int64{app.ID}, fx.notifier.instructions, "no re-delivery on the no-op")
	})

	t.Run("pending or rejected cannot be primary", func(t *testing.T) {
		fx := newAppFixture(t)
		ev := fx.openEvent(t, false)

		pending, err := fx.svc.Submit(ctx, ev.ID, 500, fields(), nil)
		require.NoError(t, err)
		assert.ErrorIs(t, fx.svc.SetPrimary(ctx, pending.ID), ErrInvalidTransition)

		rejected, err := fx.svc.Submit(ctx, ev.ID, 501, fields(), nil)
		require.NoError(t, err)
		require.NoError(t, fx.svc.Reject(ctx, rejected.ID))
		assert.ErrorIs(t, fx.svc.SetPrimary(ctx, rejected.ID), ErrInvalidTransition)
	})
}
