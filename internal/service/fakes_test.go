package service

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
	"github.com/iliyamo/procedure-booking-bot/internal/repository"
)

// In-memory store fakes mirroring the SQL repositories' observable
// behavior, including the conditional-update semantics the services
// depend on.

type fakeEventStore struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]model.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{nextID: 1, events: make(map[int64]model.Event)}
}

func (f *fakeEventStore) Create(_ context.Context, ev *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = f.nextID
	f.nextID++
	ev.Status = model.EventDraft
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeEventStore) Get(_ context.Context, id int64) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return ev, nil
}

func (f *fakeEventStore) MarkPublished(_ context.Context, id, messageRef int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok || ev.Status != model.EventDraft {
		return false, nil
	}
	ev.Status = model.EventPublished
	ev.MessageRef = &messageRef
	f.events[id] = ev
	return true, nil
}

func (f *fakeEventStore) MarkClosed(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok || ev.Status != model.EventPublished {
		return false, nil
	}
	ev.Status = model.EventClosed
	f.events[id] = ev
	return true, nil
}

func (f *fakeEventStore) ListOpen(_ context.Context, today string) ([]model.Event, error) {
	return f.filter(func(ev model.Event) bool {
		return ev.Status == model.EventPublished && ev.Date >= today
	}), nil
}

func (f *fakeEventStore) ListPast(_ context.Context, today string) ([]model.Event, error) {
	return f.filter(func(ev model.Event) bool {
		return ev.Status != model.EventDraft && ev.Date < today
	}), nil
}

func (f *fakeEventStore) ListByDate(_ context.Context, date string) ([]model.Event, error) {
	return f.filter(func(ev model.Event) bool {
		return ev.Status != model.EventClosed && ev.Date == date
	}), nil
}

func (f *fakeEventStore) CloseElapsed(_ context.Context, today, nowSlot string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, ev := range f.events {
		if ev.Status != model.EventPublished {
			continue
		}
		if ev.Date < today || (ev.Date == today && ev.Time <= nowSlot) {
			ev.Status = model.EventClosed
			f.events[id] = ev
			n++
		}
	}
	return n, nil
}

func (f *fakeEventStore) filter(keep func(model.Event) bool) []model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, ev := range f.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeAppStore struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]model.Application
	photos map[int64][]string
}

func newFakeAppStore() *fakeAppStore {
	return &fakeAppStore{
		nextID: 1,
		apps:   make(map[int64]model.Application),
		photos: make(map[int64][]string),
	}
}

func (f *fakeAppStore) Create(_ context.Context, app *model.Application, photos []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.EventID == app.EventID && a.UserID == app.UserID && a.Status != model.ApplicationRejected {
			return repository.ErrDuplicate
		}
	}
	app.ID = f.nextID
	f.nextID++
	app.Status = model.ApplicationPending
	f.apps[app.ID] = *app
	f.photos[app.ID] = append([]string(nil), photos...)
	return nil
}

func (f *fakeAppStore) Get(_ context.Context, id int64) (model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return model.Application{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppStore) MarkReviewed(_ context.Context, id int64, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok || a.Status != model.ApplicationPending {
		return false, nil
	}
	a.Status = status
	f.apps[id] = a
	return true, nil
}

func (f *fakeAppStore) SetPrimary(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if a.Status != model.ApplicationApproved {
		return false, repository.ErrNotApproved
	}
	if a.IsPrimary {
		return false, nil
	}
	for oid, other := range f.apps {
		if other.EventID == a.EventID && other.IsPrimary {
			other.IsPrimary = false
			f.apps[oid] = other
		}
	}
	a.IsPrimary = true
	f.apps[id] = a
	return true, nil
}

func (f *fakeAppStore) HasActive(_ context.Context, eventID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.EventID == eventID && a.UserID == userID && a.Status != model.ApplicationRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppStore) ListByEvent(_ context.Context, eventID int64) ([]model.Application, error) {
	return f.filter(func(a model.Application) bool { return a.EventID == eventID }), nil
}

func (f *fakeAppStore) ListApproved(_ context.Context, eventID int64) ([]model.Application, error) {
	return f.filter(func(a model.Application) bool {
		return a.EventID == eventID && a.Status == model.ApplicationApproved
	}), nil
}

func (f *fakeAppStore) SetGroupMessageRef(_ context.Context, id, messageRef int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.GroupMessageRef = &messageRef
	f.apps[id] = a
	return nil
}

func (f *fakeAppStore) Photos(_ context.Context, applicationID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.photos[applicationID], nil
}

func (f *fakeAppStore) filter(keep func(model.Application) bool) []model.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Application
	for _, a := range f.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]model.User)}
}

func (f *fakeUserStore) EnsureExists(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		f.users[userID] = model.User{ID: userID}
	}
	return nil
}

func (f *fakeUserStore) Get(_ context.Context, userID int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, userID int64, fullName, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.ID = userID
	u.FullName = &fullName
	u.Phone = &phone
	f.users[userID] = u
	return nil
}

func (f *fakeUserStore) Block(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsBlocked = true
	f.users[userID] = u
	return nil
}

func (f *fakeUserStore) IsBlocked(_ context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].IsBlocked, nil
}

// fakeNotifier records every outward delivery so tests can assert on
// cardinality. Error injection simulates transport failures.
type fakeNotifier struct {
	mu sync.Mutex

	announceErr error
	publishErr  error

	nextRef      int64
	announced    []int64 // event IDs
	published    []int64 // application IDs
	refreshed    []int64 // application IDs
	approved     []int64 // user IDs
	rejected     []int64 // user IDs
	instructions []int64 // application IDs
}

func newFakeNotifier() *fakeNotifier { return &fakeNotifier{nextRef: 100} }

func (f *fakeNotifier) ref() int64 {
	f.nextRef++
	return f.nextRef
}

func (f *fakeNotifier) AnnounceEvent(_ context.Context, ev model.Event) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.announceErr != nil {
		return 0, f.announceErr
	}
	f.announced = append(f.announced, ev.ID)
	return f.ref(), nil
}

func (f *fakeNotifier) PublishApplication(_ context.Context, app model.Application, _ model.Event, _ []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.published = append(f.published, app.ID)
	return f.ref(), nil
}

func (f *fakeNotifier) RefreshApplicationMessage(_ context.Context, app model.Application, _ model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, app.ID)
	return nil
}

func (f *fakeNotifier) NotifyApproved(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, userID)
	return nil
}

func (f *fakeNotifier) NotifyRejected(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, userID)
	return nil
}

func (f *fakeNotifier) SendPrimaryInstruction(_ context.Context, app model.Application, _ model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instructions = append(f.instructions, app.ID)
	return nil
}
