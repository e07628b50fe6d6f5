// Package dispatch routes inbound transport updates through the pipeline:
// rate limiter first (a denial short-circuits everything), then command,
// callback-token or free-text handling, advancing conversation sessions
// and invoking the lifecycle managers on completion.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/procedure-booking-bot/internal/limiter"
	"github.com/iliyamo/procedure-booking-bot/internal/model"
	"github.com/iliyamo/procedure-booking-bot/internal/notify"
	"github.com/iliyamo/procedure-booking-bot/internal/repository"
	"github.com/iliyamo/procedure-booking-bot/internal/service"
	"github.com/iliyamo/procedure-booking-bot/internal/session"
)

// Update is one inbound interaction delivered by the transport webhook.
// Exactly one of Text, PhotoRef or Callback is expected to be meaningful.
type Update struct {
	ActorID  int64  `json:"actor_id"`
	Text     string `json:"text,omitempty"`
	PhotoRef string `json:"photo_ref,omitempty"`
	Callback string `json:"callback,omitempty"`
}

// EventManager is the slice of the event lifecycle the dispatcher drives.
type EventManager interface {
	Create(ctx context.Context, f service.EventFields) (model.Event, error)
	Publish(ctx context.Context, id int64) (model.Event, error)
	Close(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (model.Event, error)
	ListOpen(ctx context.Context) ([]model.Event, error)
}

// ApplicationManager is the slice of the application lifecycle the
// dispatcher drives.
type ApplicationManager interface {
	Submit(ctx context.Context, eventID, actorID int64, f service.ApplicationFields, photos []string) (model.Application, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	SetPrimary(ctx context.Context, id int64) error
	ListApproved(ctx context.Context, eventID int64) ([]model.Application, error)
	BlockUser(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (model.User, error)
	EnsureUser(ctx context.Context, userID int64) error
}

// Messenger sends plain replies to actors: prompts, denials, summaries.
type Messenger interface {
	Send(ctx context.Context, userID int64, text string, markup notify.Markup) error
}

// Dispatcher wires the pipeline together. One Handle call per inbound
// update; sessions make the dialogs stateful between calls.
type Dispatcher struct {
	limiter    *limiter.Limiter
	sessions   session.Store
	createFlow *session.Flow
	applyFlow  *session.Flow
	events     EventManager
	apps       ApplicationManager
	out        Messenger
	adminID    int64
	now        func() time.Time
}

func New(lim *limiter.Limiter, sessions session.Store, events EventManager, apps ApplicationManager, out Messenger, adminID int64) *Dispatcher {
	d := &Dispatcher{
		limiter:  lim,
		sessions: sessions,
		events:   events,
		apps:     apps,
		out:      out,
		adminID:  adminID,
		now:      time.Now,
	}
	d.createFlow = NewCreateEventFlow(func() time.Time { return d.now() })
	d.applyFlow = NewApplyFlow()
	return d
}

// SetClock replaces the time source for tests.
func (d *Dispatcher) SetClock(now func() time.Time) { d.now = now }

func (d *Dispatcher) isAdmin(actorID int64) bool { return actorID == d.adminID }

// Handle processes one inbound update. The limiter runs before anything
// else; a denied actor gets a retry-after notice and no other component is
// touched. Handle never returns user mistakes as errors; those become
// reply messages. Only infrastructure failures propagate.
func (d *Dispatcher) Handle(ctx context.Context, u Update) error {
	dec := d.limiter.Admit(u.ActorID, d.isAdmin(u.ActorID))
	if !dec.Allowed {
		secs := int(dec.RetryAfter.Seconds() + 0.5)
		return d.out.Send(ctx, u.ActorID,
			fmt.Sprintf("Too many requests. Try again in %ds.", secs), nil)
	}

	switch {
	case u.Callback != "":
		return d.handleCallback(ctx, u)
	case strings.HasPrefix(u.Text, "/"):
		return d.handleCommand(ctx, u)
	default:
		return d.handleContent(ctx, u)
	}
}

// ---- commands ----

func (d *Dispatcher) handleCommand(ctx context.Context, u Update) error {
	fields := strings.Fields(u.Text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/start":
		return d.cmdStart(ctx, u.ActorID, args)
	case "/create_event":
		return d.cmdCreateEvent(ctx, u.ActorID)
	case "/manage_events":
		return d.cmdManageEvents(ctx, u.ActorID)
	case "/block_user":
		return d.cmdBlockUser(ctx, u.ActorID, args)
	case "/done":
		return d.advanceApply(ctx, u.ActorID, session.Input{Done: true})
	case "/cancel":
		return d.cancelSessions(ctx, u.ActorID)
	default:
		return d.out.Send(ctx, u.ActorID, "Unknown command.", nil)
	}
}

func (d *Dispatcher) cmdStart(ctx context.Context, actorID int64, args []string) error {
	if err := d.apps.EnsureUser(ctx, actorID); err != nil {
		return err
	}

	// A deep-link start parameter of the form event_<id> opens the
	// application dialog against that event.
	if len(args) > 0 && strings.HasPrefix(args[0], "event_") {
		id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "event_"), 10, 64)
		if err != nil {
			return d.out.Send(ctx, actorID, "Event not found.", nil)
		}
		return d.startApply(ctx, actorID, id)
	}

	if d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID,
			"Welcome, administrator!\n\nAvailable commands:\n"+
				"/create_event - create a new event\n"+
				"/manage_events - list active events\n"+
				"/block_user - block a user\n\n"+
				"Application moderation happens in the group.", nil)
	}
	return d.out.Send(ctx, actorID,
		"Welcome!\n\nThis bot lets you book cosmetology procedures.\n\n"+
			"To apply, tap an event announcement in our channel.", nil)
}

func (d *Dispatcher) cmdCreateEvent(ctx context.Context, actorID int64) error {
	if !d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID, "Access denied.", nil)
	}
	// Starting a new dialog replaces any prior one of the same kind.
	s := session.NewSession(actorID, KindCreateEvent, d.now())
	if err := d.sessions.Put(ctx, s); err != nil {
		return err
	}
	return d.out.Send(ctx, actorID, d.createFlow.FirstPrompt(), d.markupFor(KindCreateEvent, stepDate, s))
}

func (d *Dispatcher) cmdManageEvents(ctx context.Context, actorID int64) error {
	if !d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID, "Access denied.", nil)
	}
	events, err := d.events.ListOpen(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return d.out.Send(ctx, actorID, "No active events.", nil)
	}
	var b strings.Builder
	b.WriteString("Active events:\n\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "#%d | %s\n%s %s\n\n", ev.ID, ev.Procedure, model.FormatDate(ev.Date), ev.Time)
	}
	return d.out.Send(ctx, actorID, b.String(), nil)
}

func (d *Dispatcher) cmdBlockUser(ctx context.Context, actorID int64, args []string) error {
	if !d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID, "Access denied.", nil)
	}
	if len(args) == 0 {
		return d.out.Send(ctx, actorID, "Usage: /block_user <user_id>", nil)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return d.out.Send(ctx, actorID, "Invalid user id.", nil)
	}
	if err := d.apps.BlockUser(ctx, id); err != nil {
		return err
	}
	return d.out.Send(ctx, actorID, fmt.Sprintf("User %d has been blocked.", id), nil)
}

// ---- callbacks ----

func (d *Dispatcher) handleCallback(ctx context.Context, u Update) error {
	tok := DecodeToken(u.Callback)
	switch tok.Kind {
	case TokenApprove:
		return d.moderate(ctx, u.ActorID, tok.ID, d.apps.Approve, "Application approved.")
	case TokenReject:
		return d.moderate(ctx, u.ActorID, tok.ID, d.apps.Reject, "Application rejected.")
	case TokenPrimary:
		return d.moderate(ctx, u.ActorID, tok.ID, d.apps.SetPrimary, "Primary candidate selected.")
	case TokenViewApps:
		return d.viewApplications(ctx, u.ActorID, tok.ID)

	case TokenDate:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: tok.Value})
	case TokenTime:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: tok.Value})
	case TokenProc:
		label, ok := model.ProcedureByIndex(int(tok.ID))
		if !ok {
			return d.out.Send(ctx, u.ActorID, "Unknown procedure. Pick one from the list.", nil)
		}
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: label})
	case TokenPhotoYes:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: "yes"})
	case TokenPhotoNo:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: "no"})
	case TokenSkipComment:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: ""})
	case TokenConfirmEvent:
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: "confirm"})

	case TokenUseSaved:
		return d.useSavedProfile(ctx, u.ActorID)
	case TokenEnterNew:
		return d.advanceApplyPrompt(ctx, u.ActorID)
	case TokenConsent:
		return d.advanceApply(ctx, u.ActorID, session.Input{Text: "consent"})
	case TokenSubmit:
		return d.advanceApply(ctx, u.ActorID, session.Input{Text: "submit"})

	case TokenCancel:
		return d.cancelSessions(ctx, u.ActorID)
	default:
		return d.out.Send(ctx, u.ActorID, "Unknown action.", nil)
	}
}

type moderationOp func(ctx context.Context, id int64) error

func (d *Dispatcher) moderate(ctx context.Context, actorID, id int64, op moderationOp, done string) error {
	if !d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID, "Access denied.", nil)
	}
	if err := op(ctx, id); err != nil {
		if reason, ok := denialReason(err); ok {
			return d.out.Send(ctx, actorID, reason, nil)
		}
		return err
	}
	return d.out.Send(ctx, actorID, done, nil)
}

func (d *Dispatcher) viewApplications(ctx context.Context, actorID, eventID int64) error {
	if !d.isAdmin(actorID) {
		return d.out.Send(ctx, actorID, "Access denied.", nil)
	}
	apps, err := d.apps.ListApproved(ctx, eventID)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return d.out.Send(ctx, actorID, "No approved applications.", nil)
	}
	return d.out.Send(ctx, actorID, notify.ApprovedList(apps), nil)
}

// ---- free text and photos ----

// handleContent feeds text or a photo into whichever session the actor has
// open. The create dialog only consumes text (its choices arrive as
// callbacks); the apply dialog consumes both.
func (d *Dispatcher) handleContent(ctx context.Context, u Update) error {
	if _, err := d.sessions.Get(ctx, u.ActorID, KindApply); err == nil {
		return d.advanceApply(ctx, u.ActorID, session.Input{Text: u.Text, Photo: u.PhotoRef})
	}
	if _, err := d.sessions.Get(ctx, u.ActorID, KindCreateEvent); err == nil {
		return d.advanceCreate(ctx, u.ActorID, session.Input{Text: u.Text})
	}
	return d.out.Send(ctx, u.ActorID, "No active dialog. Use /start.", nil)
}

// ---- session plumbing ----

func (d *Dispatcher) advanceCreate(ctx context.Context, actorID int64, in session.Input) error {
	s, err := d.sessions.Get(ctx, actorID, KindCreateEvent)
	if err != nil {
		return d.out.Send(ctx, actorID, "No active dialog. Use /create_event.", nil)
	}
	out := d.createFlow.Advance(s, in, d.now())
	return d.finishAdvance(ctx, d.createFlow, s, out)
}

func (d *Dispatcher) advanceApply(ctx context.Context, actorID int64, in session.Input) error {
	s, err := d.sessions.Get(ctx, actorID, KindApply)
	if err != nil {
		return d.out.Send(ctx, actorID, "No active application dialog.", nil)
	}
	out := d.applyFlow.Advance(s, in, d.now())
	return d.finishAdvance(ctx, d.applyFlow, s, out)
}

// advanceApplyPrompt re-sends the current step prompt of the apply dialog,
// used after the actor declines the saved-profile shortcut.
func (d *Dispatcher) advanceApplyPrompt(ctx context.Context, actorID int64) error {
	s, err := d.sessions.Get(ctx, actorID, KindApply)
	if err != nil {
		return d.out.Send(ctx, actorID, "No active application dialog.", nil)
	}
	step := d.applyFlow.Steps[s.Step]
	return d.out.Send(ctx, actorID, step.Prompt, d.markupFor(KindApply, step.Name, s))
}

func (d *Dispatcher) finishAdvance(ctx context.Context, flow *session.Flow, s *session.Session, out session.Outcome) error {
	switch out.Kind {
	case session.OutcomeRetry:
		return d.out.Send(ctx, s.ActorID, out.Reason, nil)

	case session.OutcomeNext:
		// The photo step only applies to events that require photos;
		// everyone else jumps straight to consent.
		if flow.Kind == KindApply && flow.Steps[s.Step].Name == stepPhotos && s.Fields[fieldNeedsPhoto] != "yes" {
			return d.finishAdvance(ctx, flow, s, flow.Skip(s, d.now()))
		}
		if err := d.sessions.Put(ctx, s); err != nil {
			return err
		}
		step := flow.Steps[s.Step]
		prompt := out.Prompt
		if step.Name == stepConfirm {
			prompt = d.summary(flow.Kind, s)
		}
		return d.out.Send(ctx, s.ActorID, prompt, d.markupFor(flow.Kind, step.Name, s))

	case session.OutcomeCompleted:
		if err := d.sessions.Delete(ctx, s.ActorID, s.Kind); err != nil {
			return err
		}
		return d.complete(ctx, flow.Kind, s, out)

	case session.OutcomeCancelled:
		if err := d.sessions.Delete(ctx, s.ActorID, s.Kind); err != nil {
			return err
		}
		return d.out.Send(ctx, s.ActorID, "Cancelled.", nil)
	}
	return nil
}

func (d *Dispatcher) cancelSessions(ctx context.Context, actorID int64) error {
	cancelled := false
	for _, kind := range []string{KindCreateEvent, KindApply} {
		if _, err := d.sessions.Get(ctx, actorID, kind); err == nil {
			if err := d.sessions.Delete(ctx, actorID, kind); err != nil {
				return err
			}
			cancelled = true
		}
	}
	if !cancelled {
		return d.out.Send(ctx, actorID, "Nothing to cancel.", nil)
	}
	return d.out.Send(ctx, actorID, "Cancelled.", nil)
}

// ---- dialog completion ----

func (d *Dispatcher) complete(ctx context.Context, kind string, s *session.Session, out session.Outcome) error {
	switch kind {
	case KindCreateEvent:
		return d.completeCreate(ctx, s.ActorID, out.Fields)
	case KindApply:
		return d.completeApply(ctx, s.ActorID, out.Fields, out.Photos)
	}
	return nil
}

func (d *Dispatcher) completeCreate(ctx context.Context, actorID int64, fields map[string]string) error {
	ev, err := d.events.Create(ctx, service.EventFields{
		Date:       fields[fieldDate],
		Time:       fields[fieldTime],
		Procedure:  fields[fieldProcedure],
		NeedsPhoto: fields[fieldNeedsPhoto] == "yes",
		Comment:    fields[fieldComment],
	})
	if err != nil {
		if reason, ok := denialReason(err); ok {
			return d.out.Send(ctx, actorID, reason, nil)
		}
		log.Printf("dispatch: create event failed: %v", err)
		return d.out.Send(ctx, actorID, "Could not create the event.", nil)
	}
	if _, err := d.events.Publish(ctx, ev.ID); err != nil {
		log.Printf("dispatch: publish event %d failed: %v", ev.ID, err)
		return d.out.Send(ctx, actorID, "Event created but publishing failed.", nil)
	}
	return d.out.Send(ctx, actorID, "Event created and published to the channel!", nil)
}

func (d *Dispatcher) completeApply(ctx context.Context, actorID int64, fields map[string]string, photos []string) error {
	eventID, err := strconv.ParseInt(fields[fieldEventID], 10, 64)
	if err != nil {
		return d.out.Send(ctx, actorID, "Event not found.", nil)
	}
	_, err = d.apps.Submit(ctx, eventID, actorID, service.ApplicationFields{
		FullName: fields[fieldFullName],
		Phone:    fields[fieldPhone],
		Consent:  fields[fieldConsent] == "yes",
	}, photos)
	if err != nil {
		if reason, ok := denialReason(err); ok {
			return d.out.Send(ctx, actorID, reason, nil)
		}
		log.Printf("dispatch: submit application failed: %v", err)
		return d.out.Send(ctx, actorID, "Could not submit the application.", nil)
	}
	return d.out.Send(ctx, actorID,
		"Your application has been submitted!\n\nPlease wait for moderation.", nil)
}

// ---- application dialog entry ----

// startApply opens the application dialog against an event. Blocked users
// and non-open events are refused up front so nobody walks a dialog that
// cannot be submitted.
func (d *Dispatcher) startApply(ctx context.Context, actorID, eventID int64) error {
	profile, err := d.apps.Profile(ctx, actorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if profile.IsBlocked {
		return d.out.Send(ctx, actorID, "You are blocked and cannot submit applications.", nil)
	}

	ev, err := d.events.Get(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return d.out.Send(ctx, actorID, "Event not found or no longer active.", nil)
	}
	if err != nil {
		return err
	}
	if ev.Status != model.EventPublished {
		return d.out.Send(ctx, actorID, "Event not found or no longer active.", nil)
	}

	s := session.NewSession(actorID, KindApply, d.now())
	s.Fields[fieldEventID] = strconv.FormatInt(eventID, 10)
	if ev.NeedsPhoto {
		s.Fields[fieldNeedsPhoto] = "yes"
	} else {
		s.Fields[fieldNeedsPhoto] = "no"
	}
	if err := d.sessions.Put(ctx, s); err != nil {
		return err
	}

	// Offer the saved-profile shortcut when a complete profile is cached.
	if profile.FullName != nil && *profile.FullName != "" && profile.Phone != nil && *profile.Phone != "" {
		text := fmt.Sprintf("We have your details on file:\n\nFull name: %s\nPhone: %s\n\nUse these details?",
			notify.Escape(*profile.FullName), notify.Escape(*profile.Phone))
		markup := notify.Markup{
			{notify.Button{Label: "Yes", Token: "use_saved_data"}},
			{notify.Button{Label: "Enter new details", Token: "enter_new_data"}},
			{notify.Button{Label: "Cancel", Token: "cancel"}},
		}
		return d.out.Send(ctx, actorID, text, markup)
	}
	return d.out.Send(ctx, actorID, d.applyFlow.FirstPrompt(), d.markupFor(KindApply, stepFullName, s))
}

// useSavedProfile fills the name and phone steps from the cached profile
// and jumps the dialog to whatever comes after them.
func (d *Dispatcher) useSavedProfile(ctx context.Context, actorID int64) error {
	s, err := d.sessions.Get(ctx, actorID, KindApply)
	if err != nil {
		return d.out.Send(ctx, actorID, "No active application dialog.", nil)
	}
	profile, err := d.apps.Profile(ctx, actorID)
	if err != nil || profile.FullName == nil || profile.Phone == nil {
		return d.out.Send(ctx, actorID, "No saved details found. "+d.applyFlow.FirstPrompt(), nil)
	}
	s.Fields[fieldFullName] = *profile.FullName
	s.Fields[fieldPhone] = *profile.Phone

	// Skip the name and phone steps that the profile already answered.
	d.applyFlow.Skip(s, d.now())
	out := d.applyFlow.Skip(s, d.now())
	return d.finishAdvance(ctx, d.applyFlow, s, out)
}

// ---- prompts, markups, summaries ----

// markupFor builds the inline keyboard for the step the session is about
// to show. Every dialog keyboard carries a cancel action.
func (d *Dispatcher) markupFor(kind, step string, s *session.Session) notify.Markup {
	cancelRow := []notify.Button{{Label: "Cancel", Token: "cancel"}}

	switch kind + "/" + step {
	case KindCreateEvent + "/" + stepDate:
		var m notify.Markup
		for _, opt := range model.DateOptions(d.now()) {
			m = append(m, []notify.Button{{Label: opt.Display, Token: "date_" + opt.Date}})
		}
		return append(m, cancelRow)

	case KindCreateEvent + "/" + stepTime:
		var buttons []notify.Button
		for _, slot := range model.TimeSlots() {
			buttons = append(buttons, notify.Button{Label: slot, Token: "time_" + slot})
		}
		m := chunk(buttons, 4)
		return append(m, cancelRow)

	case KindCreateEvent + "/" + stepProcedure:
		var m notify.Markup
		for i, p := range model.ProcedureTypes {
			m = append(m, []notify.Button{{Label: p, Token: fmt.Sprintf("proc_%d", i)}})
		}
		return append(m, cancelRow)

	case KindCreateEvent + "/" + stepNeedsPhoto:
		return notify.Markup{
			{
				notify.Button{Label: "Yes", Token: "photo_yes"},
				notify.Button{Label: "No", Token: "photo_no"},
			},
			cancelRow,
		}

	case KindCreateEvent + "/" + stepComment:
		return notify.Markup{
			{notify.Button{Label: "Skip", Token: "skip_comment"}},
			cancelRow,
		}

	case KindCreateEvent + "/" + stepConfirm:
		return notify.Markup{
			{notify.Button{Label: "Confirm and publish", Token: "confirm_event"}},
			cancelRow,
		}

	case KindApply + "/" + stepConsent:
		return notify.Markup{
			{notify.Button{Label: "I confirm", Token: "consent_yes"}},
			cancelRow,
		}

	case KindApply + "/" + stepConfirm:
		return notify.Markup{
			{notify.Button{Label: "Submit application", Token: "submit_application"}},
			cancelRow,
		}

	case KindApply + "/" + stepFullName, KindApply + "/" + stepPhone, KindApply + "/" + stepPhotos:
		return notify.Markup{cancelRow}
	}
	return notify.Markup{cancelRow}
}

// summary composes the confirmation text shown before the final step.
func (d *Dispatcher) summary(kind string, s *session.Session) string {
	switch kind {
	case KindCreateEvent:
		photo := "not required"
		if s.Fields[fieldNeedsPhoto] == "yes" {
			photo = "required"
		}
		comment := s.Fields[fieldComment]
		if comment == "" {
			comment = "none"
		}
		return fmt.Sprintf("Event summary:\n\nDate: %s\nTime: %s\nProcedure: %s\nCandidate photos: %s\nComment: %s",
			model.FormatDate(s.Fields[fieldDate]), s.Fields[fieldTime],
			s.Fields[fieldProcedure], photo, notify.Escape(comment))

	case KindApply:
		return fmt.Sprintf("Application summary:\n\nFull name: %s\nPhone: %s\nPhotos attached: %d\nConsent given: yes",
			notify.Escape(s.Fields[fieldFullName]), notify.Escape(s.Fields[fieldPhone]), len(s.Photos))
	}
	return ""
}

// denialReason maps the service-level denials to the reason strings shown
// to actors. Infrastructure errors are not denials and return false.
func denialReason(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrEventNotOpen):
		return "This event is no longer accepting applications.", true
	case errors.Is(err, service.ErrDuplicateApplication):
		return "You already have an application for this event.", true
	case errors.Is(err, service.ErrMissingPhotos):
		return fmt.Sprintf("Between 1 and %d photos are required for this event.", model.MaxApplicationPhotos), true
	case errors.Is(err, service.ErrUserBlocked):
		return "You are blocked and cannot submit applications.", true
	case errors.Is(err, service.ErrInvalidTransition):
		return "This application has already been reviewed.", true
	case errors.Is(err, service.ErrStateConflict):
		return "The operation conflicts with the current state.", true
	case errors.Is(err, service.ErrValidation):
		return "Some of the entered values are invalid.", true
	}
	return "", false
}

// chunk splits a flat button list into rows of n.
func chunk(buttons []notify.Button, n int) notify.Markup {
	var m notify.Markup
	for len(buttons) > n {
		m = append(m, buttons[:n])
		buttons = buttons[n:]
	}
	if len(buttons) > 0 {
		m = append(m, buttons)
	}
	return m
}
