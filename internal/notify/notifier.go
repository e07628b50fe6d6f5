// Package notify builds and maintains outward messages: event
// announcements in the channel, application moderation messages in the
// group, and direct notices to candidates. Every piece of user-supplied
// text is escaped before composition, and each moderation message carries
// a per-event and a per-user tag for external filtering.
package notify

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// Notifier is the routing/notification adapter. It recomputes message
// bodies and button sets from the entities passed in, never from deltas,
// so repeated refreshes of the same state produce the same message.
type Notifier struct {
	transport   Transport
	channelChat string // announcement channel
	groupChat   string // moderation group
	botUsername string // deep-link target for apply buttons
}

func New(transport Transport, channelChat, groupChat, botUsername string) *Notifier {
	return &Notifier{
		transport:   transport,
		channelChat: channelChat,
		groupChat:   groupChat,
		botUsername: botUsername,
	}
}

// Escape sanitizes user-controlled text for the transport's markup
// language. Everything interpolated into an outward message body goes
// through here, whatever the source field.
func Escape(s string) string { return html.EscapeString(s) }

// AnnounceEvent posts the event announcement to the channel with an apply
// deep link and returns the message reference.
func (n *Notifier) AnnounceEvent(ctx context.Context, ev model.Event) (int64, error) {
	var b strings.Builder
	b.WriteString("New offer!\n\n")
	fmt.Fprintf(&b, "Procedure: %s\n", Escape(ev.Procedure))
	fmt.Fprintf(&b, "Date: %s\n", model.FormatDate(ev.Date))
	fmt.Fprintf(&b, "Time: %s\n", ev.Time)
	if ev.Comment != nil && *ev.Comment != "" {
		fmt.Fprintf(&b, "\n%s\n", Escape(*ev.Comment))
	}
	if ev.NeedsPhoto {
		b.WriteString("\nTreatment-area photo required!\n")
	}
	b.WriteString("\nTap the button below to apply:")

	markup := Markup{{Button{
		Label: "Apply",
		URL:   fmt.Sprintf("https://t.me/%s?start=event_%d", n.botUsername, ev.ID),
	}}}
	return n.transport.Deliver(ctx, n.channelChat, b.String(), markup)
}

// PublishApplication posts a new application to the moderation group with
// approve/reject actions and returns the message reference. Photos, when
// present, are attached to the same message.
func (n *Notifier) PublishApplication(ctx context.Context, app model.Application, ev model.Event, photos []string) (int64, error) {
	text := n.applicationBody(app, ev)
	markup := moderationMarkup(app)
	if len(photos) > 0 {
		return n.transport.DeliverPhotos(ctx, n.groupChat, text, photos, markup)
	}
	return n.transport.Deliver(ctx, n.groupChat, text, markup)
}

// RefreshApplicationMessage rewrites the moderation message so its
// displayed status and available actions match current persisted state.
// Best-effort idempotent: the full body is recomputed every time. An
// application without a message reference is skipped.
func (n *Notifier) RefreshApplicationMessage(ctx context.Context, app model.Application, ev model.Event) error {
	if app.GroupMessageRef == nil {
		return nil
	}
	return n.transport.Edit(ctx, n.groupChat, *app.GroupMessageRef,
		n.applicationBody(app, ev), moderationMarkup(app))
}

// NotifyApproved tells the applicant their application was approved.
func (n *Notifier) NotifyApproved(ctx context.Context, userID int64) error {
	_, err := n.transport.Deliver(ctx, userChat(userID),
		"Your application has been approved!\n\nPlease wait for further details.", nil)
	return err
}

// NotifyRejected tells the applicant their application was rejected.
func (n *Notifier) NotifyRejected(ctx context.Context, userID int64) error {
	_, err := n.transport.Deliver(ctx, userChat(userID),
		"Unfortunately, your application has been declined.", nil)
	return err
}

// SendPrimaryInstruction delivers the confirmation instructions to the
// winning candidate. The caller guarantees this fires at most once per
// transition into primary.
func (n *Notifier) SendPrimaryInstruction(ctx context.Context, app model.Application, ev model.Event) error {
	var b strings.Builder
	b.WriteString("Congratulations! You have been selected as the primary candidate!\n\n")
	fmt.Fprintf(&b, "Procedure: %s\n", Escape(ev.Procedure))
	fmt.Fprintf(&b, "Date: %s\n", model.FormatDate(ev.Date))
	fmt.Fprintf(&b, "Time: %s\n\n", ev.Time)
	b.WriteString("Instructions:\n")
	b.WriteString("- Please arrive 10 minutes before the start\n")
	b.WriteString("- Bring a document confirming your identity\n")
	b.WriteString("- If you cannot attend, let us know in advance\n\n")
	b.WriteString("See you soon!")
	_, err := n.transport.Deliver(ctx, userChat(app.UserID), b.String(), nil)
	return err
}

// Send delivers a plain notice to an actor, used by the dispatcher for
// prompts and denials.
func (n *Notifier) Send(ctx context.Context, userID int64, text string, markup Markup) error {
	_, err := n.transport.Deliver(ctx, userChat(userID), text, markup)
	return err
}

// applicationBody composes the full moderation message for an application
// from its current state. The two tags carry no semantics here; they exist
// for filtering and search in the group.
func (n *Notifier) applicationBody(app model.Application, ev model.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Application #%d\n\n", app.ID)
	fmt.Fprintf(&b, "#event_%d #candidate_%d\n\n", ev.ID, app.UserID)
	fmt.Fprintf(&b, "Procedure: %s\n", Escape(ev.Procedure))
	fmt.Fprintf(&b, "Date: %s %s\n\n", model.FormatDate(ev.Date), ev.Time)
	fmt.Fprintf(&b, "Full name: %s\n", Escape(app.FullName))
	fmt.Fprintf(&b, "Phone: %s\n", Escape(app.Phone))
	fmt.Fprintf(&b, "\nStatus: %s", statusLabel(app))
	return b.String()
}

func statusLabel(app model.Application) string {
	if app.IsPrimary {
		return "primary candidate"
	}
	return app.Status
}

// moderationMarkup derives the available actions from the application's
// state: pending rows can be approved or rejected, approved rows can be
// promoted or inspected, terminal rejected rows offer nothing.
func moderationMarkup(app model.Application) Markup {
	switch {
	case app.Status == model.ApplicationPending:
		return Markup{{
			Button{Label: "Approve", Token: fmt.Sprintf("approve_%d", app.ID)},
			Button{Label: "Reject", Token: fmt.Sprintf("reject_%d", app.ID)},
		}}
	case app.Status == model.ApplicationApproved && !app.IsPrimary:
		return Markup{{
			Button{Label: "Make primary", Token: fmt.Sprintf("primary_%d", app.ID)},
			Button{Label: "Event applications", Token: fmt.Sprintf("view_apps_%d", app.EventID)},
		}}
	case app.Status == model.ApplicationApproved:
		return Markup{{
			Button{Label: "Event applications", Token: fmt.Sprintf("view_apps_%d", app.EventID)},
		}}
	default:
		return nil
	}
}

func userChat(userID int64) string { return strconv.FormatInt(userID, 10) }
