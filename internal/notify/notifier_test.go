package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

type delivery struct {
	chat   string
	text   string
	media  []string
	markup Markup
	edit   bool
	ref    int64
}

type fakeTransport struct {
	next       int64
	deliveries []delivery
}

func (f *fakeTransport) Deliver(_ context.Context, chat, text string, markup Markup) (int64, error) {
	f.next++
	f.deliveries = append(f.deliveries, delivery{chat: chat, text: text, markup: markup, ref: f.next})
	return f.next, nil
}

func (f *fakeTransport) DeliverPhotos(_ context.Context, chat, text string, mediaRefs []string, markup Markup) (int64, error) {
	f.next++
	f.deliveries = append(f.deliveries, delivery{chat: chat, text: text, media: mediaRefs, markup: markup, ref: f.next})
	return f.next, nil
}

func (f *fakeTransport) Edit(_ context.Context, chat string, messageRef int64, text string, markup Markup) error {
	f.deliveries = append(f.deliveries, delivery{chat: chat, text: text, markup: markup, edit: true, ref: messageRef})
	return nil
}

func (f *fakeTransport) last() delivery { return f.deliveries[len(f.deliveries)-1] }

func tokens(m Markup) []string {
	var out []string
	for _, row := range m {
		for _, b := range row {
			out = append(out, b.Token)
		}
	}
	return out
}

func newNotifier() (*Notifier, *fakeTransport) {
	tr := &fakeTransport{}
	return New(tr, "@channel", "@group", "booking_bot"), tr
}

func sampleEvent() model.Event {
	return model.Event{ID: 4, Date: "2025-06-03", Time: "10:30",
		Procedure: model.ProcedureTypes[0], Status: model.EventPublished}
}

func sampleApp(status string) model.Application {
	return model.Application{ID: 9, EventID: 4, UserID: 700,
		FullName: "Doe Jane", Phone: "5550101234", Status: status}
}

func TestAnnounceEvent(t *testing.T) {
	n, tr := newNotifier()
	ev := sampleEvent()
	comment := "bring <b>nothing</b>"
	ev.Comment = &comment
	ev.NeedsPhoto = true

	ref, err := n.AnnounceEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ref)

	d := tr.last()
	assert.Equal(t, "@channel", d.chat)
	assert.Contains(t, d.text, "03.06.2025")
	assert.Contains(t, d.text, "photo required")
	assert.Contains(t, d.text, "bring &lt;b&gt;nothing&lt;/b&gt;", "comment is escaped")

	require.Len(t, d.markup, 1)
	assert.Equal(t, "https://t.me/booking_bot?start=event_4", d.markup[0][0].URL)
}

func TestPublishApplication(t *testing.T) {
	n, tr := newNotifier()

	t.Run("without photos", func(t *testing.T) {
		app := sampleApp(model.ApplicationPending)
		app.FullName = `Jane "<script>" Doe`

		_, err := n.PublishApplication(context.Background(), app, sampleEvent(), nil)
		require.NoError(t, err)

		d := tr.last()
		assert.Equal(t, "@group", d.chat)
		assert.Contains(t, d.text, "#event_4 #candidate_700", "tags present")
		assert.Contains(t, d.text, "&lt;script&gt;", "name is escaped")
		assert.NotContains(t, d.text, "<script>")
		assert.Equal(t, []string{"approve_9", "reject_9"}, tokens(d.markup))
	})

	t.Run("with photos", func(t *testing.T) {
		_, err := n.PublishApplication(context.Background(), sampleApp(model.ApplicationPending), sampleEvent(), []string{"p1", "p2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, tr.last().media)
	})
}

func TestRefreshApplicationMessage(t *testing.T) {
	ref := int64(55)

	t.Run("approved offers promote and list", func(t *testing.T) {
		n, tr := newNotifier()
		app := sampleApp(model.ApplicationApproved)
		app.GroupMessageRef = &ref

		require.NoError(t, n.RefreshApplicationMessage(context.Background(), app, sampleEvent()))
		d := tr.last()
		assert.True(t, d.edit)
		assert.Equal(t, ref, d.ref)
		assert.Contains(t, d.text, "Status: approved")
		assert.Equal(t, []string{"primary_9", "view_apps_4"}, tokens(d.markup))
	})

	t.Run("primary loses the promote action", func(t *testing.T) {
		n, tr := newNotifier()
		app := sampleApp(model.ApplicationApproved)
		app.IsPrimary = true
		app.GroupMessageRef = &ref

		require.NoError(t, n.RefreshApplicationMessage(context.Background(), app, sampleEvent()))
		d := tr.last()
		assert.Contains(t, d.text, "primary candidate")
		assert.Equal(t, []string{"view_apps_4"}, tokens(d.markup))
	})

	t.Run("rejected offers nothing", func(t *testing.T) {
		n, tr := newNotifier()
		app := sampleApp(model.ApplicationRejected)
		app.GroupMessageRef = &ref

		require.NoError(t, n.RefreshApplicationMessage(context.Background(), app, sampleEvent()))
		assert.Empty(t, tokens(tr.last().markup))
	})

	t.Run("missing message ref is skipped", func(t *testing.T) {
		n, tr := newNotifier()
		require.NoError(t, n.RefreshApplicationMessage(context.Background(), sampleApp(model.ApplicationApproved), sampleEvent()))
		assert.Empty(t, tr.deliveries, "no transport call without a reference")
	})
}

func TestApplicantNotices(t *testing.T) {
	n, tr := newNotifier()
	ctx := context.Background()

	require.NoError(t, n.NotifyApproved(ctx, 700))
	assert.Equal(t, "700", tr.last().chat)
	assert.Contains(t, tr.last().text, "approved")

	require.NoError(t, n.NotifyRejected(ctx, 700))
	assert.Contains(t, tr.last().text, "declined")

	app := sampleApp(model.ApplicationApproved)
	app.IsPrimary = true
	require.NoError(t, n.SendPrimaryInstruction(ctx, app, sampleEvent()))
	instr := tr.last().text
	assert.Contains(t, instr, "primary candidate")
	assert.Contains(t, instr, "10 minutes before")
	assert.Contains(t, instr, "document confirming your identity")
}

func TestApprovedList(t *testing.T) {
	apps := []model.Application{
		{ID: 1, UserID: 701, FullName: "First <One>", Phone: "111", Status: model.ApplicationApproved},
		{ID: 2, UserID: 702, FullName: "Second Two", Phone: "222", Status: model.ApplicationApproved, IsPrimary: true},
	}
	out := ApprovedList(apps)

	assert.Contains(t, out, "&lt;One&gt;", "names are escaped")
	assert.Contains(t, out, "[primary]")
	// The primary candidate is listed first.
	assert.Less(t, strings.Index(out, "Second Two"), strings.Index(out, "First"))
	// Tags carry the candidate's actor id, not the application row id.
	assert.Contains(t, out, "#candidate_701")
	assert.Contains(t, out, "#candidate_702")
	assert.NotContains(t, out, "#candidate_1")
}
