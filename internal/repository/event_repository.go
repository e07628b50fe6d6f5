package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// EventRepo provides CRUD operations for events. State transitions are
// expressed as conditional updates so that concurrent callers cannot move
// an event backwards: the WHERE clause names the only state the transition
// is legal from and the affected-row count tells the caller whether it won.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id,date,time,procedure_type,needs_photo,comment,status,message_ref,created_at"

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var ev model.Event
	err := row.Scan(&ev.ID, &ev.Date, &ev.Time, &ev.Procedure, &ev.NeedsPhoto,
		&ev.Comment, &ev.Status, &ev.MessageRef, &ev.CreatedAt)
	return ev, err
}

// Create inserts a draft event and populates its generated ID.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (date, time, procedure_type, needs_photo, comment, status) VALUES (?,?,?,?,?,?)",
		ev.Date, ev.Time, ev.Procedure, ev.NeedsPhoto, ev.Comment, model.EventDraft)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = id
	ev.Status = model.EventDraft
	return nil
}

// Get fetches an event by id.
func (r *EventRepo) Get(ctx context.Context, id int64) (model.Event, error) {
	ev, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return ev, ErrNotFound
	}
	return ev, err
}

// MarkPublished moves a draft event to published and records the channel
// announcement reference. Returns false when the event was not a draft.
func (r *EventRepo) MarkPublished(ctx context.Context, id, messageRef int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET status=?, message_ref=? WHERE id=? AND status=?",
		model.EventPublished, messageRef, id, model.EventDraft)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// MarkClosed moves a published event to closed. Returns false when the
// event was not published.
func (r *EventRepo) MarkClosed(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET status=? WHERE id=? AND status=?",
		model.EventClosed, id, model.EventPublished)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ListOpen returns published events dated today or later, ordered for
// candidate browsing.
func (r *EventRepo) ListOpen(ctx context.Context, today string) ([]model.Event, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM events WHERE status=? AND date >= ? ORDER BY date, time",
		model.EventPublished, today)
}

// ListPast returns published events dated before today, newest first.
func (r *EventRepo) ListPast(ctx context.Context, today string) ([]model.Event, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM events WHERE status=? AND date < ? ORDER BY date DESC, time DESC",
		model.EventPublished, today)
}

// ListByDate returns all non-closed events on a specific date.
func (r *EventRepo) ListByDate(ctx context.Context, date string) ([]model.Event, error) {
	return r.list(ctx,
		"SELECT "+eventCols+" FROM events WHERE date=? AND status != ? ORDER BY time",
		date, model.EventClosed)
}

// CloseElapsed closes every published event whose slot has already passed.
// Returns the number of events closed.
func (r *EventRepo) CloseElapsed(ctx context.Context, today, nowSlot string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET status=? WHERE status=? AND (date < ? OR (date = ? AND time <= ?))",
		model.EventClosed, model.EventPublished, today, today, nowSlot)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *EventRepo) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
