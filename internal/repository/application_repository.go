package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// ApplicationRepo provides CRUD operations for applications and their
// photos. The table carries two cross-row invariants, both enforced here:
// one non-rejected application per (event, user) pair, backed by the
// uq_applications_active unique index, and one primary per event, backed
// by the single-transaction SetPrimary.
type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

const applicationCols = "id,event_id,user_id,full_name,phone,consent,status,is_primary,group_message_ref,created_at"

func scanApplication(row interface{ Scan(...any) error }) (model.Application, error) {
	var a model.Application
	err := row.Scan(&a.ID, &a.EventID, &a.UserID, &a.FullName, &a.Phone,
		&a.Consent, &a.Status, &a.IsPrimary, &a.GroupMessageRef, &a.CreatedAt)
	return a, err
}

// Create inserts a pending application together with its photos in one
// transaction. A uniqueness violation on the active index means the user
// already has a non-rejected application for this event; it is mapped to
// ErrDuplicate so exactly one of two racing submissions succeeds.
func (r *ApplicationRepo) Create(ctx context.Context, app *model.Application, photos []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO applications (event_id, user_id, full_name, phone, consent, status, active) VALUES (?,?,?,?,?,?,1)",
		app.EventID, app.UserID, app.FullName, app.Phone, app.Consent, model.ApplicationPending)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = id
	app.Status = model.ApplicationPending

	for _, ref := range photos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO application_photos (application_id, media_ref) VALUES (?,?)",
			id, ref); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get fetches an application by id.
func (r *ApplicationRepo) Get(ctx context.Context, id int64) (model.Application, error) {
	a, err := scanApplication(r.DB.QueryRowContext(ctx,
		"SELECT "+applicationCols+" FROM applications WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// MarkReviewed moves a pending application to approved or rejected.
// Rejection also clears the active marker so the (event, user) pair can
// submit again. Returns false when the row was not pending.
func (r *ApplicationRepo) MarkReviewed(ctx context.Context, id int64, status string) (bool, error) {
	var res sql.Result
	var err error
	if status == model.ApplicationRejected {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE applications SET status=?, active=NULL WHERE id=? AND status=?",
			status, id, model.ApplicationPending)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE applications SET status=? WHERE id=? AND status=?",
			status, id, model.ApplicationPending)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetPrimary makes the target application the single primary candidate of
// its event. Within one transaction it locks the target row, clears the
// primary flag on every other application of the event and sets it on the
// target, so a reader never observes two primaries. The returned boolean
// is true only when the row actually transitioned into primary; an
// already-primary target commits nothing and reports false, letting the
// caller skip duplicate instruction delivery.
func (r *ApplicationRepo) SetPrimary(ctx context.Context, id int64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var eventID int64
	var status string
	var isPrimary bool
	err = tx.QueryRowContext(ctx,
		"SELECT event_id, status, is_primary FROM applications WHERE id=? FOR UPDATE",
		id).Scan(&eventID, &status, &isPrimary)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, txErr(err)
	}
	if status != model.ApplicationApproved {
		return false, ErrNotApproved
	}
	if isPrimary {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE applications SET is_primary=0 WHERE event_id=? AND id<>? AND is_primary=1",
		eventID, id); err != nil {
		return false, txErr(err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE applications SET is_primary=1 WHERE id=?", id); err != nil {
		return false, txErr(err)
	}
	if err := tx.Commit(); err != nil {
		return false, txErr(err)
	}
	return true, nil
}

// HasActive reports whether a non-rejected application exists for the
// (event, user) pair. Used for the user-facing duplicate denial; the
// unique index remains the authority under races.
func (r *ApplicationRepo) HasActive(ctx context.Context, eventID, userID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM applications WHERE event_id=? AND user_id=? AND active=1",
		eventID, userID).Scan(&n)
	return n > 0, err
}

// ListByEvent returns every application of an event, primaries first.
func (r *ApplicationRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationCols+" FROM applications WHERE event_id=? ORDER BY is_primary DESC, created_at",
		eventID)
}

// ListApproved returns the approved applications of an event, the primary
// candidate first.
func (r *ApplicationRepo) ListApproved(ctx context.Context, eventID int64) ([]model.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationCols+" FROM applications WHERE event_id=? AND status=? ORDER BY is_primary DESC, created_at",
		eventID, model.ApplicationApproved)
}

// SetGroupMessageRef records the id of the moderation message shown in the
// group for this application.
func (r *ApplicationRepo) SetGroupMessageRef(ctx context.Context, id, messageRef int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE applications SET group_message_ref=? WHERE id=?", messageRef, id)
	return err
}

// Photos returns the media references attached to an application.
func (r *ApplicationRepo) Photos(ctx context.Context, applicationID int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT media_ref FROM application_photos WHERE application_id=? ORDER BY id",
		applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *ApplicationRepo) list(ctx context.Context, query string, args ...any) ([]model.Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// isDuplicateErr detects MySQL error 1062 (duplicate entry).
func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// txErr maps MySQL error 1213 (deadlock) to ErrTxConflict so callers can
// retry the losing side of a serialization race once.
func txErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "1213") {
		return ErrTxConflict
	}
	return err
}
