package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// EnsureExists inserts a user row on first contact. Existing rows are left
// untouched so cached profile fields and the blocked flag survive.
func (r *UserRepo) EnsureExists(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO users (user_id) VALUES (?)", userID)
	return err
}

// Get fetches a user by actor id.
func (r *UserRepo) Get(ctx context.Context, userID int64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,full_name,phone,is_blocked,created_at FROM users WHERE user_id=? LIMIT 1",
		userID).Scan(&u.ID, &u.FullName, &u.Phone, &u.IsBlocked, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// UpdateProfile refreshes the cached full name and phone. Called whenever
// an application is submitted with (possibly new) profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, fullName, phone string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=? WHERE user_id=?",
		fullName, phone, userID)
	return err
}

// Block marks a user as blocked. Blocked users cannot submit applications.
func (r *UserRepo) Block(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_blocked=1 WHERE user_id=?", userID)
	return err
}

// IsBlocked reports the blocked flag. Unknown users are not blocked.
func (r *UserRepo) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var blocked bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_blocked FROM users WHERE user_id=? LIMIT 1", userID).Scan(&blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return blocked, err
}
