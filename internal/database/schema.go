package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// ErrBadIdentifier is returned by EnsureColumn when a table or column name
// fails validation.  It is a configuration error: no statement text is
// built and nothing is executed.
var ErrBadIdentifier = errors.New("invalid schema identifier")

// identPattern matches the only shape an identifier may take.  Structural
// SQL positions cannot be parameterized, so anything that reaches statement
// construction must already have passed this check.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// allowedTables is the closed set of tables EnsureColumn may alter.
var allowedTables = map[string]bool{
	"users":              true,
	"events":             true,
	"applications":       true,
	"application_photos": true,
}

// InitSchema creates the tables this service owns.  Statements are
// idempotent so the function can run on every startup.  The unique index
// over (event_id, user_id, active) enforces at most one non-rejected
// application per pair: `active` is 1 for pending/approved rows and NULL
// once rejected, and MySQL unique indexes ignore NULL entries.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id    BIGINT PRIMARY KEY,
			full_name  VARCHAR(255) NULL,
			phone      VARCHAR(32)  NULL,
			is_blocked TINYINT(1) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id             BIGINT PRIMARY KEY AUTO_INCREMENT,
			date           CHAR(10)     NOT NULL,
			time           CHAR(5)      NOT NULL,
			procedure_type VARCHAR(128) NOT NULL,
			needs_photo    TINYINT(1) NOT NULL DEFAULT 0,
			comment        TEXT NULL,
			status         VARCHAR(16) NOT NULL DEFAULT 'draft',
			message_ref    BIGINT NULL,
			created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id                BIGINT PRIMARY KEY AUTO_INCREMENT,
			event_id          BIGINT NOT NULL,
			user_id           BIGINT NOT NULL,
			full_name         VARCHAR(255) NOT NULL,
			phone             VARCHAR(32)  NOT NULL,
			consent           TINYINT(1) NOT NULL DEFAULT 0,
			status            VARCHAR(16) NOT NULL DEFAULT 'pending',
			is_primary        TINYINT(1) NOT NULL DEFAULT 0,
			active            TINYINT(1) NULL DEFAULT 1,
			group_message_ref BIGINT NULL,
			created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_applications_event FOREIGN KEY (event_id) REFERENCES events(id),
			CONSTRAINT fk_applications_user  FOREIGN KEY (user_id)  REFERENCES users(user_id),
			UNIQUE KEY uq_applications_active (event_id, user_id, active)
		)`,
		`CREATE TABLE IF NOT EXISTS application_photos (
			id             BIGINT PRIMARY KEY AUTO_INCREMENT,
			application_id BIGINT NOT NULL,
			media_ref      VARCHAR(255) NOT NULL,
			CONSTRAINT fk_photos_application FOREIGN KEY (application_id) REFERENCES applications(id)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// EnsureColumn adds a column to a known table when it is missing.  Both
// identifiers are validated against identPattern and the table against the
// allow-list before any statement is constructed; a violation returns
// ErrBadIdentifier without touching the database.  The definition is the
// literal column DDL (e.g. "TINYINT(1) NOT NULL DEFAULT 0") and must come
// from configuration, never from request input.
func EnsureColumn(ctx context.Context, db *sql.DB, table, column, definition string) error {
	if !identPattern.MatchString(table) || !identPattern.MatchString(column) {
		return fmt.Errorf("%w: %q.%q", ErrBadIdentifier, table, column)
	}
	if !allowedTables[table] {
		return fmt.Errorf("%w: table %q is not allow-listed", ErrBadIdentifier, table)
	}

	const existsQuery = `SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
	var n int
	if err := db.QueryRowContext(ctx, existsQuery, table, column).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Identifiers are validated above; the definition is operator-supplied DDL.
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	_, err := db.ExecContext(ctx, stmt)
	return err
}
