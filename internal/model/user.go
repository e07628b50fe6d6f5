package model

import "time"

// User represents a candidate record as stored in the `users` table.
// Users are created the first time they interact with the bot and are
// never deleted; their cached profile fields are refreshed whenever a
// submitted application carries new values.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID        – messaging‑platform actor id, primary key.
//  FullName  – cached full name from the most recent application (nullable).
//  Phone     – cached phone number from the most recent application (nullable).
//  IsBlocked – blocked users may not submit applications.
//  CreatedAt – timestamp of first contact.
type User struct {
    ID        int64     // users.user_id
    FullName  *string   // users.full_name (nullable)
    Phone     *string   // users.phone (nullable)
    IsBlocked bool      // users.is_blocked
    CreatedAt time.Time // users.created_at
}
