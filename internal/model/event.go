package model

import "time"

// Event lifecycle states.  Transitions are linear: draft → published →
// closed, with no back-transitions.
const (
    EventDraft     = "draft"
    EventPublished = "published"
    EventClosed    = "closed"
)

// Event represents a time-boxed procedure offer created by the admin.
// A published event is announced to the channel and candidates apply to
// it until it closes.  The needs_photo flag is immutable after publish:
// it decides whether applications against the event must carry photos.
//
// Fields:
//  ID         – primary key identifier.
//  Date       – offer date, YYYY-MM-DD.
//  Time       – offer slot, HH:MM from the fixed slot grid.
//  Procedure  – procedure label from the fixed catalog.
//  NeedsPhoto – whether applicants must attach treatment-area photos.
//  Comment    – optional free-text note shown in the announcement.
//  Status     – draft, published or closed.
//  MessageRef – id of the channel announcement (nil until published).
//  CreatedAt  – creation timestamp.
type Event struct {
    ID         int64     // events.id
    Date       string    // events.date
    Time       string    // events.time
    Procedure  string    // events.procedure_type
    NeedsPhoto bool      // events.needs_photo
    Comment    *string   // events.comment (nullable)
    Status     string    // events.status
    MessageRef *int64    // events.message_ref (nullable)
    CreatedAt  time.Time // events.created_at
}
