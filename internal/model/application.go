package model

import "time"

// Application moderation states.  pending is the only non-terminal state;
// a rejected applicant must resubmit to get a new pending row.
const (
    ApplicationPending  = "pending"
    ApplicationApproved = "approved"
    ApplicationRejected = "rejected"
)

// Application records a candidate's submission against a specific event.
// Name and phone are denormalized at submission time so that later profile
// edits do not rewrite moderation history.  At most one application per
// (event, user) pair may be non-rejected at a time, and at most one
// application per event carries IsPrimary, marking the winning candidate.
// IsPrimary implies an approved status.
//
// Fields:
//  ID              – primary key identifier.
//  EventID         – event being applied to.
//  UserID          – applying actor.
//  FullName        – full name at time of submission.
//  Phone           – phone number at time of submission.
//  Consent         – the applicant confirmed age and procedure awareness.
//  Status          – pending, approved or rejected.
//  IsPrimary       – single winning candidate per event.
//  GroupMessageRef – id of the moderation message in the group (nullable).
//  CreatedAt       – submission timestamp.
type Application struct {
    ID              int64     // applications.id
    EventID         int64     // applications.event_id
    UserID          int64     // applications.user_id
    FullName        string    // applications.full_name
    Phone           string    // applications.phone
    Consent         bool      // applications.consent
    Status          string    // applications.status
    IsPrimary       bool      // applications.is_primary
    GroupMessageRef *int64    // applications.group_message_ref (nullable)
    CreatedAt       time.Time // applications.created_at
}

// ApplicationPhoto links an opaque media reference to an application.
// Photos are collected during submission (1–3 when the event requires
// them) and never mutated afterwards.
//
// Fields:
//  ID            – primary key identifier.
//  ApplicationID – owning application.
//  MediaRef      – opaque transport media reference.
type ApplicationPhoto struct {
    ID            int64  // application_photos.id
    ApplicationID int64  // application_photos.application_id
    MediaRef      string // application_photos.media_ref
}

// MaxApplicationPhotos bounds the photo-collection step regardless of
// whether the event requires photos.
const MaxApplicationPhotos = 3
