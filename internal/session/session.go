// Package session implements the generic multi-step input collector behind
// both the event-creation and the application-submission dialogs. A flow is
// a fixed sequence of named steps, each with its own validator; the engine
// collects validated values into the session and hands the finished mapping
// to the caller. It is pure input collection; no domain logic lives here.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Input is one inbound interaction from the actor: free text, a callback
// value, a photo reference, or one of the two control signals.
type Input struct {
	Text   string // free text or decoded callback value
	Photo  string // media reference when the actor sent a photo
	Done   bool   // finishes a looping step (photo collection)
	Cancel bool   // discards the session at any step
}

// Step is one named prompt in a flow. Apply validates the input and writes
// collected values into the session; returning a non-empty retry reason
// keeps the session on the same step without mutating accumulated state.
// A Loop step repeats until the input carries Done.
type Step struct {
	Name   string
	Prompt string
	Apply  func(s *Session, in Input) (retry string)
	Loop   bool
}

// Flow is a fixed, ordered sequence of steps identified by a conversation
// kind. Flows are immutable after construction and shared across sessions.
type Flow struct {
	Kind  string
	Steps []Step
}

// Session is the ephemeral per-(actor, kind) state of one dialog.
type Session struct {
	ID         string            `json:"id"`
	ActorID    int64             `json:"actor_id"`
	Kind       string            `json:"kind"`
	Step       int               `json:"step"`
	Fields     map[string]string `json:"fields"`
	Photos     []string          `json:"photos"`
	CreatedAt  time.Time         `json:"created_at"`
	LastActive time.Time         `json:"last_active"`
}

// NewSession starts a session at the first step of a flow.
func NewSession(actorID int64, kind string, now time.Time) *Session {
	return &Session{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Kind:       kind,
		Fields:     make(map[string]string),
		CreatedAt:  now,
		LastActive: now,
	}
}

// OutcomeKind enumerates the results of advancing a session.
type OutcomeKind int

const (
	OutcomeNext      OutcomeKind = iota // move to the next step, Prompt set
	OutcomeRetry                        // invalid input, same step re-prompted
	OutcomeCompleted                    // all steps done, Fields/Photos carry the result
	OutcomeCancelled                    // actor cancelled, session must be discarded
)

// Outcome is the result of one Advance call.
type Outcome struct {
	Kind   OutcomeKind
	Prompt string            // next prompt (OutcomeNext)
	Reason string            // retry reason (OutcomeRetry)
	Fields map[string]string // collected values (OutcomeCompleted)
	Photos []string          // collected media refs (OutcomeCompleted)
}

// FirstPrompt returns the opening prompt of the flow.
func (f *Flow) FirstPrompt() string { return f.Steps[0].Prompt }

// Advance feeds one input into the session. The session's step index moves
// forward only on valid input; a looping step stays put until Done. The
// caller persists or discards the session according to the outcome.
func (f *Flow) Advance(s *Session, in Input, now time.Time) Outcome {
	if in.Cancel {
		return Outcome{Kind: OutcomeCancelled}
	}
	step := f.Steps[s.Step]

	if reason := step.Apply(s, in); reason != "" {
		return Outcome{Kind: OutcomeRetry, Reason: reason}
	}
	s.LastActive = now

	if step.Loop && !in.Done {
		return Outcome{Kind: OutcomeNext, Prompt: step.Prompt}
	}

	s.Step++
	if s.Step >= len(f.Steps) {
		return Outcome{Kind: OutcomeCompleted, Fields: s.Fields, Photos: s.Photos}
	}
	return Outcome{Kind: OutcomeNext, Prompt: f.Steps[s.Step].Prompt}
}

// Skip jumps the session past the current step without input, used when a
// flow step does not apply (e.g. photo collection for an event that does
// not require photos).
func (f *Flow) Skip(s *Session, now time.Time) Outcome {
	s.LastActive = now
	s.Step++
	if s.Step >= len(f.Steps) {
		return Outcome{Kind: OutcomeCompleted, Fields: s.Fields, Photos: s.Photos}
	}
	return Outcome{Kind: OutcomeNext, Prompt: f.Steps[s.Step].Prompt}
}
