package notify

import "context"

// Button is one inline action offered under an outward message. Exactly
// one of Token (a callback token posted back through the webhook) or URL
// (a deep link) is set.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Markup is the button grid attached to a message. A nil markup removes
// all actions on edit.
type Markup [][]Button

// Transport is the external messaging platform. Message bodies handed to
// it are already escaped for its markup language; implementations only
// move bytes. Deliver returns the platform's message reference so the
// message can be edited later.
type Transport interface {
	Deliver(ctx context.Context, chat string, text string, markup Markup) (int64, error)
	DeliverPhotos(ctx context.Context, chat string, text string, mediaRefs []string, markup Markup) (int64, error)
	Edit(ctx context.Context, chat string, messageRef int64, text string, markup Markup) error
}
