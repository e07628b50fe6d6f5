package dispatch

import (
	"strconv"
	"strings"
)

// TokenKind enumerates every callback token the core understands. Inbound
// callback payloads decode into exactly one variant; anything else is
// TokenUnknown and answered explicitly instead of being ignored.
type TokenKind int

const (
	TokenUnknown TokenKind = iota

	// Dialog tokens advancing a conversation session.
	TokenDate         // date_<value>
	TokenTime         // time_<value>
	TokenProc         // proc_<index>
	TokenPhotoYes     // photo_yes
	TokenPhotoNo      // photo_no
	TokenSkipComment  // skip_comment
	TokenConfirmEvent // confirm_event
	TokenUseSaved     // use_saved_data
	TokenEnterNew     // enter_new_data
	TokenConsent      // consent_yes
	TokenSubmit       // submit_application
	TokenCancel       // cancel

	// Moderation tokens mapping to one lifecycle operation each.
	TokenApprove  // approve_<application_id>
	TokenReject   // reject_<application_id>
	TokenPrimary  // primary_<application_id>
	TokenViewApps // view_apps_<event_id>
)

// Token is the decoded form of a callback payload. Value carries the
// string argument of date_/time_ tokens, ID the numeric argument of
// proc_/approve_/reject_/primary_/view_apps_ tokens.
type Token struct {
	Kind  TokenKind
	Value string
	ID    int64
}

// DecodeToken parses the raw callback payload into a tagged variant.
// Malformed numeric arguments degrade to TokenUnknown rather than a
// half-decoded token.
func DecodeToken(raw string) Token {
	switch raw {
	case "photo_yes":
		return Token{Kind: TokenPhotoYes}
	case "photo_no":
		return Token{Kind: TokenPhotoNo}
	case "skip_comment":
		return Token{Kind: TokenSkipComment}
	case "confirm_event":
		return Token{Kind: TokenConfirmEvent}
	case "use_saved_data":
		return Token{Kind: TokenUseSaved}
	case "enter_new_data":
		return Token{Kind: TokenEnterNew}
	case "consent_yes":
		return Token{Kind: TokenConsent}
	case "submit_application":
		return Token{Kind: TokenSubmit}
	case "cancel":
		return Token{Kind: TokenCancel}
	}

	switch {
	case strings.HasPrefix(raw, "date_"):
		return Token{Kind: TokenDate, Value: strings.TrimPrefix(raw, "date_")}
	case strings.HasPrefix(raw, "time_"):
		return Token{Kind: TokenTime, Value: strings.TrimPrefix(raw, "time_")}
	case strings.HasPrefix(raw, "proc_"):
		return numericToken(TokenProc, strings.TrimPrefix(raw, "proc_"))
	case strings.HasPrefix(raw, "approve_"):
		return numericToken(TokenApprove, strings.TrimPrefix(raw, "approve_"))
	case strings.HasPrefix(raw, "reject_"):
		return numericToken(TokenReject, strings.TrimPrefix(raw, "reject_"))
	case strings.HasPrefix(raw, "primary_"):
		return numericToken(TokenPrimary, strings.TrimPrefix(raw, "primary_"))
	case strings.HasPrefix(raw, "view_apps_"):
		return numericToken(TokenViewApps, strings.TrimPrefix(raw, "view_apps_"))
	}
	return Token{Kind: TokenUnknown, Value: raw}
}

func numericToken(kind TokenKind, arg string) Token {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return Token{Kind: TokenUnknown, Value: arg}
	}
	return Token{Kind: kind, ID: id}
}
