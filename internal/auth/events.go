package auth

import (
	"time"

	"github.com/bill8575/e-learning/internal/session"
)

// EventKind discriminates lifecycle events emitted by the controller.
type EventKind string

const (
	// EventSuccess reports a usable session: fresh (Redirect true) or
	// restored from storage (Redirect false).
	EventSuccess EventKind = "authenticate_success"
	// EventFail reports a rejected signup or login attempt.
	EventFail EventKind = "authenticate_fail"
	// EventLogout reports the session ended, explicitly or by expiry.
	EventLogout EventKind = "logout"
	// EventNone reports that a restore found nothing usable. It is
	// inert and must not be treated as a failure.
	EventNone EventKind = "none"
)

// Event is one lifecycle notification. Success events carry the
// session fields; Fail events carry exactly one message.
type Event struct {
	Kind           EventKind
	Email          string
	UserID         string
	Token          string
	ExpirationDate time.Time
	Redirect       bool
	Message        string
}

func successEvent(s session.Session, redirect bool) Event {
	return Event{
		Kind:           EventSuccess,
		Email:          s.Email,
		UserID:         s.UserID,
		Token:          s.Token,
		ExpirationDate: s.ExpirationDate,
		Redirect:       redirect,
	}
}

func failEvent(message string) Event {
	return Event{Kind: EventFail, Message: message}
}

func logoutEvent() Event {
	return Event{Kind: EventLogout}
}

func noneEvent() Event {
	return Event{Kind: EventNone}
}

// Listener receives lifecycle events. Dispatch is synchronous;
// listeners must not call back into the controller.
type Listener func(Event)

// Navigator reacts to authentication state changes. Home fires on a
// fresh login or signup, LoginScreen on logout. Restored sessions and
// failures never navigate.
type Navigator interface {
	Home()
	LoginScreen()
}

// NavigationListener adapts a Navigator to the event stream.
func NavigationListener(n Navigator) Listener {
	return func(e Event) {
		switch {
		case e.Kind == EventSuccess && e.Redirect:
			n.Home()
		case e.Kind == EventLogout:
			n.LoginScreen()
		}
	}
}
