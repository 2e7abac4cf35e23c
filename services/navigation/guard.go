package navigation

import (
	"net/url"
	"strings"
)

// Predicates is the part of the session oracle the guards consult.
type Predicates interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Location is a navigation target plus the state carried with it.
type Location struct {
	Path     string
	RawQuery string
	State    State
}

// String renders the path and query of l.
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// ParseLocation reads a client-supplied destination. Only relative URLs
// naming a known route are accepted.
func ParseLocation(raw string) (Location, bool) {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return Location{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return Location{}, false
	}
	if !Known(u.Path) {
		return Location{}, false
	}
	return Location{Path: u.Path, RawQuery: u.RawQuery}, true
}

// State travels with a navigation. From is set on redirects to the login
// entry point.
type State struct {
	From *Location
}

// Decision is the outcome of evaluating a guard. Either Render is set or
// Redirect names where to go instead, replacing the current history entry.
type Decision struct {
	Render   bool
	Redirect *Location
}

// Guard gates a protected view.
type Guard interface {
	Evaluate(loc Location) Decision
}

// AuthenticatedOnly renders for any logged-in user.
type AuthenticatedOnly struct {
	Session Predicates
}

func (g AuthenticatedOnly) Evaluate(loc Location) Decision {
	if g.Session.IsAuthenticated() {
		return Decision{Render: true}
	}
	return redirectToLogin(loc)
}

// AdminOnly renders for administrators. A logged-in customer is sent to the
// login page like an anonymous visitor; there is no forbidden state.
type AdminOnly struct {
	Session Predicates
}

func (g AdminOnly) Evaluate(loc Location) Decision {
	if g.Session.IsAdmin() {
		return Decision{Render: true}
	}
	return redirectToLogin(loc)
}

func redirectToLogin(loc Location) Decision {
	from := Location{Path: loc.Path, RawQuery: loc.RawQuery}
	return Decision{Redirect: &Location{Path: LoginPath, State: State{From: &from}}}
}

// LoginTarget is where a successful login continues: the preserved
// destination when it names a known route other than login, else the
// default landing view.
func LoginTarget(state State) Location {
	from := state.From
	if from != nil && strings.HasPrefix(from.Path, "/") && !strings.HasPrefix(from.Path, "//") &&
		from.Path != LoginPath && Known(from.Path) {
		return Location{Path: from.Path, RawQuery: from.RawQuery}
	}
	return Location{Path: DefaultLanding}
}
