package navigation

import (
	"errors"
	"net/url"
	"strings"
)

// Logical routes of the client.
const (
	LoginPath          = "/login"
	RegisterPath       = "/register"
	HomePath           = "/home"
	RoomsPath          = "/rooms"
	RoomDetailsPath    = "/room-details/:id"
	EditRoomPath       = "/admin/edit-room/:id"
	FindBookingPath    = "/find-booking"
	ProfilePath        = "/profile"
	AdminPath          = "/admin"
	PaymentPath        = "/payment/:bookingReference/:amount"
	PaymentSuccessPath = "/payment-success/:bookingReference"
	PaymentFailedPath  = "/payment-failed/:bookingReference"
)

var patterns = []string{
	LoginPath, RegisterPath, HomePath, RoomsPath, RoomDetailsPath, EditRoomPath,
	FindBookingPath, ProfilePath, AdminPath, PaymentPath, PaymentSuccessPath, PaymentFailedPath,
}

// Known reports whether path matches any logical route.
func Known(path string) bool {
	for _, pattern := range patterns {
		if _, ok := matchPattern(pattern, path); ok {
			return true
		}
	}
	return false
}

// DefaultLanding is where a login without a preserved destination ends up.
const DefaultLanding = HomePath

var ErrNotFound = errors.New("no route matches")

// Route binds a path pattern to the guard protecting it. A nil guard renders
// unconditionally.
type Route struct {
	Pattern string
	Guard   Guard
}

// Router resolves paths against the routing table.
type Router struct {
	routes []Route
}

// NewRouter builds the client's routing table over the given session.
func NewRouter(session Predicates) *Router {
	customer := AuthenticatedOnly{Session: session}
	admin := AdminOnly{Session: session}
	return &Router{routes: []Route{
		{Pattern: LoginPath},
		{Pattern: RegisterPath},
		{Pattern: HomePath},
		{Pattern: RoomsPath},
		{Pattern: FindBookingPath},
		{Pattern: RoomDetailsPath, Guard: customer},
		{Pattern: ProfilePath, Guard: customer},
		{Pattern: PaymentPath, Guard: customer},
		{Pattern: PaymentSuccessPath, Guard: customer},
		{Pattern: PaymentFailedPath, Guard: customer},
		{Pattern: AdminPath, Guard: admin},
		{Pattern: EditRoomPath, Guard: admin},
	}}
}

// Routes returns a copy of the routing table.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Match finds the route for path and extracts its parameters.
func (r *Router) Match(path string) (Route, map[string]string, error) {
	for _, route := range r.routes {
		if params, ok := matchPattern(route.Pattern, path); ok {
			return route, params, nil
		}
	}
	return Route{}, nil, ErrNotFound
}

// Resolve evaluates the guard of the route matching loc.
func (r *Router) Resolve(loc Location) (Decision, map[string]string, error) {
	route, params, err := r.Match(loc.Path)
	if err != nil {
		return Decision{}, nil, err
	}
	if route.Guard == nil {
		return Decision{Render: true}, params, nil
	}
	return route.Guard.Evaluate(loc), params, nil
}

func matchPattern(pattern, path string) (map[string]string, bool) {
	want := splitPath(pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			value, err := url.PathUnescape(got[i])
			if err != nil || value == "" {
				return nil, false
			}
			params[seg[1:]] = value
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Path fills the parameters of pattern in order.
//
//	Path(PaymentSuccessPath, "BK-100") == "/payment-success/BK-100"
func Path(pattern string, values ...string) string {
	segs := splitPath(pattern)
	next := 0
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") && next < len(values) {
			segs[i] = url.PathEscape(values[next])
			next++
		}
	}
	return "/" + strings.Join(segs, "/")
}
