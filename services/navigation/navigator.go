package navigation

import (
	"errors"
	"sync"
)

// maxRedirects bounds guard redirects followed by one navigation.
const maxRedirects = 4

var ErrRedirectLoop = errors.New("too many redirects")

// Navigator keeps the navigation history and applies route guards on every
// move.
type Navigator struct {
	mu      sync.Mutex
	router  *Router
	history []Location
}

func NewNavigator(router *Router) *Navigator {
	return &Navigator{router: router}
}

// Push navigates to loc, adding a history entry.
func (n *Navigator) Push(loc Location) (Location, error) {
	return n.navigate(loc, false)
}

// Replace navigates to loc, overwriting the current history entry.
func (n *Navigator) Replace(loc Location) (Location, error) {
	return n.navigate(loc, true)
}

// Navigate pushes a plain path. It satisfies the payment flow's navigator.
func (n *Navigator) Navigate(path string) error {
	_, err := n.Push(Location{Path: path})
	return err
}

func (n *Navigator) navigate(loc Location, replace bool) (Location, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := 0; i <= maxRedirects; i++ {
		decision, _, err := n.router.Resolve(loc)
		if err != nil {
			return n.current(), err
		}
		n.record(loc, replace)
		if decision.Render {
			return loc, nil
		}
		// Guard redirects replace the entry just recorded.
		loc, replace = *decision.Redirect, true
	}
	return n.current(), ErrRedirectLoop
}

func (n *Navigator) record(loc Location, replace bool) {
	if replace && len(n.history) > 0 {
		n.history[len(n.history)-1] = loc
		return
	}
	n.history = append(n.history, loc)
}

func (n *Navigator) current() Location {
	if len(n.history) == 0 {
		return Location{}
	}
	return n.history[len(n.history)-1]
}

// Current returns the location on top of the history.
func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

// History returns a copy of the history, oldest first.
func (n *Navigator) History() []Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Location(nil), n.history...)
}

// AfterLogin continues from the login page to the destination preserved in
// the current location's state, replacing the login entry.
func (n *Navigator) AfterLogin() (Location, error) {
	return n.Replace(LoginTarget(n.Current().State))
}
