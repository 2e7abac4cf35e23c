package middleware

import (
	"net/http"
	"net/url"

	"hotelbook/services/navigation"

	"github.com/gin-gonic/gin"
)

// Guard runs a route guard in front of a view. A refused request is sent to
// the login page with the requested path and query in "from".
func Guard(guard navigation.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Evaluate(navigation.Location{
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
		})
		if decision.Render {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, LoginRedirect(decision.Redirect))
		c.Abort()
	}
}

// RequireAuthenticated lets any logged-in user through.
func RequireAuthenticated(session navigation.Predicates) gin.HandlerFunc {
	return Guard(navigation.AuthenticatedOnly{Session: session})
}

// RequireAdmin lets administrators through. Customers are redirected like
// anonymous visitors.
func RequireAdmin(session navigation.Predicates) gin.HandlerFunc {
	return Guard(navigation.AdminOnly{Session: session})
}

// LoginRedirect renders a guard redirect as a URL.
func LoginRedirect(loc *navigation.Location) string {
	if loc == nil {
		return navigation.LoginPath
	}
	if loc.State.From == nil || loc.State.From.Path == "" {
		return loc.Path
	}
	return loc.Path + "?from=" + url.QueryEscape(loc.State.From.String())
}
