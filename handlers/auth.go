package handlers

import (
	"net/http"

	"hotelbook/models"
	"hotelbook/services/navigation"
	"hotelbook/services/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   session.AuthService
	oracle *session.Oracle
}

func NewAuthHandler(auth session.AuthService, oracle *session.Oracle) *AuthHandler {
	return &AuthHandler{auth: auth, oracle: oracle}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// LoginPageHandler describes the login view, including where a successful
// login will continue.
func (h *AuthHandler) LoginPageHandler(c *gin.Context) {
	from := c.Query("from")
	target := navigation.LoginTarget(fromState(from))
	c.JSON(http.StatusOK, gin.H{
		"view":          "login",
		"from":          from,
		"next":          target.String(),
		"authenticated": h.oracle.IsAuthenticated(),
	})
}

// LoginHandler logs in and answers with the preserved destination.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		getLogger(c).Debug("invalid login body")
	}
	from := body.From
	if from == "" {
		from = c.Query("from")
	}

	sess, err := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	target := navigation.LoginTarget(fromState(from))
	c.JSON(http.StatusOK, gin.H{"role": sess.Role, "redirect": target.String()})
}

// fromState keeps a client-supplied destination only when it is a known
// relative route.
func fromState(from string) navigation.State {
	loc, ok := navigation.ParseLocation(from)
	if !ok {
		return navigation.State{}
	}
	return navigation.State{From: &loc}
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("invalid registration body")
	}
	message, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirectBody{Message: message, Redirect: navigation.LoginPath})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.auth.Logout(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirectBody{Redirect: navigation.HomePath})
}
