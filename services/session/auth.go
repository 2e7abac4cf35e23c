package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hotelbook/models"
	"hotelbook/services/api"
	"hotelbook/services/credentials"
	"hotelbook/utils"

	"go.uber.org/zap"
)

// MissingInputMessage is shown when a login or registration form is incomplete.
const MissingInputMessage = "Please fill all input"

// ErrNoSession is returned when an operation needs a stored token.
var ErrNoSession = errors.New("not logged in")

// AuthClient is the part of the booking service the auth flow talks to.
type AuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Response, error)
	Register(ctx context.Context, req models.RegistrationRequest) (*models.Response, error)
}

// AuthService logs users in and out. It is the only writer of the
// credential store.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, req models.RegistrationRequest) (string, error)
	Logout() error
	Claims() (utils.TokenClaims, error)
}

type DefaultAuthService struct {
	Client AuthClient
	Store  credentials.Store
	Logger *zap.Logger
}

func NewAuthService(client AuthClient, store credentials.Store, logger *zap.Logger) *DefaultAuthService {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultAuthService{Client: client, Store: store, Logger: logger}
}

// Login exchanges credentials for a session and persists it. The token is
// written first and removed again if the role cannot be stored.
func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (models.Session, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := utils.ValidateStruct(req, MissingInputMessage); err != nil {
		return models.Session{}, err
	}

	resp, err := s.Client.Login(ctx, req)
	if err != nil {
		return models.Session{}, err
	}
	if resp.Status != http.StatusOK {
		return models.Session{}, &api.TransportError{StatusCode: resp.Status, Message: loginFailure(resp)}
	}
	role, ok := models.ParseRole(string(resp.Role))
	if resp.Token == "" || !ok {
		s.Logger.Warn("login answer missing token or role", zap.String("email", req.Email), zap.String("role", string(resp.Role)))
		return models.Session{}, &api.TransportError{StatusCode: resp.Status, Message: api.GenericTransportMessage}
	}

	if err := s.Store.Save(credentials.FieldToken, resp.Token); err != nil {
		return models.Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	if err := s.Store.Save(credentials.FieldRole, string(role)); err != nil {
		if clearErr := s.Store.Clear(); clearErr != nil {
			s.Logger.Error("failed to roll back partial session", zap.Error(clearErr))
		}
		return models.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	s.Logger.Info("user logged in", zap.String("email", req.Email), zap.String("role", string(role)))
	return models.Session{Token: resp.Token, Role: role}, nil
}

func loginFailure(resp *models.Response) string {
	if resp.Message != "" {
		return resp.Message
	}
	return fmt.Sprintf("Request failed with status code %d", resp.Status)
}

// Register creates an account and returns the service's message. It does not
// log the user in.
func (s *DefaultAuthService) Register(ctx context.Context, req models.RegistrationRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(req, MissingInputMessage); err != nil {
		return "", err
	}
	resp, err := s.Client.Register(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout clears the stored session. Logging out twice is harmless.
func (s *DefaultAuthService) Logout() error {
	return s.Store.Clear()
}

// Claims decodes the stored token for display.
func (s *DefaultAuthService) Claims() (utils.TokenClaims, error) {
	token, ok := s.Store.Read(credentials.FieldToken)
	if !ok {
		return utils.TokenClaims{}, ErrNoSession
	}
	return utils.InspectToken(token)
}
