package app

import (
	"fmt"
	"time"

	"hotelbook/config"
	"hotelbook/handlers"
	"hotelbook/middleware"
	"hotelbook/routes"
	"hotelbook/services/api"
	"hotelbook/services/credentials"
	"hotelbook/services/payment"
	"hotelbook/services/session"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App wires the client's services together. Both the CLI and the web shell
// are built on one App.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Store   credentials.Store
	Oracle  *session.Oracle
	Auth    *session.DefaultAuthService
	Client  *api.Client
	Secrets payment.SecretStore
}

// New builds the App for cfg. logger may be nil to use the global logger.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = utils.GetLogger()
	}

	store, err := credentials.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return NewWithStore(cfg, store, logger)
}

// NewWithStore builds the App over an existing credential store.
func NewWithStore(cfg config.Config, store credentials.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = utils.GetLogger()
	}

	var tokens api.TokenSource
	if ts, ok := store.(api.TokenSource); ok {
		tokens = ts
	} else {
		tokens = storeTokens{store}
	}
	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerMinute: cfg.MaxRequestsPerMin,
		CircuitBreaker:    cfg.CircuitBreaker,
		Logger:            logger,
	}, tokens)
	if err != nil {
		return nil, err
	}

	secrets, err := openSecretStore(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Oracle:  session.NewOracle(store),
		Auth:    session.NewAuthService(client, store, logger),
		Client:  client,
		Secrets: secrets,
	}, nil
}

type storeTokens struct {
	store credentials.Store
}

func (s storeTokens) Token() (string, bool) {
	return s.store.Read(credentials.FieldToken)
}

func openSecretStore(cfg config.Config) (payment.SecretStore, error) {
	ttl := cfg.PaymentSessionTTL
	if ttl <= 0 {
		ttl = payment.DefaultSessionTTL
	}
	switch cfg.PaymentSessionBackend {
	case "", "memory":
		return payment.NewMemorySecretStore(ttl), nil
	case "redis":
		client, err := utils.GetPaymentClient()
		if err != nil {
			return nil, err
		}
		return payment.NewRedisSecretStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown payment session backend %q", cfg.PaymentSessionBackend)
	}
}

// Orchestrator creates a checkout for one booking.
func (a *App) Orchestrator(bookingReference, amount string, nav payment.Navigator) *payment.Orchestrator {
	return payment.NewOrchestrator(bookingReference, amount, payment.Deps{
		Gateway:   a.Client,
		Secrets:   a.Secrets,
		Navigator: nav,
		Logger:    a.Logger,
	})
}

// Router builds the web shell.
func (a *App) Router() *gin.Engine {
	if a.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(a.Logger))
	router.Use(middleware.RateLimitMiddleware(a.Config.MaxRequestsPerMin))

	noticeDelay := a.Config.NoticeClearDelay
	if noticeDelay <= 0 {
		noticeDelay = 5 * time.Second
	}

	authHandler := handlers.NewAuthHandler(a.Auth, a.Oracle)
	roomHandler := handlers.NewRoomHandler(a.Client, noticeDelay)
	bookingHandler := handlers.NewBookingHandler(a.Client)
	adminHandler := handlers.NewAdminHandler(a.Client)
	paymentHandler := handlers.NewPaymentHandler(payment.NewRegistry(payment.Deps{
		Gateway: a.Client,
		Secrets: a.Secrets,
		Logger:  a.Logger,
	}), a.Config.StripePublishableKey)

	handlerBundle := &handlers.HandlerBundle{
		Session: a.Oracle,

		// Auth endpoints.
		LoginPageHandler: authHandler.LoginPageHandler,
		LoginHandler:     authHandler.LoginHandler,
		RegisterHandler:  authHandler.RegisterHandler,
		LogoutHandler:    authHandler.LogoutHandler,

		// Room endpoints.
		HomeHandler:        roomHandler.HomeHandler,
		SearchHandler:      roomHandler.SearchHandler,
		RoomsHandler:       roomHandler.RoomsHandler,
		RoomDetailsHandler: roomHandler.RoomDetailsHandler,
		BookRoomHandler:    roomHandler.BookRoomHandler,

		// Booking endpoints.
		FindBookingHandler: bookingHandler.FindBookingHandler,
		ProfileHandler:     bookingHandler.ProfileHandler,

		// Payment endpoints.
		PaymentStartHandler:   paymentHandler.StartHandler,
		PaymentOutcomeHandler: paymentHandler.OutcomeHandler,
		PaymentSuccessHandler: paymentHandler.SuccessHandler,
		PaymentFailedHandler:  paymentHandler.FailedHandler,

		// Admin endpoints.
		AdminDashboardHandler: adminHandler.DashboardHandler,
		EditRoomHandler:       adminHandler.EditRoomHandler,
		AddRoomHandler:        adminHandler.AddRoomHandler,
		UpdateRoomHandler:     adminHandler.UpdateRoomHandler,
		DeleteRoomHandler:     adminHandler.DeleteRoomHandler,
		UpdateBookingHandler:  adminHandler.UpdateBookingHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)
	return router
}
