package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelbook/models"
	"hotelbook/utils"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration // zero disables the client-side timeout
	RequestsPerMinute int           // zero disables pacing
	CircuitBreaker    bool
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client talks to the remote booking service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a booking service client. tokens may be nil for a client
// that only issues unauthenticated calls.
func NewClient(opts Options, tokens TokenSource) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid booking service url %q: %w", opts.BaseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logger,
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.RequestsPerMinute)
	}
	if opts.CircuitBreaker {
		c.breaker = newBreaker("booking-service", logger)
	}
	return c, nil
}

func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// 4xx answers are the service working as intended.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var te *TransportError
			return errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500
		},
	})
}

// request describes one call to the booking service.
type request struct {
	method         string
	path           string
	query          url.Values
	body           any    // JSON encoded unless raw is set
	raw            []byte // pre-encoded body
	contentType    string
	authenticated  bool
	idempotencyKey string
}

// do performs the call and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	if c.breaker == nil {
		return c.send(ctx, req)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, newNetworkError(err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newNetworkError(err)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch {
	case req.raw != nil:
		body = bytes.NewReader(req.raw)
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", req.method, req.path, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.idempotencyKey)
	}
	if req.authenticated && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("booking service unreachable",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("requestId", requestID),
			zap.Error(err))
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := newStatusError(resp.StatusCode, data)
		c.logger.Debug("booking service returned an error",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("requestId", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", te.Message))
		return nil, te
	}
	return data, nil
}

// doJSON performs the call and decodes a JSON answer into out.
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Message: GenericTransportMessage, Err: fmt.Errorf("decode %s %s: %w", req.method, req.path, err)}
	}
	return nil
}

// doEnvelope performs the call and checks the status carried in the envelope.
func (c *Client) doEnvelope(ctx context.Context, req request) (*models.Response, error) {
	var resp models.Response
	if err := c.doJSON(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != 0 && resp.Status != http.StatusOK {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", resp.Status)
		}
		return nil, &TransportError{StatusCode: resp.Status, Message: msg}
	}
	return &resp, nil
}
