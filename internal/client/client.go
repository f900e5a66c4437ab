package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"energy-cli/internal/notify"
	"energy-cli/internal/session"
	"energy-cli/pkg/models"
)

// HeaderRequestID carries a per-request id for server side log correlation.
const HeaderRequestID = "X-Request-ID"

// LoginPath is where the user is sent after a 401.
const LoginPath = "/login"

// Navigator moves the user to another view.
type Navigator interface {
	Push(path string)
}

type EnergyClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	session   *session.Store
	notifier  notify.Notifier
	navigator Navigator
	logger    *slog.Logger
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type Option func(*EnergyClient)

func WithNotifier(n notify.Notifier) Option {
	return func(c *EnergyClient) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *EnergyClient) {
		if n != nil {
			c.navigator = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *EnergyClient) {
		if l != nil {
			c.logger = l
		}
	}
}

type noNavigation struct{}

func (noNavigation) Push(string) {}

// New builds a client bound to sess. Requests carry the session token, and
// every response is classified as success, application error or auth error
// before the caller sees it.
func New(cfg ClientConfig, sess *session.Store, opts ...Option) *EnergyClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.Timeout)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	c := &EnergyClient{
		HTTP:      r,
		Config:    cfg,
		session:   sess,
		notifier:  notify.Discard,
		navigator: noNavigation{},
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}

	r.OnBeforeRequest(c.authorize)
	r.OnAfterResponse(c.classify)
	r.OnError(c.transportFailure)

	return c
}

// Session returns the store the client reads its token from.
func (c *EnergyClient) Session() *session.Store {
	return c.session
}

func (c *EnergyClient) authorize(_ *resty.Client, req *resty.Request) error {
	if token := c.session.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.SetHeader(HeaderRequestID, uuid.NewString())
	}
	return nil
}

func (c *EnergyClient) classify(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug("api response",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"request_id", resp.Request.Header.Get(HeaderRequestID),
		"duration", resp.Time(),
	)

	if resp.StatusCode() == http.StatusUnauthorized {
		c.unauthorized()
		return ErrUnauthorized
	}

	if resp.IsError() {
		c.notifier.Error(MsgServiceError)
		return &TransportError{Status: resp.StatusCode(), Err: fmt.Errorf("unexpected status %s", resp.Status())}
	}

	env, ok := resp.Request.Context().Value(envelopeKey{}).(*models.Envelope)
	if !ok {
		env = &models.Envelope{}
	}
	if err := json.Unmarshal(resp.Body(), env); err != nil {
		c.notifier.Error(MsgServiceError)
		return &TransportError{Status: resp.StatusCode(), Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = MsgServiceError
		}
		c.notifier.Error(msg)
		return &APIError{Code: env.Code, Message: env.Message}
	}
	return nil
}

func (c *EnergyClient) unauthorized() {
	c.notifier.Error(MsgLoginRequired)
	if err := c.session.Clear(); err != nil {
		c.logger.Warn("failed to clear session", "error", err)
	}
	c.navigator.Push(LoginPath)
}

// transportFailure runs for every failed request. Errors returned by
// classify were already reported; anything else (connection refused, a
// timeout while reading the body) was not.
func (c *EnergyClient) transportFailure(req *resty.Request, err error) {
	if classified(err) {
		return
	}
	c.logger.Debug("api request failed", "method", req.Method, "url", req.URL, "error", err)
	c.notifier.Error(MsgServiceError)
}

// envelopeKey carries the envelope classify decodes back to call.
type envelopeKey struct{}

// call executes req and decodes the envelope payload into out (may be nil).
func (c *EnergyClient) call(ctx context.Context, req *resty.Request, method, path string, out any) error {
	env := &models.Envelope{}
	resp, err := req.SetContext(context.WithValue(ctx, envelopeKey{}, env)).Execute(method, path)
	if err != nil {
		return wrapError(err)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		c.notifier.Error(MsgServiceError)
		return &TransportError{Status: resp.StatusCode(), Err: fmt.Errorf("decode %s payload: %w", path, err)}
	}
	return nil
}

func classified(err error) bool {
	var apiErr *APIError
	var transportErr *TransportError
	return errors.Is(err, ErrUnauthorized) ||
		errors.As(err, &apiErr) ||
		errors.As(err, &transportErr)
}

func wrapError(err error) error {
	if classified(err) {
		return err
	}
	return &TransportError{Err: err}
}
