// Package conversation owns the message list and drives a single
// request/response exchange at a time.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
)

// DefaultRequestTimeout bounds a single provider call
const DefaultRequestTimeout = 60 * time.Second

// View is the presentation surface the controller drives
type View interface {
	AppendMessage(msg models.Message, rendered string)
	ClearInput()
	SetInputEnabled(enabled bool)
	ShowPending(token string)
	RemovePending(token string)
	UpdateStatus(state models.ConnectionState)
}

// ResponseProvider produces the assistant reply for a user message
type ResponseProvider interface {
	Respond(ctx context.Context, text string) (string, error)
}

// ProviderFunc adapts a function to the ResponseProvider interface
type ProviderFunc func(ctx context.Context, text string) (string, error)

// Respond calls f(ctx, text)
func (f ProviderFunc) Respond(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Renderer turns message content into its displayed form
type Renderer interface {
	Render(content string) string
}

type identityRenderer struct{}

func (identityRenderer) Render(content string) string { return content }

// Controller mediates between the input, the provider and the view.
// At most one request is in flight; input stays disabled until it
// resolves.
type Controller struct {
	view           View
	provider       ResponseProvider
	renderer       Renderer
	logger         *zap.Logger
	now            func() time.Time
	requestTimeout time.Duration

	mu       sync.Mutex
	messages []models.Message
	pending  *models.PendingRequest
	status   models.ConnectionState
	inflight sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithRenderer sets how message content is rendered for the view
func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithLogger sets the controller logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRequestTimeout bounds each provider call
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// New creates a controller bound to view and provider
func New(view View, provider ResponseProvider, opts ...Option) *Controller {
	c := &Controller{
		view:           view,
		provider:       provider,
		renderer:       identityRenderer{},
		logger:         zap.NewNop(),
		now:            time.Now,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends raw as a user message. Blank input returns ErrEmptyInput
// and a submission while a request is pending returns ErrInputDisabled;
// neither touches the view. Otherwise the provider is called in the
// background and the returned request's Done channel closes once the
// assistant reply (or the apology) has been appended.
func (c *Controller) Submit(ctx context.Context, raw string) (*models.PendingRequest, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, apierrors.NewEmptyInputError()
	}

	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return nil, apierrors.ErrInputDisabled
	}
	now := c.now()
	msg := models.NewMessage(models.RoleUser, text, now)
	c.messages = append(c.messages, msg)
	p := models.NewPendingRequest(text, now)
	c.pending = p
	c.inflight.Add(1)
	c.mu.Unlock()

	c.view.ClearInput()
	c.view.AppendMessage(msg, c.renderer.Render(msg.Content))
	c.view.SetInputEnabled(false)
	c.view.ShowPending(p.Token)

	c.logger.Debug("message submitted", zap.String("token", p.Token), zap.Int("chars", len(text)))

	go c.dispatch(ctx, p)
	return p, nil
}

type providerResult struct {
	reply string
	err   error
}

func (c *Controller) dispatch(ctx context.Context, p *models.PendingRequest) {
	defer c.inflight.Done()

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	results := make(chan providerResult, 1)
	go func() {
		reply, err := c.RequestResponse(ctx, p.Text)
		results <- providerResult{reply: reply, err: err}
	}()

	var res providerResult
	select {
	case res = <-results:
	case <-ctx.Done():
		// the provider ignored cancellation; its late result is dropped
		res.err = ctx.Err()
		if errors.Is(res.err, context.DeadlineExceeded) {
			res.err = apierrors.NewTimeoutError("waiting for reply")
		}
	}

	if res.err == nil && strings.TrimSpace(res.reply) == "" {
		res.err = apierrors.ErrNoContent
	}
	c.resolve(p, res)
}

// RequestResponse asks the provider for a reply. A panicking provider is
// reported as an error.
func (c *Controller) RequestResponse(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", apierrors.ErrProviderPanicked, r)
		}
	}()
	return c.provider.Respond(ctx, text)
}

func (c *Controller) resolve(p *models.PendingRequest, res providerResult) {
	failed := res.err != nil
	content := res.reply
	if failed {
		content = models.ErrorReply
		c.logger.Warn("request failed",
			zap.String("token", p.Token),
			zap.Duration("elapsed", c.now().Sub(p.StartedAt)),
			zap.Error(res.err),
		)
	}

	msg := models.NewMessage(models.RoleAssistant, content, c.now())

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	// p stays pending until the view has caught up, so a Submit issued
	// from a view callback cannot interleave with these updates.
	c.view.RemovePending(p.Token)
	c.view.AppendMessage(msg, c.renderer.Render(msg.Content))
	c.view.SetInputEnabled(true)

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	p.Resolve(msg, failed)
}

// Messages returns a snapshot of the conversation
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastReply returns the most recent assistant message
func (c *Controller) LastReply() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// Clear drops every message. A pending request still resolves and
// appends its reply.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

// Busy reports whether a request is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Wait blocks until the in-flight request, if any, has resolved
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// UpdateStatus records a connection state and forwards it to the view.
// It matches monitor.StatusFunc.
func (c *Controller) UpdateStatus(state models.ConnectionState) {
	c.mu.Lock()
	c.status = state
	c.mu.Unlock()
	c.view.UpdateStatus(state)
}

// Status returns the last connection state passed to UpdateStatus
func (c *Controller) Status() models.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
