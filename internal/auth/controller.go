package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bill8575/e-learning/internal/gateway"
	"github.com/bill8575/e-learning/internal/logger"
	"github.com/bill8575/e-learning/internal/session"
)

// State names the controller's position in the auth lifecycle.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateAuthFailed     State = "auth_failed"
)

const expiryClearTimeout = 5 * time.Second

// Controller drives the session lifecycle. It owns the single current
// session, is the only writer to the session store, arms the expiry
// timer, and emits lifecycle events to subscribers.
//
// Intents are serialized by an internal mutex: overlapping signup and
// login calls run one at a time, so there is no last-response-wins race
// on the store. Events are dispatched after the lock is released.
type Controller struct {
	gateway gateway.Gateway
	store   session.Store
	timer   *ExpiryTimer

	now func() time.Time

	mu        sync.Mutex
	state     State
	current   *session.Session
	epoch     uint64
	listeners []Listener
}

func NewController(gw gateway.Gateway, store session.Store) *Controller {
	return &Controller{
		gateway: gw,
		store:   store,
		timer:   NewExpiryTimer(),
		now:     time.Now,
		state:   StateAnonymous,
	}
}

// Subscribe registers a listener for lifecycle events.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns a copy of the current session, or nil when anonymous.
func (c *Controller) Current() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}

// SignUp registers a new account with the provider and authenticates it.
func (c *Controller) SignUp(ctx context.Context, email, password string) Event {
	c.mu.Lock()
	e := c.authenticate(ctx, email, password, c.gateway.SignUp)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	return dispatch(ls, e)
}

// LogIn authenticates an existing account.
func (c *Controller) LogIn(ctx context.Context, email, password string) Event {
	c.mu.Lock()
	e := c.authenticate(ctx, email, password, c.gateway.LogIn)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	return dispatch(ls, e)
}

// Restore loads the persisted session. A missing, corrupt, or expired
// record leaves the controller anonymous and yields the inert None
// event; expired records are cleared eagerly. A valid record re-arms
// the expiry timer with the remaining lifetime and succeeds without a
// redirect, so the caller stays on its current view.
func (c *Controller) Restore(ctx context.Context) Event {
	c.mu.Lock()
	e := c.restore(ctx)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	return dispatch(ls, e)
}

// Logout ends the current session: the pending expiry callback is
// canceled, the store slot cleared, and a logout event emitted.
// It is idempotent.
func (c *Controller) Logout(ctx context.Context) Event {
	c.mu.Lock()
	e := c.logout(ctx)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	return dispatch(ls, e)
}

type credentialCall func(ctx context.Context, email, password string) (*gateway.Response, error)

// authenticate runs a signup or login intent. Caller holds c.mu.
func (c *Controller) authenticate(ctx context.Context, email, password string, call credentialCall) Event {
	c.state = StateAuthenticating

	resp, err := call(ctx, email, password)
	if err != nil {
		c.state = StateAuthFailed
		f := gateway.Normalize(err)
		logger.Warn("authentication rejected", map[string]any{
			"code": f.Code,
		})
		return failEvent(f.Message)
	}

	lifetime, err := lifetimeFrom(resp)
	if err != nil {
		c.state = StateAuthFailed
		logger.Error("provider response unusable", map[string]any{
			"error": err.Error(),
		})
		return failEvent(gateway.Unknown().Message)
	}

	sess := session.New(
		resp.Email,
		resp.LocalID,
		resp.IDToken,
		resp.RefreshToken,
		c.now(),
		lifetime,
	)

	if err := c.store.Save(ctx, sess); err != nil {
		// the session stays usable in memory for its lifetime,
		// it just will not survive a restart
		logger.Error("session save failed", map[string]any{
			"error": err.Error(),
		})
	}

	c.current = &sess
	c.state = StateAuthenticated
	c.armExpiry(lifetime)

	logger.Info("authenticated", map[string]any{
		"user_id":     sess.UserID,
		"expires_at":  sess.ExpirationDate.Unix(),
		"lifetime_ms": lifetime.Milliseconds(),
	})

	return successEvent(sess, true)
}

// restore runs the restore intent. Caller holds c.mu.
func (c *Controller) restore(ctx context.Context) Event {
	sess, err := c.store.Load(ctx)
	if err != nil {
		logger.Error("session load failed", map[string]any{
			"error": err.Error(),
		})
		return noneEvent()
	}
	if sess == nil {
		return noneEvent()
	}

	now := c.now()
	if !sess.IsValid(now) {
		// the stale slot is cleared eagerly rather than left
		// until the next explicit logout
		if err := c.store.Clear(ctx); err != nil {
			logger.Error("stale session clear failed", map[string]any{
				"error": err.Error(),
			})
		}
		return noneEvent()
	}

	remaining := sess.ExpirationDate.Sub(now)

	c.current = sess
	c.state = StateAuthenticated
	c.armExpiry(remaining)

	logger.Info("session restored", map[string]any{
		"user_id":      sess.UserID,
		"remaining_ms": remaining.Milliseconds(),
	})

	return successEvent(*sess, false)
}

// armExpiry schedules the expiry callback for the session just
// installed. The callback carries the session's epoch so that, once it
// finally gets the lock, it can tell whether it still owns the session
// it was armed for. Caller holds c.mu.
func (c *Controller) armExpiry(d time.Duration) {
	c.epoch++
	epoch := c.epoch
	c.timer.Arm(d, func() { c.expire(epoch) })
}

// logout runs the logout intent. Caller holds c.mu.
func (c *Controller) logout(ctx context.Context) Event {
	c.epoch++
	c.timer.Cancel()

	if err := c.store.Clear(ctx); err != nil {
		logger.Error("session clear failed", map[string]any{
			"error": err.Error(),
		})
	}

	c.current = nil
	c.state = StateAnonymous

	return logoutEvent()
}

// expire runs on the timer goroutine when the session lifetime ends.
// The callback may have waited on c.mu while another intent replaced
// the session it was armed for; it must never log out its successor.
func (c *Controller) expire(epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), expiryClearTimeout)
	defer cancel()

	c.mu.Lock()

	if epoch != c.epoch {
		// a newer session or an explicit logout superseded this callback
		c.mu.Unlock()
		return
	}

	logger.Info("session expired", nil)

	e := c.logout(ctx)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	dispatch(ls, e)
}

// snapshotListeners copies the listener set. Caller holds c.mu.
func (c *Controller) snapshotListeners() []Listener {
	return append([]Listener(nil), c.listeners...)
}

func dispatch(listeners []Listener, e Event) Event {
	for _, l := range listeners {
		l(e)
	}
	return e
}

// lifetimeFrom parses the provider's string-encoded lifetime. A
// non-numeric or non-positive value must not propagate into a corrupt
// expiration date.
func lifetimeFrom(resp *gateway.Response) (time.Duration, error) {
	secs, err := strconv.Atoi(resp.ExpiresIn)
	if err != nil {
		return 0, fmt.Errorf("invalid expiresIn %q: %w", resp.ExpiresIn, err)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("non-positive expiresIn %d", secs)
	}
	return time.Duration(secs) * time.Second, nil
}
