package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bill8575/e-learning/internal/gateway"
	"github.com/bill8575/e-learning/internal/session"
)

// stubGateway answers every call with a fixed response or error,
// optionally after a delay.
type stubGateway struct {
	resp  *gateway.Response
	err   error
	delay time.Duration
	calls int
}

func (s *stubGateway) Name() string { return "stub" }

func (s *stubGateway) SignUp(context.Context, string, string) (*gateway.Response, error) {
	return s.answer()
}

func (s *stubGateway) LogIn(context.Context, string, string) (*gateway.Response, error) {
	return s.answer()
}

func (s *stubGateway) answer() (*gateway.Response, error) {
	s.calls++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.resp, s.err
}

// memStore is an in-memory session slot that records operations.
type memStore struct {
	mu     sync.Mutex
	slot   *session.Session
	saves  int
	clears int
}

func (m *memStore) Save(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = &s
	m.saves++
	return nil
}

func (m *memStore) Load(context.Context) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return nil, nil
	}
	s := *m.slot
	return &s, nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = nil
	m.clears++
	return nil
}

func (m *memStore) snapshot() *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return nil
	}
	s := *m.slot
	return &s
}

// recorder collects dispatched events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type fakeNavigator struct {
	mu    sync.Mutex
	home  int
	login int
}

func (n *fakeNavigator) Home() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.home++
}

func (n *fakeNavigator) LoginScreen() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.login++
}

func (n *fakeNavigator) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.home, n.login
}

func okResponse() *gateway.Response {
	return &gateway.Response{
		IDToken:      "tok-1",
		Email:        "user@example.com",
		RefreshToken: "refresh-1",
		ExpiresIn:    "3600",
		LocalID:      "uid-1",
	}
}

func TestController_LogInSuccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{}
	c := NewController(&stubGateway{resp: okResponse()}, store)
	c.now = func() time.Time { return now }

	rec := &recorder{}
	c.Subscribe(rec.listen)

	e := c.LogIn(context.Background(), "user@example.com", "secret12")

	if e.Kind != EventSuccess {
		t.Fatalf("event kind = %q, want success", e.Kind)
	}
	if !e.Redirect {
		t.Error("fresh login must set Redirect")
	}
	if e.Email != "user@example.com" || e.UserID != "uid-1" || e.Token != "tok-1" {
		t.Errorf("event = %+v", e)
	}

	wantExpiry := now.Add(3600 * time.Second)
	if !e.ExpirationDate.Equal(wantExpiry) {
		t.Errorf("ExpirationDate = %v, want %v", e.ExpirationDate, wantExpiry)
	}

	saved := store.snapshot()
	if saved == nil {
		t.Fatal("session not persisted")
	}
	if !saved.ExpirationDate.Equal(wantExpiry) {
		t.Errorf("persisted expiry = %v, want %v", saved.ExpirationDate, wantExpiry)
	}
	if saved.RefreshToken != "refresh-1" {
		t.Errorf("refresh token not persisted: %+v", saved)
	}

	if got := c.State(); got != StateAuthenticated {
		t.Errorf("State() = %q", got)
	}
	if c.Current() == nil {
		t.Error("Current() = nil after login")
	}

	events := rec.all()
	if len(events) != 1 || events[0].Kind != EventSuccess {
		t.Errorf("dispatched events = %+v", events)
	}
}

func TestController_SignUpSuccess(t *testing.T) {
	store := &memStore{}
	c := NewController(&stubGateway{resp: okResponse()}, store)

	e := c.SignUp(context.Background(), "user@example.com", "secret12")

	if e.Kind != EventSuccess || !e.Redirect {
		t.Errorf("event = %+v, want success with redirect", e)
	}
	if store.snapshot() == nil {
		t.Error("session not persisted")
	}
}

func TestController_AuthFailure(t *testing.T) {
	tests := []struct {
		name    string
		gw      *stubGateway
		wantMsg string
	}{
		{
			"provider rejection",
			&stubGateway{err: gateway.FromCode(gateway.CodeEmailNotFound)},
			"This email does not exist!",
		},
		{
			"transport-shaped error",
			&stubGateway{err: gateway.Unknown()},
			"An unknown error occurred!",
		},
		{
			"non-numeric lifetime",
			&stubGateway{resp: &gateway.Response{IDToken: "t", Email: "a@b.c", ExpiresIn: "soon", LocalID: "u"}},
			"An unknown error occurred!",
		},
		{
			"non-positive lifetime",
			&stubGateway{resp: &gateway.Response{IDToken: "t", Email: "a@b.c", ExpiresIn: "0", LocalID: "u"}},
			"An unknown error occurred!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			c := NewController(tt.gw, store)

			e := c.LogIn(context.Background(), "a@b.c", "pw")

			if e.Kind != EventFail {
				t.Fatalf("event kind = %q, want fail", e.Kind)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", e.Message, tt.wantMsg)
			}
			if store.saves != 0 {
				t.Error("failure must not touch the session store")
			}
			if got := c.State(); got != StateAuthFailed {
				t.Errorf("State() = %q", got)
			}
			if c.Current() != nil {
				t.Error("Current() != nil after failure")
			}
		})
	}
}

func TestController_RetryAfterFailure(t *testing.T) {
	gw := &stubGateway{err: gateway.FromCode(gateway.CodeInvalidPassword)}
	c := NewController(gw, &memStore{})

	if e := c.LogIn(context.Background(), "a@b.c", "bad"); e.Kind != EventFail {
		t.Fatalf("first attempt = %+v", e)
	}

	// a new intent is simply a new attempt
	gw.err = nil
	gw.resp = okResponse()

	if e := c.LogIn(context.Background(), "a@b.c", "good"); e.Kind != EventSuccess {
		t.Fatalf("retry = %+v", e)
	}
}

func TestController_RestoreEmpty(t *testing.T) {
	store := &memStore{}
	c := NewController(&stubGateway{}, store)

	e := c.Restore(context.Background())

	if e.Kind != EventNone {
		t.Errorf("event kind = %q, want none", e.Kind)
	}
	if got := c.State(); got != StateAnonymous {
		t.Errorf("State() = %q", got)
	}
}

func TestController_RestoreExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{}
	stale := session.New("user@example.com", "uid-1", "tok", "r", now.Add(-2*time.Hour), time.Hour)
	store.slot = &stale

	c := NewController(&stubGateway{}, store)
	c.now = func() time.Time { return now }

	e := c.Restore(context.Background())

	if e.Kind != EventNone {
		t.Errorf("event kind = %q, want none (never a failure)", e.Kind)
	}
	if store.snapshot() != nil {
		t.Error("expired record must be cleared on restore")
	}
	if got := c.State(); got != StateAnonymous {
		t.Errorf("State() = %q", got)
	}
}

func TestController_RestoreValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{}
	persisted := session.New("user@example.com", "uid-1", "tok", "r", now.Add(-30*time.Minute), time.Hour)
	store.slot = &persisted

	c := NewController(&stubGateway{}, store)
	c.now = func() time.Time { return now }

	e := c.Restore(context.Background())

	if e.Kind != EventSuccess {
		t.Fatalf("event kind = %q, want success", e.Kind)
	}
	if e.Redirect {
		t.Error("restore must not force navigation")
	}
	if !e.ExpirationDate.Equal(persisted.ExpirationDate) {
		t.Errorf("ExpirationDate = %v, want original %v", e.ExpirationDate, persisted.ExpirationDate)
	}
	if got := c.State(); got != StateAuthenticated {
		t.Errorf("State() = %q", got)
	}
}

func TestController_Logout(t *testing.T) {
	store := &memStore{}
	c := NewController(&stubGateway{resp: okResponse()}, store)

	nav := &fakeNavigator{}
	c.Subscribe(NavigationListener(nav))

	if e := c.LogIn(context.Background(), "a@b.c", "pw"); e.Kind != EventSuccess {
		t.Fatal("login failed")
	}

	e := c.Logout(context.Background())

	if e.Kind != EventLogout {
		t.Errorf("event kind = %q", e.Kind)
	}
	if store.snapshot() != nil {
		t.Error("store not cleared on logout")
	}
	if got := c.State(); got != StateAnonymous {
		t.Errorf("State() = %q", got)
	}
	if c.Current() != nil {
		t.Error("Current() != nil after logout")
	}

	if _, login := nav.counts(); login != 1 {
		t.Errorf("login-screen navigations = %d, want 1", login)
	}
}

// A session restored with only a sliver of lifetime left must expire on
// its own: the armed callback logs the controller out and clears the slot.
func TestController_TimerFiredLogout(t *testing.T) {
	store := &memStore{}
	shortLived := session.New("user@example.com", "uid-1", "tok", "r", time.Now(), 30*time.Millisecond)
	store.slot = &shortLived

	c := NewController(&stubGateway{}, store)

	rec := &recorder{}
	nav := &fakeNavigator{}
	c.Subscribe(rec.listen)
	c.Subscribe(NavigationListener(nav))

	if e := c.Restore(context.Background()); e.Kind != EventSuccess {
		t.Fatalf("restore = %+v", e)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != StateAnonymous {
		if time.Now().After(deadline) {
			t.Fatal("session never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if store.snapshot() != nil {
		t.Error("store not cleared on expiry")
	}

	events := rec.all()
	last := events[len(events)-1]
	if last.Kind != EventLogout {
		t.Errorf("last event = %+v, want logout", last)
	}

	if _, login := nav.counts(); login != 1 {
		t.Errorf("login-screen navigations = %d, want 1", login)
	}
}

// An expiry callback for the old session can fire while a login intent
// holds the controller lock. Once the login wins the lock race and
// installs a fresh session, the leftover callback must not log it out.
func TestController_ExpiryDuringLoginKeepsFreshSession(t *testing.T) {
	store := &memStore{}
	nearlyExpired := session.New("user@example.com", "uid-old", "tok-old", "r", time.Now(), 30*time.Millisecond)
	store.slot = &nearlyExpired

	gw := &stubGateway{resp: okResponse(), delay: 200 * time.Millisecond}
	c := NewController(gw, store)

	rec := &recorder{}
	nav := &fakeNavigator{}
	c.Subscribe(rec.listen)
	c.Subscribe(NavigationListener(nav))

	if e := c.Restore(context.Background()); e.Kind != EventSuccess {
		t.Fatalf("restore = %+v", e)
	}

	// the old session's timer fires mid-call, while LogIn holds the lock
	e := c.LogIn(context.Background(), "user@example.com", "secret12")
	if e.Kind != EventSuccess {
		t.Fatalf("login = %+v", e)
	}

	// give the superseded callback time to run
	time.Sleep(100 * time.Millisecond)

	if got := c.State(); got != StateAuthenticated {
		t.Errorf("State() = %q, want authenticated", got)
	}

	cur := c.Current()
	if cur == nil || cur.UserID != "uid-1" {
		t.Errorf("Current() = %+v, want the fresh session", cur)
	}

	saved := store.snapshot()
	if saved == nil || saved.Token != "tok-1" {
		t.Errorf("persisted session = %+v, want the fresh one", saved)
	}

	for _, ev := range rec.all() {
		if ev.Kind == EventLogout {
			t.Error("superseded expiry callback logged the fresh session out")
		}
	}
	if _, login := nav.counts(); login != 0 {
		t.Errorf("login-screen navigations = %d, want 0", login)
	}
}

func TestNavigationListener(t *testing.T) {
	store := &memStore{}
	c := NewController(&stubGateway{resp: okResponse()}, store)

	nav := &fakeNavigator{}
	c.Subscribe(NavigationListener(nav))

	// fresh login navigates home
	if e := c.LogIn(context.Background(), "a@b.c", "pw"); e.Kind != EventSuccess {
		t.Fatal("login failed")
	}
	if home, login := nav.counts(); home != 1 || login != 0 {
		t.Errorf("after login: home=%d login=%d", home, login)
	}

	// a restore in a fresh controller must not navigate
	c2 := NewController(&stubGateway{}, store)
	nav2 := &fakeNavigator{}
	c2.Subscribe(NavigationListener(nav2))

	if e := c2.Restore(context.Background()); e.Kind != EventSuccess {
		t.Fatal("restore failed")
	}
	if home, login := nav2.counts(); home != 0 || login != 0 {
		t.Errorf("after restore: home=%d login=%d", home, login)
	}
}
