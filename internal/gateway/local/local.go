package local

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bill8575/e-learning/internal/gateway"
	"github.com/bill8575/e-learning/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const gatewayName = "local"

// account is one provisioned user. Passwords are stored bcrypt-hashed
// even though this gateway only backs development and tests.
type account struct {
	localID      string
	email        string
	passwordHash string
}

// Gateway is an in-process credential gateway. It answers with the same
// response shape and error codes as the hosted identity provider.
type Gateway struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by lowercased email
	tokenTTL time.Duration
}

func New(tokenTTL time.Duration) *Gateway {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Gateway{
		accounts: make(map[string]*account),
		tokenTTL: tokenTTL,
	}
}

// Name returns the gateway identifier used by the registry.
func (g *Gateway) Name() string {
	return gatewayName
}

func (g *Gateway) SignUp(_ context.Context, email, password string) (*gateway.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := g.accounts[key]; ok {
		return nil, gateway.FromCode(gateway.CodeEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, gateway.Unknown()
	}

	acc := &account{
		localID:      uuid.NewString(),
		email:        email,
		passwordHash: string(hash),
	}
	g.accounts[key] = acc

	return g.issue(acc, false), nil
}

func (g *Gateway) LogIn(_ context.Context, email, password string) (*gateway.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, ok := g.accounts[strings.ToLower(email)]
	if !ok {
		return nil, gateway.FromCode(gateway.CodeEmailNotFound)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(acc.passwordHash),
		[]byte(password),
	); err != nil {
		return nil, gateway.FromCode(gateway.CodeInvalidPassword)
	}

	return g.issue(acc, true), nil
}

func (g *Gateway) issue(acc *account, registered bool) *gateway.Response {
	return &gateway.Response{
		IDToken:      utils.RandomString(32),
		Email:        acc.email,
		RefreshToken: utils.RandomString(32),
		ExpiresIn:    strconv.Itoa(int(g.tokenTTL.Seconds())),
		LocalID:      acc.localID,
		Registered:   registered,
	}
}
