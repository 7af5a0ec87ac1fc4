package identitytoolkit

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

	"github.com/bill8575/e-learning/internal/gateway"
	"github.com/bill8575/e-learning/internal/logger"
)

const gatewayName = "identitytoolkit"

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Gateway signs users up and in against the identity-toolkit REST API.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(baseURL, apiKey string) (*Gateway, error) {

	if apiKey == "" {
		return nil, errors.New("identitytoolkit api key missing")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Name returns the gateway identifier used by the registry.
func (g *Gateway) Name() string {
	return gatewayName
}

func (g *Gateway) SignUp(ctx context.Context, email, password string) (*gateway.Response, error) {
	return g.post(ctx, "accounts:signUp", email, password)
}

func (g *Gateway) LogIn(ctx context.Context, email, password string) (*gateway.Response, error) {
	return g.post(ctx, "accounts:signInWithPassword", email, password)
}

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// errorBody covers both the wire shape {"error":{"message":CODE}} and
// the client-side wrapping {"error":{"error":{"message":CODE}}} seen in
// captured responses.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"error"`
}

func (b errorBody) code() string {
	if b.Error.Message != "" {
		return b.Error.Message
	}
	return b.Error.Error.Message
}

func (g *Gateway) post(ctx context.Context, action, email, password string) (*gateway.Response, error) {

	body, err := json.Marshal(authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, gateway.Unknown()
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", g.baseURL, action, url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, gateway.Unknown()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// transport error, no structured body to map
		logger.Warn("identitytoolkit call failed", map[string]any{
			"action": action,
			"error":  err.Error(),
		})
		return nil, gateway.Unknown()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gateway.Unknown()
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err != nil || eb.code() == "" {
			return nil, gateway.Unknown()
		}
		return nil, gateway.FromCode(eb.code())
	}

	var out gateway.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, gateway.Unknown()
	}

	return &out, nil
}
