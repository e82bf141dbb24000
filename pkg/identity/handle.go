package identity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/exp/slog"
)

const accessTokenCookie = "access_token"

// Handle exposes credential login against the in-process provider. Real
// deployments authenticate against the external identity provider
// directly; this surface exists for dev and demo setups.
type Handle struct {
	provider     *InMemoryProvider
	tokenExpiry  time.Duration
	cookieSecure bool
}

type HandleOption func(*Handle)

func NewHandle(provider *InMemoryProvider, opts ...HandleOption) *Handle {
	h := &Handle{
		provider:    provider,
		tokenExpiry: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithTokenExpiry(expiry time.Duration) HandleOption {
	return func(h *Handle) {
		h.tokenExpiry = expiry
	}
}

func WithCookieSecure(secure bool) HandleOption {
	return func(h *Handle) {
		h.cookieSecure = secure
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

// Login verifies a credential and issues an access token, also set as an
// http-only cookie.
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "malformed JSON"})
		return
	}

	accountID, ok := h.provider.VerifyCredential(r.Context(), request.Email, request.Password)
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "invalid email or password"})
		return
	}

	token, err := h.provider.IssueToken(accountID, h.tokenExpiry)
	if err != nil {
		slog.Error("Failed to issue token", "accountId", accountID, "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "failed to issue token"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.tokenExpiry),
	})
	render.JSON(w, r, LoginResponse{AccessToken: token, UserID: accountID.String()})
}
