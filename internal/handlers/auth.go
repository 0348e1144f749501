package handlers

import (
	"net/http"
	"time"

	"github.com/crucial707/staybook/internal/auth"
	"github.com/crucial707/staybook/internal/middleware"
	"github.com/crucial707/staybook/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Accounts *service.AccountService
	Resolver *auth.Resolver
	// SecureCookie marks the session cookie Secure with SameSite=None, for a browser client
	// served from another origin over HTTPS. Otherwise SameSite=Lax is used.
	SecureCookie bool
}

// ==========================
// Sign Up
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Accounts.Signup(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ==========================
// Login (sets the session cookie)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.Accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    session.User,
	})
}

// ==========================
// Logout
// ==========================
// Logout always clears the cookie. When the request carries a token that still verifies, it is
// also revoked so a copy of it can no longer be used.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, claims, err := h.Resolver.Resolve(r); err == nil {
		if err := h.Accounts.Logout(r.Context(), claims); err != nil {
			writeError(w, r, err)
			return
		}
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ==========================
// Profile
// ==========================
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	user, err := h.Accounts.Profile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Update Profile (re-issues the session cookie)
// ==========================
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	targetID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input service.ProfileInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.Accounts.UpdateProfile(r.Context(), id, targetID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// the old token carries the old email; retire it along with issuing the new one
	if err := h.Accounts.Logout(r.Context(), middleware.ClaimsFrom(r.Context())); err != nil {
		middleware.LoggerFrom(r.Context()).Warn("revoke previous session", "error", err)
	}
	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, session.User)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *service.Session) {
	maxAge := 0
	if session.Claims != nil && session.Claims.ExpiresAt != nil {
		maxAge = int(time.Until(session.Claims.ExpiresAt.Time).Seconds())
	}
	c := h.cookie(session.Token)
	c.MaxAge = maxAge
	http.SetCookie(w, c)
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	c := h.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (h *AuthHandler) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.SecureCookie {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
