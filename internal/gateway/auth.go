package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/soyeahso/tasknest/internal/auth"
	"github.com/soyeahso/tasknest/internal/store"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const minPasswordLen = 8

// handleSignup registers a new user.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.users.Create(req.Email, hash, strings.TrimSpace(req.Name))
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.log.Info().Str("user", user.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, user)
}

// handleLogin authenticates a user and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("failed to issue token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}
