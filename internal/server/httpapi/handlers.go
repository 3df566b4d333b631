package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/todoapp/userapi/internal/common"
	"github.com/todoapp/userapi/internal/server/auth"
	"github.com/todoapp/userapi/internal/server/models"
)

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type expiredResponse struct {
	Expired bool `json:"expired"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// userResponse is the safe projection of an account: no password hash, no
// refresh token.
type userResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Login == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	s.logger.Info(r.Context(), "Registration request", "login", req.Login)

	token, err := s.users.Register(r.Context(), req.Login, req.Password, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "login", req.Login)
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Login == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	result, err := s.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setRefreshCookie(w, result.Refresh)
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		s.writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	claims, err := s.users.Decode(r.Header.Get("Authorization"))
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	id, ok := claims.Get("id")
	if !ok || id == "" {
		s.writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	result, err := s.users.Refresh(r.Context(), id, cookie.Value)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setRefreshCookie(w, result.Refresh)
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Login == "" {
		s.writeError(w, http.StatusBadRequest, "login is required")
		return
	}

	token, err := s.users.UpdateProfile(r.Context(), req.Login, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := s.users.Decode(r.Header.Get("Authorization"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, claims.Map())
}

func (s *Server) handleHasExpired(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(w, http.StatusBadRequest, "token query parameter is required")
		return
	}

	expired, err := s.users.CheckExpired(token)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expiredResponse{Expired: expired})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, rt *auth.RefreshToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    rt.Token,
		Expires:  rt.Expires,
		HttpOnly: true,
		Path:     "/",
	})
}

// writeServiceError maps service errors onto HTTP statuses. Anything not in
// the taxonomy is an infrastructure failure and stays a 500 with no detail
// leaked to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateLogin):
		s.writeError(w, http.StatusConflict, common.ErrDuplicateLogin.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		s.writeError(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrAccountNotFound):
		s.writeError(w, http.StatusNotFound, common.ErrAccountNotFound.Error())
	case errors.Is(err, common.ErrInvalidToken):
		s.writeError(w, http.StatusBadRequest, common.ErrInvalidToken.Error())
	default:
		s.logger.Error(r.Context(), "internal error", "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err.Error())
	}
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
