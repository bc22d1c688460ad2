package fakezone

import (
	"errors"
	"net/http"
	"strings"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "RitZone backend is running",
		"environment": map[string]any{
			"nodeEnv": s.opts.Environment,
		},
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		fail(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	u, err := s.store.CreateUser(req.Email, req.Password, req.FullName, req.Phone)
	if errors.Is(err, ErrUserExists) {
		fail(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"user":    u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loginBody(s.opts.LoginShape, token, u))
}

func loginBody(shape, token string, u User) map[string]any {
	switch shape {
	case ShapeSession:
		return map[string]any{
			"success": true,
			"data": map[string]any{
				"user":    u,
				"session": map[string]any{"access_token": token, "token_type": "bearer"},
			},
		}
	case ShapeAccessToken:
		return map[string]any{"access_token": token, "token_type": "bearer", "user": u}
	case ShapeDataAccessToken:
		return map[string]any{"success": true, "data": map[string]any{"access_token": token, "user": u}}
	case ShapeDataToken:
		return map[string]any{"success": true, "data": map[string]any{"token": token, "user": u}}
	case ShapeNone:
		return map[string]any{"success": true, "message": "Login successful", "user": u}
	default:
		return map[string]any{"success": true, "message": "Login successful", "token": token, "user": u}
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(userID(r))
	if err != nil {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	ok(w, http.StatusOK, u)
}

type profileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.FullName == "" && req.Phone == "" {
		fail(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	u, err := s.store.UpdateProfile(userID(r), req.FullName, req.Phone)
	if err != nil {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	ok(w, http.StatusOK, u)
}
