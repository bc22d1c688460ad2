// Package auth registers and logs in the probe user and installs the bearer
// token on the session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"ritzprobe/internal/session"
)

const (
	RegisterPath = "/auth/register"
	LoginPath    = "/auth/login"
)

// Shape is one recognised location of the token in a login response.
type Shape struct {
	Name string
	Path string // gjson path
}

// TokenShapes are tried in order; the first non-empty string wins.
var TokenShapes = []Shape{
	{Name: "token", Path: "token"},
	{Name: "session", Path: "data.session.access_token"},
	{Name: "access_token", Path: "access_token"},
	{Name: "data.access_token", Path: "data.access_token"},
	{Name: "data.token", Path: "data.token"},
}

// Token kinds reported by Classify.
const (
	KindJWT    = "JWT-like"
	KindOpaque = "opaque"
)

// Failure reports a login that returned a non-2xx status or no token.
type Failure struct {
	Status  int
	Reason  string
	Excerpt string
	Err     error
}

func (e *Failure) Error() string {
	msg := e.Reason
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// Kind names the failure class in recorded details.
func (e *Failure) Kind() string {
	return "AuthFailure"
}

// Credentials identify the probe user.
type Credentials struct {
	Email    string
	Password string
	FullName string
	Phone    string
	// Register creates the user before logging in. A conflict counts as success.
	Register bool
}

// RegisterResult is the outcome of a registration attempt.
type RegisterResult struct {
	Created bool
	Status  int
	UserID  string
}

// LoginResult describes an installed token.
type LoginResult struct {
	Token  string
	Shape  string
	Kind   string
	UserID string
}

// Helper performs the auth calls through a Session.
type Helper struct {
	sess   *session.Session
	logger *slog.Logger
}

func New(sess *session.Session, logger *slog.Logger) *Helper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Helper{sess: sess, logger: logger}
}

// Register creates a user. An "already exists" answer is reported as
// Created=false without error.
func (h *Helper) Register(ctx context.Context, email, password, fullName, phone string) (RegisterResult, error) {
	resp, err := h.sess.Post(ctx, RegisterPath, map[string]string{
		"email":    email,
		"password": password,
		"fullName": fullName,
		"phone":    phone,
	}, nil)
	if err != nil {
		return RegisterResult{}, err
	}

	result := RegisterResult{Status: resp.StatusCode}
	switch {
	case resp.Success2xx():
		result.Created = true
		result.UserID = firstString(resp, "user.id", "data.user.id", "data.id")
		return result, nil
	case isConflict(resp):
		h.logger.Debug("user already registered", "email", email, "status", resp.StatusCode)
		return result, nil
	default:
		return result, fmt.Errorf("register %s: unexpected status %d: %s", email, resp.StatusCode, resp.Excerpt())
	}
}

// Login posts the credentials and extracts the token without installing it.
func (h *Helper) Login(ctx context.Context, email, password string) (LoginResult, error) {
	resp, err := h.sess.Post(ctx, LoginPath, map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return LoginResult{}, err
	}
	if !resp.Success2xx() {
		return LoginResult{}, &Failure{Status: resp.StatusCode, Reason: "login rejected", Excerpt: resp.Excerpt()}
	}
	if !resp.IsJSON() {
		return LoginResult{}, &Failure{Status: resp.StatusCode, Reason: "login response is not JSON", Excerpt: resp.Excerpt()}
	}

	token, shape, ok := ExtractToken(resp.Body)
	if !ok {
		return LoginResult{}, &Failure{Status: resp.StatusCode, Reason: "no recognised token shape in login response", Excerpt: resp.Excerpt()}
	}
	return LoginResult{
		Token:  token,
		Shape:  shape,
		Kind:   Classify(token),
		UserID: firstString(resp, "user.id", "data.user.id"),
	}, nil
}

// Authenticate registers (when asked) and logs in, then installs the token on
// the session. The session is left untouched on failure.
func (h *Helper) Authenticate(ctx context.Context, creds Credentials) (LoginResult, error) {
	if creds.Register {
		reg, err := h.Register(ctx, creds.Email, creds.Password, creds.FullName, creds.Phone)
		var nf *session.NetworkFailure
		if errors.As(err, &nf) {
			return LoginResult{}, err
		}
		if err != nil {
			// The account may still exist; let login decide.
			h.logger.Warn("registration failed, trying login", "email", creds.Email, "error", err)
		} else {
			h.logger.Debug("registration done", "email", creds.Email, "created", reg.Created, "status", reg.Status)
		}
	}

	login, err := h.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return LoginResult{}, err
	}
	h.sess.SetBearerToken(login.Token)
	h.logger.Info("authenticated", "email", creds.Email, "shape", login.Shape, "kind", login.Kind, "token_length", len(login.Token))
	return login, nil
}

// ExtractToken returns the first token found among TokenShapes.
func ExtractToken(body []byte) (token, shape string, ok bool) {
	if !gjson.ValidBytes(body) {
		return "", "", false
	}
	for _, s := range TokenShapes {
		v := gjson.GetBytes(body, s.Path)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str, s.Name, true
		}
	}
	return "", "", false
}

// Classify labels a three-segment dot-separated token as JWT-like.
func Classify(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return KindOpaque
	}
	for _, p := range parts {
		if p == "" {
			return KindOpaque
		}
	}
	return KindJWT
}

func isConflict(resp *session.Response) bool {
	if resp.StatusCode == http.StatusConflict {
		return true
	}
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		return strings.Contains(strings.ToLower(resp.Text()), "already")
	}
	return false
}

func firstString(resp *session.Response, paths ...string) string {
	for _, p := range paths {
		if v := resp.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
