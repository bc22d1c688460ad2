package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritzprobe/internal/session"
)

func newHelper(t *testing.T, handler http.HandlerFunc) (*Helper, *session.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sess := session.New(session.Options{BaseURL: server.URL, Timeout: 5 * time.Second})
	return New(sess, nil), sess
}

func TestExtractToken_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		token string
		shape string
	}{
		{"top-level token", `{"success":true,"token":"abc.def.ghi"}`, "abc.def.ghi", "token"},
		{"supabase session", `{"data":{"session":{"access_token":"opaque-token"}}}`, "opaque-token", "session"},
		{"access_token", `{"access_token":"t1"}`, "t1", "access_token"},
		{"data.access_token", `{"success":true,"data":{"access_token":"t2"}}`, "t2", "data.access_token"},
		{"data.token", `{"data":{"token":"t3"}}`, "t3", "data.token"},
		{"declared order wins", `{"access_token":"later","token":"first"}`, "first", "token"},
		{"empty token skipped", `{"token":"","access_token":"t4"}`, "t4", "access_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, shape, ok := ExtractToken([]byte(tt.body))
			require.True(t, ok)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.shape, shape)
		})
	}
}

func TestExtractToken_NoMatch(t *testing.T) {
	for _, body := range []string{
		`{"success":true,"user":{"id":"u1"}}`,
		`{"token":42}`,
		`not json`,
		``,
	} {
		_, _, ok := ExtractToken([]byte(body))
		assert.False(t, ok, body)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindJWT, Classify("abc.def.ghi"))
	assert.Equal(t, KindOpaque, Classify("opaque-token"))
	assert.Equal(t, KindOpaque, Classify("a.b"))
	assert.Equal(t, KindOpaque, Classify("a..c"))
	assert.Equal(t, KindOpaque, Classify("a.b.c.d"))
}

func TestLogin_Success(t *testing.T) {
	var got map[string]string
	h, sess := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoginPath, r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"token":"abc.def.ghi","user":{"id":"u1"}}`))
	})

	login, err := h.Login(context.Background(), "b@b.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"email": "b@b.com", "password": "pw"}, got)
	assert.Equal(t, "abc.def.ghi", login.Token)
	assert.Equal(t, KindJWT, login.Kind)
	assert.Equal(t, "u1", login.UserID)
	assert.False(t, sess.Authenticated(), "Login alone must not install the token")
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"rejected", http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`, "login rejected"},
		{"not json", http.StatusOK, `<html>maintenance</html>`, "not JSON"},
		{"no token", http.StatusOK, `{"success":true,"user":{}}`, "no recognised token shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := h.Login(context.Background(), "x@example.com", "pw")
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Contains(t, failure.Error(), tt.reason)
			assert.Equal(t, tt.status, failure.Status)
			assert.NotEmpty(t, failure.Excerpt)
			assert.Equal(t, "AuthFailure", failure.Kind())
		})
	}
}

func TestRegister_ConflictIsSuccess(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		created bool
	}{
		{http.StatusCreated, `{"success":true,"user":{"id":"u9"}}`, true},
		{http.StatusConflict, `{"success":false}`, false},
		{http.StatusBadRequest, `{"message":"User already registered"}`, false},
	}
	for _, tt := range tests {
		h, _ := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		})
		res, err := h.Register(context.Background(), "a@b.c", "pw", "Probe", "+1234567890")
		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.created, res.Created)
		assert.Equal(t, tt.status, res.Status)
	}
}

func TestRegister_UnexpectedStatus(t *testing.T) {
	h, _ := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := h.Register(context.Background(), "a@b.c", "pw", "Probe", "")
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestAuthenticate_RegisterThenLoginInstallsToken(t *testing.T) {
	var calls []string
	h, sess := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case RegisterPath:
			w.WriteHeader(http.StatusConflict)
		case LoginPath:
			w.Write([]byte(`{"data":{"session":{"access_token":"opaque-token"}}}`))
		}
	})

	login, err := h.Authenticate(context.Background(), Credentials{Email: "a@b.c", Password: "pw", Register: true})
	require.NoError(t, err)

	assert.Equal(t, []string{RegisterPath, LoginPath}, calls)
	assert.Equal(t, "session", login.Shape)
	assert.Equal(t, KindOpaque, login.Kind)
	assert.Equal(t, "opaque-token", sess.BearerToken())
}

func TestAuthenticate_FailureLeavesSessionUnauthenticated(t *testing.T) {
	h, sess := newHelper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := h.Authenticate(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	assert.False(t, sess.Authenticated())
}

func TestAuthenticate_NetworkFailureDuringRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	sess := session.New(session.Options{BaseURL: base, Timeout: time.Second})
	_, err := New(sess, nil).Authenticate(context.Background(), Credentials{Email: "a@b.c", Password: "pw", Register: true})

	var nf *session.NetworkFailure
	assert.ErrorAs(t, err, &nf)
}
