package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgcAdmin/internal/models"
)

// fakeController is a small in-memory stand-in for the controller API.
type fakeController struct {
	mu       sync.Mutex
	requests []string
	peers    map[string]models.Peer
	accounts map[string]models.UserAccount
	apiKey   string
	session  string
	lastAuth string
	lastPath string
}

func newFakeController(t *testing.T) (*fakeController, *httptest.Server) {
	t.Helper()
	f := &fakeController{
		peers:    map[string]models.Peer{},
		accounts: map[string]models.UserAccount{},
		apiKey:   "test-token",
		session:  "c2Vzc2lvbg==",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var body models.LoginBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, 400, map[string]string{"error": err.Error()})
			return
		}
		if body.Password != "hunter2" {
			writeJSON(w, 401, map[string]string{"error": "invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionId", Value: f.session, HttpOnly: true})
		writeJSON(w, 200, models.LoginResponse{Status: "ok", Email: body.Email})
	})
	mux.HandleFunc("POST /api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionId", Value: "", MaxAge: -1})
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/v1/prelogin", f.private(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.LoginResponse{Status: "ok", Email: "admin@example.com"})
	}))
	mux.HandleFunc("GET /api/v1/peers", f.private(func(w http.ResponseWriter, r *http.Request) {
		list := []models.Peer{}
		for _, p := range f.peers {
			list = append(list, p)
		}
		writeJSON(w, 200, list)
	}))
	mux.HandleFunc("GET /api/v1/peers/init", f.private(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.PeerInit{UUID: "new-uuid", RemoteTunAddress: "10.0.0.5", ServerCIDR: "10.0.0.0/24"})
	}))
	mux.HandleFunc("GET /api/v1/peers/{uuid}", f.private(func(w http.ResponseWriter, r *http.Request) {
		p, ok := f.peers[r.PathValue("uuid")]
		if !ok {
			writeJSON(w, 404, map[string]string{"error": "peer not found"})
			return
		}
		writeJSON(w, 200, p)
	}))
	mux.HandleFunc("PUT /api/v1/peers/{uuid}", f.private(func(w http.ResponseWriter, r *http.Request) {
		var p models.Peer
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, 400, map[string]string{"error": err.Error()})
			return
		}
		f.peers[r.PathValue("uuid")] = p
		writeJSON(w, 200, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc("DELETE /api/v1/peers/{uuid}", f.private(func(w http.ResponseWriter, r *http.Request) {
		delete(f.peers, r.PathValue("uuid"))
		writeJSON(w, 200, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc("PUT /api/v1/accounts/{email}", f.private(func(w http.ResponseWriter, r *http.Request) {
		var a models.UserAccountWithPass
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeJSON(w, 400, map[string]string{"error": err.Error()})
			return
		}
		if a.Password == "" {
			writeJSON(w, 400, map[string]string{"error": "password is required"})
			return
		}
		f.accounts[r.PathValue("email")] = models.UserAccount{Email: r.PathValue("email"), Role: a.Role}
		writeJSON(w, 200, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc("PATCH /api/v1/accounts/{email}/password", f.private(func(w http.ResponseWriter, r *http.Request) {
		var body models.Password
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password == "" {
			writeJSON(w, 400, map[string]string{"error": "password is required"})
			return
		}
		writeJSON(w, 200, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc("DELETE /api/v1/accounts/{email}", f.private(func(w http.ResponseWriter, r *http.Request) {
		delete(f.accounts, r.PathValue("email"))
		writeJSON(w, 200, map[string]string{"status": "ok"})
	}))
	mux.HandleFunc("GET /api/v1/apikeys/init", f.private(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.APIKeyInit{UUID: "key-uuid", Token: "one-time"})
	}))
	mux.HandleFunc("GET /api/v1/serverinfo", f.private(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.ServerInfo{PublicKey: "pub", PublicEndpoint: "vpn.example.com:51820", NameServers: []string{"1.1.1.1"}})
	}))
	mux.HandleFunc("GET /api/v1/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests = append(f.requests, r.Method+" "+r.URL.EscapedPath())
		f.lastAuth = r.Header.Get("Authorization")
		f.lastPath = r.URL.EscapedPath()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

// private rejects requests without a session cookie or api key.
func (f *fakeController) private(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == f.apiKey {
			next(w, r)
			return
		}
		ck, err := r.Cookie("sessionId")
		if err != nil || ck.Value != f.session {
			writeJSON(w, 401, map[string]string{"error": "not logged in"})
			return
		}
		next(w, r)
	}
}

func (f *fakeController) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	c, err := New(url, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "localhost:8081", "ftp://example.com", "http://"} {
		_, err := New(u)
		assert.Error(t, err, u)
	}

	c, err := New("https://vpn.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://vpn.example.com", c.BaseURL())
}

func TestSessionLifecycle(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.PreLogin(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, c.hasSession())

	_, err = c.Login(ctx, models.LoginBody{Email: "admin@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "invalid credentials", Message(err))

	resp, err := c.Login(ctx, models.LoginBody{Email: "admin@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.True(t, c.hasSession())

	// the cookie is replayed on later calls
	pre, err := c.PreLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", pre.Status)

	peers, err := c.Peers(ctx)
	require.NoError(t, err)
	assert.Empty(t, peers)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.hasSession())

	_, err = c.Peers(ctx)
	assert.True(t, IsUnauthorized(err))
}

func TestLogoutClearsSessionWhenServerFails(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, models.LoginBody{Email: "admin@example.com", Password: "hunter2"})
	require.NoError(t, err)

	srv.Close()
	err = c.Logout(ctx)
	assert.Error(t, err)
	assert.False(t, c.hasSession())
}

func TestAPIKeyHeader(t *testing.T) {
	f, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithAPIKey("test-token"))

	info, err := c.ServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vpn.example.com:51820", info.PublicEndpoint)
	assert.Equal(t, []string{"1.1.1.1"}, info.NameServers)
	assert.Equal(t, "test-token", f.lastAuth)
}

func TestPeerRoundTrip(t *testing.T) {
	f, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithAPIKey("test-token"))
	ctx := context.Background()

	init, err := c.PeerInit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-uuid", init.UUID)
	assert.Equal(t, "10.0.0.0/24", init.ServerCIDR)
	assert.Equal(t, "/api/v1/peers/init", f.lastPath)

	peer := init.NewPeer("laptop")
	peer.AllowedSubnets = []string{"10.0.0.0/24"}
	require.NoError(t, c.PutPeer(ctx, peer))

	got, err := c.Peer(ctx, "new-uuid")
	require.NoError(t, err)
	assert.Equal(t, peer, got)

	require.NoError(t, c.DeletePeer(ctx, "new-uuid"))
	_, err = c.Peer(ctx, "new-uuid")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "peer not found", Message(err))
}

func TestErrorCarriesBody(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithAPIKey("test-token"))

	err := c.PutAccount(context.Background(), models.UserAccountWithPass{Email: "a@example.com", Role: models.RoleUser})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.JSONEq(t, `{"error":"password is required"}`, apiErr.Body)
	assert.Equal(t, "password is required", apiErr.Message())
	assert.Contains(t, err.Error(), `{"error":"password is required"}`)
}

func TestErrorWithoutBody(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL)

	err := c.do(context.Background(), http.MethodGet, c.endpoint("broken"), nil, nil)
	require.Error(t, err)
	assert.Equal(t, "500 Internal Server Error", err.Error())
	assert.Equal(t, "500 Internal Server Error", Message(err))
}

func TestErrorKeepsRawBody(t *testing.T) {
	err := &Error{StatusCode: http.StatusBadRequest, Body: "  bad hostname\n"}
	assert.Equal(t, "bad hostname", err.Error())
	assert.Equal(t, "  bad hostname\n", err.Body)

	err = &Error{StatusCode: http.StatusConflict, Body: "{\"error\":\"exists\"}\n"}
	assert.Equal(t, "exists", err.Message())
	assert.Equal(t, "{\"error\":\"exists\"}", err.Error())
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	f, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithAPIKey("test-token"))
	ctx := context.Background()

	require.NoError(t, c.PutAccount(ctx, models.UserAccountWithPass{Email: "ops/team@example.com", Role: models.RoleAdmin, Password: "pw"}))
	assert.Equal(t, "/api/v1/accounts/ops%2Fteam@example.com", f.lastPath)
	assert.Contains(t, f.accounts, "ops/team@example.com")

	require.NoError(t, c.PatchAccountPassword(ctx, "ops/team@example.com", "new"))
	assert.Equal(t, "/api/v1/accounts/ops%2Fteam@example.com/password", f.lastPath)

	require.NoError(t, c.DeleteAccount(ctx, "ops/team@example.com"))
	assert.NotContains(t, f.accounts, "ops/team@example.com")
}

func TestMissingIDSkipsRequest(t *testing.T) {
	f, srv := newFakeController(t)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Peer(ctx, "")
	errs := []error{
		err,
		c.PutPeer(ctx, models.Peer{}),
		c.PatchPeer(ctx, models.Peer{}),
		c.DeletePeer(ctx, ""),
		c.PutAccount(ctx, models.UserAccountWithPass{}),
		c.PatchAccount(ctx, models.UserAccount{}),
		c.PatchAccountPassword(ctx, "", "pw"),
		c.DeleteAccount(ctx, ""),
		c.ResetFailedAttempts(ctx, ""),
		c.PutAPIKey(ctx, models.APIKeyWithToken{}),
		c.PatchAPIKey(ctx, models.APIKey{}),
		c.DeleteAPIKey(ctx, ""),
	}
	for i, err := range errs {
		assert.ErrorIs(t, err, ErrMissingID, "call %d", i)
	}
	assert.Zero(t, f.requestCount())
}

func TestAPIKeyInit(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithAPIKey("test-token"))

	init, err := c.APIKeyInit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.APIKeyInit{UUID: "key-uuid", Token: "one-time"}, init)
}

func TestHealth(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Accounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestRateLimit(t *testing.T) {
	_, srv := newFakeController(t)
	c := newTestClient(t, srv.URL, WithRateLimit(0.5, 1))

	_, err := c.Health(context.Background())
	require.NoError(t, err)

	// the next token is two seconds away
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = c.Health(ctx)
	assert.Error(t, err)
}

func TestWithHTTPClientKeepsCallerClient(t *testing.T) {
	_, srv := newFakeController(t)
	hc := &http.Client{}
	c := newTestClient(t, srv.URL, WithHTTPClient(hc), WithTimeout(time.Second))

	assert.Nil(t, hc.Jar)
	assert.Zero(t, hc.Timeout)
	assert.Equal(t, time.Second, c.http.Timeout)

	_, err := c.Health(context.Background())
	assert.NoError(t, err)
}
