package router

import (
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgcAdmin/internal/store"
)

func TestGuard(t *testing.T) {
	fresh := store.State{}
	loggedOut := store.State{Loaded: true}
	loggedIn := store.State{Loaded: true, LoggedIn: true, Email: "a@example.com"}

	tests := []struct {
		name     string
		path     string
		state    store.State
		ok       bool
		redirect string
	}{
		{"loading always allowed", "/", fresh, true, ""},
		{"loading allowed when logged in", "/", loggedIn, true, ""},
		{"login before session check", "/login", fresh, false, "/?redirect=%2Flogin"},
		{"login after failed check", "/login", loggedOut, true, ""},
		{"login when logged in", "/login", loggedIn, false, "/clients"},
		{"private page logged out", "/users", loggedOut, false, "/?redirect=%2Fusers"},
		{"private page before check", "/apikeys", fresh, false, "/?redirect=%2Fapikeys"},
		{"private page logged in", "/settings", loggedIn, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirect, ok := Guard(tt.path, tt.state)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.redirect, redirect)
		})
	}
}

func TestRedirectTarget(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "/clients"},
		{"redirect=%2Fusers", "/users"},
		{"redirect=%2Fapikeys", "/apikeys"},
		{"redirect=%2Flogin", "/clients"},
		{"redirect=%2F", "/clients"},
		{"redirect=https%3A%2F%2Fevil.example", "/clients"},
		{"redirect=%2Fnope", "/clients"},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, RedirectTarget(q), tt.query)
	}
}

type visit struct {
	route Route
	query url.Values
}

func newTestRouter(st *store.Store) (*Router, *[]visit) {
	var visits []visit
	r := New(st, zerolog.Nop(), func(route Route, q url.Values) {
		visits = append(visits, visit{route, q})
	})
	return r, &visits
}

func TestNavigateLoggedOutGoesThroughLoading(t *testing.T) {
	st := store.New()
	r, visits := newTestRouter(st)

	got := r.Navigate("/users")
	assert.Equal(t, Loading, got)
	require.Len(t, *visits, 1)
	assert.Equal(t, "/users", (*visits)[0].query.Get("redirect"))
	assert.Equal(t, Loading, r.Current())

	// the loading page finishes its check and resumes the original target
	st.SetLoggedIn("a@example.com")
	got = r.Navigate(RedirectTarget((*visits)[0].query))
	assert.Equal(t, Users, got)
}

func TestNavigateLoginFlow(t *testing.T) {
	st := store.New()
	r, _ := newTestRouter(st)

	st.SetLoaded()
	assert.Equal(t, Login, r.Navigate("/login"))

	st.SetLoggedIn("a@example.com")
	assert.Equal(t, Clients, r.Navigate("/login"))

	st.SetLoggedOut()
	assert.Equal(t, Loading, r.Navigate("/clients"))
}

func TestNavigateUnknownPath(t *testing.T) {
	st := store.New()
	st.SetLoggedIn("a@example.com")
	r, visits := newTestRouter(st)

	assert.Equal(t, Clients, r.Navigate("/does-not-exist"))
	assert.Equal(t, Settings, r.Navigate("/settings?tab=1"))
	assert.Equal(t, "1", (*visits)[1].query.Get("tab"))
}

func TestNavigateFromCallback(t *testing.T) {
	st := store.New()
	st.SetLoaded()

	var r *Router
	var shown []Route
	r = New(st, zerolog.Nop(), func(route Route, q url.Values) {
		shown = append(shown, route)
		if route == Loading {
			// a page may navigate again straight away
			r.Navigate("/login")
		}
	})

	r.Navigate("/")
	assert.Equal(t, []Route{Loading, Login}, shown)
	assert.Equal(t, Login, r.Current())
}

func TestLookup(t *testing.T) {
	for _, route := range Routes {
		got, ok := Lookup(route.Path)
		assert.True(t, ok)
		assert.Equal(t, route, got)
	}
	_, ok := Lookup("/clients/")
	assert.False(t, ok)
}
