package views

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"wgcAdmin/internal/api"
	"wgcAdmin/internal/router"
	"wgcAdmin/internal/store"
	"wgcAdmin/internal/ui/components"
)

// Page is one screen of the app.
type Page interface {
	// Build creates the page content.
	Build() fyne.CanvasObject
	// Load fetches the page's data. It is called once after Build.
	Load()
	// Close stops any background work. The page is not reused.
	Close()
}

// Session bundles what every page needs.
type Session struct {
	Window      fyne.Window
	Client      *api.Client
	Store       *store.Store
	Log         zerolog.Logger
	Status      *components.StatusBar
	Busy        *components.BusyDialog
	AutoRefresh time.Duration
	// UsesAPIKey is set when the client authenticates with a token rather
	// than a login session.
	UsesAPIKey bool
	// DefaultEmail prefills the login form.
	DefaultEmail string
	// Navigate goes to target, which may carry a query string.
	Navigate func(target string)
}

// NewPage builds the page for route.
func NewPage(s *Session, route router.Route, query url.Values) Page {
	switch route {
	case router.Loading:
		return NewLoadingPage(s, query)
	case router.Login:
		return NewLoginPage(s, query)
	case router.Users:
		return NewUsersPage(s)
	case router.APIKeys:
		return NewAPIKeysPage(s)
	case router.Settings:
		return NewSettingsPage(s)
	default:
		return NewClientsPage(s)
	}
}

// Fail reports err from action. A rejected session drops the user back to
// the login page. Call it on the UI goroutine.
func (s *Session) Fail(action string, err error) {
	if err == nil {
		return
	}
	s.Log.Warn().Err(err).Str("action", action).Msg("request failed")

	if logout, target := AuthRedirect(err, s.UsesAPIKey, nil); logout {
		s.Store.SetLoggedOut()
		s.Status.SetStatus("Session expired, please log in again", false)
		s.Navigate(target)
		return
	}
	s.Status.SetStatus(fmt.Sprintf("%s: %s", action, api.Message(err)), false)
}

// AuthRedirect decides whether err ends the session. When it does, target is
// the login page, carrying the ?redirect= from query unless that leads home.
// A rejected API key is never a logout; there is no session to drop.
func AuthRedirect(err error, usesAPIKey bool, query url.Values) (logout bool, target string) {
	if usesAPIKey || !api.IsUnauthorized(err) {
		return false, ""
	}

	target = router.Login.Path
	if next := router.RedirectTarget(query); next != router.Home.Path {
		q := url.Values{}
		q.Set("redirect", next)
		target += "?" + q.Encode()
	}
	return true, target
}

// Run calls fn off the UI goroutine with the busy dialog up, then hands its
// error to done on the UI goroutine.
func (s *Session) Run(ctx context.Context, busy string, fn func(context.Context) error, done func(error)) {
	s.Busy.Show(busy)
	go func() {
		err := fn(ctx)
		s.Busy.Hide()
		if ctx.Err() != nil {
			// the page went away
			return
		}
		fyne.DoAndWait(func() {
			done(err)
		})
	}()
}
