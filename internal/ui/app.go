package ui

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"github.com/rs/zerolog"

	"wgcAdmin/internal/api"
	"wgcAdmin/internal/config"
	"wgcAdmin/internal/router"
	"wgcAdmin/internal/store"
	"wgcAdmin/internal/ui/components"
	"wgcAdmin/internal/ui/views"
)

// logoutTimeout bounds the logout call made when the user leaves.
const logoutTimeout = 5 * time.Second

// App represents the wg-controller admin application
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	log     zerolog.Logger

	session *views.Session
	router  *router.Router
	nav     *components.NavBar
	content *fyne.Container
	page    views.Page
}

// NewApp creates a new application instance talking to the controller
// described by cfg.
func NewApp(cfg config.Config, log zerolog.Logger) (*App, error) {
	opts := []api.Option{
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(log.With().Str("component", "api").Logger()),
	}
	if cfg.APIKey != "" {
		opts = append(opts, api.WithAPIKey(cfg.APIKey))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.RateLimit, int(cfg.RateLimit)+1))
	}
	client, err := api.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	a := app.NewWithID("com.wg-controller.admin")
	w := a.NewWindow("wg-controller")
	w.Resize(fyne.NewSize(1000, 800))

	st := store.New()
	ui := &App{
		fyneApp: a,
		window:  w,
		log:     log,
		content: container.NewStack(),
	}

	ui.session = &views.Session{
		Window:       w,
		Client:       client,
		Store:        st,
		Log:          log.With().Str("component", "ui").Logger(),
		Status:       components.NewStatusBar(client.BaseURL()),
		Busy:         components.NewBusyDialog(w),
		AutoRefresh:  cfg.AutoRefresh,
		UsesAPIKey:   cfg.APIKey != "",
		DefaultEmail: cfg.Email,
		Navigate: func(target string) {
			fyne.Do(func() { ui.router.Navigate(target) })
		},
	}
	ui.router = router.New(st, log.With().Str("component", "router").Logger(), ui.show)
	logout := ui.logout
	if ui.session.UsesAPIKey {
		// there is no session to end
		logout = nil
	}
	ui.nav = components.NewNavBar(ui.session.Navigate, logout)

	st.Subscribe(func(s store.State) {
		fyne.Do(func() { ui.onStateChange(s) })
	})

	return ui, nil
}

// Run starts the application
func (a *App) Run() {
	body := container.NewBorder(a.nav, a.session.Status, nil, nil, a.content)
	a.nav.Hide()
	a.window.SetContent(container.NewPadded(body))

	a.window.SetOnClosed(func() {
		if a.page != nil {
			a.page.Close()
		}
	})

	a.router.Navigate(router.Loading.Path)
	a.window.ShowAndRun()
}

// show swaps in the page for route. It runs on the UI goroutine.
func (a *App) show(route router.Route, query url.Values) {
	if a.page != nil {
		a.page.Close()
	}

	a.log.Debug().Str("route", route.Path).Msg("show page")
	a.page = views.NewPage(a.session, route, query)
	a.content.Objects = []fyne.CanvasObject{a.page.Build()}
	a.content.Refresh()
	a.nav.SetCurrent(route)
	a.window.SetTitle("wg-controller - " + route.Name)

	a.page.Load()
}

func (a *App) onStateChange(s store.State) {
	if s.LoggedIn {
		a.nav.SetUser(s.Email)
		a.nav.Show()
		return
	}
	a.nav.Hide()
	a.nav.SetUser("")
}

func (a *App) logout() {
	s := a.session
	s.Run(context.Background(), "Logging out...", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
		defer cancel()
		return s.Client.Logout(ctx)
	}, func(err error) {
		if err != nil {
			// the local session is gone either way
			a.log.Warn().Err(err).Msg("logout failed")
		}
		s.Store.SetLoggedOut()
		s.Status.SetInfo("Logged out")
		a.router.Navigate(router.Login.Path)
	})
}
