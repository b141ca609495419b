package views

import (
	"context"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/api"
	"wgcAdmin/internal/router"
)

// LoadingPage checks for a live session before anything else is shown.
type LoadingPage struct {
	session *Session
	query   url.Values
	label   *widget.Label
	retry   *widget.Button

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLoadingPage(s *Session, query url.Values) *LoadingPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &LoadingPage{
		session: s,
		query:   query,
		label:   widget.NewLabel(fmt.Sprintf("Connecting to %s...", s.Client.BaseURL())),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *LoadingPage) Build() fyne.CanvasObject {
	p.retry = widget.NewButton("Retry", p.Load)
	p.retry.Hide()

	return container.NewCenter(container.NewVBox(
		p.label,
		widget.NewProgressBarInfinite(),
		p.retry,
	))
}

func (p *LoadingPage) Load() {
	p.retry.Hide()
	go func() {
		email, err := p.check(p.ctx)
		if p.ctx.Err() != nil {
			return
		}
		fyne.DoAndWait(func() {
			p.finish(email, err)
		})
	}()
}

// check returns the logged in identity, or an error when there is none.
func (p *LoadingPage) check(ctx context.Context) (string, error) {
	if p.session.UsesAPIKey {
		// prelogin only knows about cookies; any private call proves the key
		if _, err := p.session.Client.ServerInfo(ctx); err != nil {
			return "", err
		}
		return "API key", nil
	}
	resp, err := p.session.Client.PreLogin(ctx)
	if err != nil {
		return "", err
	}
	return resp.Email, nil
}

func (p *LoadingPage) finish(email string, err error) {
	s := p.session

	if err == nil {
		s.Log.Info().Str("email", email).Msg("session restored")
		s.Store.SetLoggedIn(email)
		s.Navigate(router.RedirectTarget(p.query))
		return
	}

	if logout, target := AuthRedirect(err, s.UsesAPIKey, p.query); logout {
		s.Store.SetLoggedOut()
		s.Navigate(target)
		return
	}

	// the controller is unreachable or the key is bad; stay here
	s.Log.Warn().Err(err).Msg("session check failed")
	p.label.SetText(fmt.Sprintf("Cannot reach %s: %s", s.Client.BaseURL(), api.Message(err)))
	s.Status.SetStatus("Session check failed", false)
	p.retry.Show()
}

func (p *LoadingPage) Close() {
	p.cancel()
}
