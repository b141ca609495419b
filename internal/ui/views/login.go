package views

import (
	"context"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/api"
	"wgcAdmin/internal/models"
	"wgcAdmin/internal/router"
	"wgcAdmin/internal/wireguard"
)

// LoginPage asks for credentials and opens a session.
type LoginPage struct {
	session  *Session
	query    url.Values
	email    *widget.Entry
	password *widget.Entry
	submit   *widget.Button

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLoginPage(s *Session, query url.Values) *LoginPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &LoginPage{
		session:  s,
		query:    query,
		email:    widget.NewEntry(),
		password: widget.NewPasswordEntry(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (p *LoginPage) Build() fyne.CanvasObject {
	title := canvas.NewText("Sign in", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 24

	p.email.SetPlaceHolder("admin@example.com")
	p.email.SetText(p.session.DefaultEmail)
	p.password.SetPlaceHolder("Password")
	p.password.OnSubmitted = func(string) { p.login() }

	p.submit = widget.NewButtonWithIcon("Login", theme.LoginIcon(), p.login)
	p.submit.Importance = widget.HighImportance

	form := container.NewVBox(
		title,
		widget.NewLabel(p.session.Client.BaseURL()),
		widget.NewLabel("Email"),
		p.email,
		widget.NewLabel("Password"),
		p.password,
		container.NewHBox(layout.NewSpacer(), p.submit),
	)

	return container.NewCenter(container.NewGridWrap(fyne.NewSize(360, form.MinSize().Height), form))
}

func (p *LoginPage) Load() {
	if p.session.DefaultEmail != "" {
		p.session.Window.Canvas().Focus(p.password)
		return
	}
	p.session.Window.Canvas().Focus(p.email)
}

func (p *LoginPage) Close() {
	p.cancel()
}

func (p *LoginPage) credentials() (models.LoginBody, error) {
	body := models.LoginBody{
		Email:    strings.TrimSpace(p.email.Text),
		Password: p.password.Text,
	}
	if !wireguard.ValidateEmail(body.Email) {
		return body, wireguard.ValidationError{Field: "Email", Message: "invalid address"}
	}
	if body.Password == "" {
		return body, wireguard.ValidationError{Field: "Password", Message: "required"}
	}
	return body, nil
}

func (p *LoginPage) login() {
	s := p.session
	body, err := p.credentials()
	if err != nil {
		s.Status.SetStatus(err.Error(), false)
		return
	}

	p.submit.Disable()
	var resp models.LoginResponse
	s.Run(p.ctx, "Logging in...", func(ctx context.Context) error {
		var err error
		resp, err = s.Client.Login(ctx, body)
		return err
	}, func(err error) {
		p.submit.Enable()
		p.password.SetText("")

		if err != nil {
			// a 401 here means bad credentials, not an expired session
			s.Log.Info().Err(err).Str("email", body.Email).Msg("login rejected")
			s.Status.SetStatus("Login failed: "+api.Message(err), false)
			return
		}

		s.Log.Info().Str("email", resp.Email).Msg("logged in")
		s.Store.SetLoggedIn(resp.Email)
		s.Status.SetStatus("Logged in as "+resp.Email, true)
		s.Navigate(router.RedirectTarget(p.query))
	})
}
