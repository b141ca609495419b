package views

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/sync/errgroup"

	"wgcAdmin/internal/models"
)

// SettingsPage shows how the controller is set up.
type SettingsPage struct {
	session *Session
	form    *widget.Form

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSettingsPage(s *Session) *SettingsPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &SettingsPage{
		session: s,
		form:    widget.NewForm(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *SettingsPage) Build() fyne.CanvasObject {
	title := canvas.NewText("Settings", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 24

	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.Load)
	header := container.NewBorder(nil, nil, title, refreshBtn)

	return container.NewBorder(header, nil, nil, nil,
		container.NewVScroll(widget.NewCard("Server", "", p.form)))
}

func (p *SettingsPage) Load() {
	var info models.ServerInfo
	var health models.Health

	p.session.Run(p.ctx, "Loading server info...", func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			info, err = p.session.Client.ServerInfo(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			health, err = p.session.Client.Health(ctx)
			if err != nil {
				// an unhealthy controller still answers the other calls
				health = models.Health{Status: "unhealthy"}
				p.session.Log.Warn().Err(err).Msg("health check failed")
			}
			return nil
		})
		return g.Wait()
	}, func(err error) {
		if err != nil {
			p.session.Fail("Loading server info", err)
			return
		}
		p.show(info, health)
	})
}

func (p *SettingsPage) show(info models.ServerInfo, health models.Health) {
	p.form.Items = nil
	for _, row := range ServerInfoRows(p.session.Client.BaseURL(), info, health) {
		value := widget.NewLabel(row[1])
		value.TextStyle = fyne.TextStyle{Monospace: true}
		value.Selectable = true
		p.form.Append(row[0], value)
	}
	p.form.Refresh()
}

// ServerInfoRows lists the label and value pairs shown on the page.
func ServerInfoRows(baseURL string, info models.ServerInfo, health models.Health) [][2]string {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return [][2]string{
		{"Controller", baseURL},
		{"Health", orDash(health.Status)},
		{"Public Key", orDash(info.PublicKey)},
		{"Public Endpoint", orDash(info.PublicEndpoint)},
		{"Internal Address", orDash(info.ServerInternalIP)},
		{"Netmask", orDash(info.Netmask)},
		{"Name Servers", orDash(strings.Join(info.NameServers, ", "))},
	}
}

func (p *SettingsPage) Close() {
	p.cancel()
}
