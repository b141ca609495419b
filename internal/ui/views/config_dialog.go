package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/models"
	"wgcAdmin/internal/wireguard"
)

// ConfigDialog shows a peer's client config as text and as a QR code.
type ConfigDialog struct {
	session *Session
	peer    models.Peer
	text    string
}

func NewConfigDialog(s *Session, peer models.Peer, server models.ServerInfo) *ConfigDialog {
	return &ConfigDialog{
		session: s,
		peer:    peer,
		text:    wireguard.GenerateConfigString(wireguard.ClientConfig(peer, server)),
	}
}

func (d *ConfigDialog) Show() {
	win := d.session.Window

	text := widget.NewLabel(d.text)
	text.TextStyle = fyne.TextStyle{Monospace: true}
	text.Selectable = true

	var qr fyne.CanvasObject
	png, err := wireguard.QRCode(d.text)
	if err != nil {
		d.session.Log.Warn().Err(err).Str("peer", d.peer.Hostname).Msg("qr code failed")
		qr = widget.NewLabel("QR code unavailable")
	} else {
		img := canvas.NewImageFromResource(fyne.NewStaticResource(d.peer.Hostname+".png", png))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(256, 256))
		qr = img
	}

	copyBtn := widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		fyne.CurrentApp().Clipboard().SetContent(d.text)
		d.session.Status.SetStatus("Config copied to clipboard", true)
	})
	saveBtn := widget.NewButtonWithIcon("Save .conf", theme.DocumentSaveIcon(), d.save)

	content := container.NewBorder(
		nil,
		container.NewHBox(copyBtn, saveBtn),
		nil,
		qr,
		container.NewScroll(text),
	)

	dlg := dialog.NewCustom(fmt.Sprintf("Config: %s", d.peer.Hostname), "Close", content, win)
	dlg.Resize(fyne.NewSize(820, 420))
	dlg.Show()
}

func (d *ConfigDialog) save() {
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			d.session.Status.SetStatus(fmt.Sprintf("Saving config: %v", err), false)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()

		if _, err := w.Write([]byte(d.text)); err != nil {
			d.session.Status.SetStatus(fmt.Sprintf("Saving config: %v", err), false)
			return
		}
		d.session.Log.Info().Str("peer", d.peer.Hostname).Str("uri", w.URI().String()).Msg("config saved")
		d.session.Status.SetStatus("Saved "+w.URI().Name(), true)
	}, d.session.Window)
	save.SetFileName(ConfigFileName(d.peer.Hostname))
	save.Show()
}

// ConfigFileName is the file name a peer's config is saved under. WireGuard
// clients name the tunnel after it, so it is kept to interface name rules.
func ConfigFileName(hostname string) string {
	name := make([]rune, 0, 15)
	for _, r := range hostname {
		if len(name) == 15 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.', r == '=', r == '+':
			name = append(name, r)
		default:
			name = append(name, '_')
		}
	}
	if len(name) == 0 {
		return "wg0.conf"
	}
	return string(name) + ".conf"
}
