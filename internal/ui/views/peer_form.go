package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/format"
	"wgcAdmin/internal/models"
	"wgcAdmin/internal/wireguard"
)

// maxImportSize bounds an imported .conf file.
const maxImportSize = 64 << 10

// peerFields is the text of the peer form.
type peerFields struct {
	Hostname        string
	Enabled         bool
	TunnelAddress  string
	RemoteSubnets   string
	AllowedSubnets  string
	KeepAlive       string
	PublicKey       string
	PrivateKey      string
	PreSharedKey    string
}

func fieldsFromPeer(peer models.Peer) peerFields {
	return peerFields{
		Hostname:       peer.Hostname,
		Enabled:        peer.Enabled,
		TunnelAddress:  peer.RemoteTunAddress,
		RemoteSubnets:  format.ArrayToCommas(peer.RemoteSubnets),
		AllowedSubnets: format.ArrayToCommas(peer.AllowedSubnets),
		KeepAlive:      strconv.Itoa(peer.KeepAliveSeconds),
		PublicKey:      peer.PublicKey,
		PrivateKey:     peer.PrivateKey,
		PreSharedKey:   peer.PreSharedKey,
	}
}

// apply copies the form onto base and validates the result. Fields the form
// does not show (uuid, counters, attributes) are kept from base.
func (f peerFields) apply(base models.Peer) (models.Peer, []error) {
	peer := base
	peer.Hostname = strings.TrimSpace(f.Hostname)
	peer.Enabled = f.Enabled
	peer.RemoteTunAddress = strings.TrimSpace(f.TunnelAddress)
	peer.RemoteSubnets = format.CommasToArray(f.RemoteSubnets)
	peer.AllowedSubnets = format.CommasToArray(f.AllowedSubnets)
	peer.PublicKey = strings.TrimSpace(f.PublicKey)
	peer.PrivateKey = strings.TrimSpace(f.PrivateKey)
	peer.PreSharedKey = strings.TrimSpace(f.PreSharedKey)
	if peer.Attributes == nil {
		peer.Attributes = []string{}
	}

	keepAlive := strings.TrimSpace(f.KeepAlive)
	if keepAlive == "" {
		peer.KeepAliveSeconds = 0
	} else {
		n, err := strconv.Atoi(keepAlive)
		if err != nil {
			return peer, []error{wireguard.ValidationError{Field: "KeepAliveSeconds", Message: "must be a number"}}
		}
		peer.KeepAliveSeconds = n
	}

	return peer, wireguard.ValidatePeer(peer)
}

// PeerForm creates or edits a controller peer in its own window.
type PeerForm struct {
	session *Session
	peer    models.Peer
	isNew   bool
	hint    string
	onSaved func()

	hostnameEntry       *widget.Entry
	enabledCheck        *widget.Check
	addressEntry        *widget.Entry
	remoteSubnetsEntry  *widget.Entry
	allowedSubnetsEntry *widget.Entry
	keepAliveEntry      *widget.Entry
	publicKeyEntry      *widget.Entry
	privateKeyEntry     *widget.Entry
	presharedKeyEntry   *widget.Entry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPeerForm prepares a form for peer. hint describes the tunnel network
// addresses come from and may be empty.
func NewPeerForm(s *Session, peer models.Peer, isNew bool, hint string, onSaved func()) *PeerForm {
	ctx, cancel := context.WithCancel(context.Background())
	f := &PeerForm{
		session:             s,
		peer:                peer,
		isNew:               isNew,
		hint:                hint,
		onSaved:             onSaved,
		hostnameEntry:       widget.NewEntry(),
		enabledCheck:        widget.NewCheck("Enabled", nil),
		addressEntry:        widget.NewEntry(),
		remoteSubnetsEntry:  widget.NewEntry(),
		allowedSubnetsEntry: widget.NewEntry(),
		keepAliveEntry:      widget.NewEntry(),
		publicKeyEntry:      widget.NewEntry(),
		privateKeyEntry:     widget.NewPasswordEntry(),
		presharedKeyEntry:   widget.NewPasswordEntry(),
		ctx:                 ctx,
		cancel:              cancel,
	}

	f.hostnameEntry.SetPlaceHolder("e.g., laptop")
	f.addressEntry.SetPlaceHolder("e.g., 10.0.0.2")
	f.remoteSubnetsEntry.SetPlaceHolder("subnets behind this client, e.g., 192.168.1.0/24 (optional)")
	f.allowedSubnetsEntry.SetPlaceHolder("e.g., 10.0.0.0/24, 192.168.10.0/24")
	f.keepAliveEntry.SetPlaceHolder("e.g., 25 (seconds, 0 disables)")
	f.publicKeyEntry.SetPlaceHolder("Base64 encoded public key")
	f.privateKeyEntry.SetPlaceHolder("Base64 encoded private key (optional)")
	f.presharedKeyEntry.SetPlaceHolder("Base64 encoded key (optional)")

	f.setFields(fieldsFromPeer(peer))

	f.privateKeyEntry.OnChanged = func(string) {
		f.updatePublicKey()
	}

	return f
}

func (f *PeerForm) setFields(v peerFields) {
	f.hostnameEntry.SetText(v.Hostname)
	f.enabledCheck.SetChecked(v.Enabled)
	f.addressEntry.SetText(v.TunnelAddress)
	f.remoteSubnetsEntry.SetText(v.RemoteSubnets)
	f.allowedSubnetsEntry.SetText(v.AllowedSubnets)
	f.keepAliveEntry.SetText(v.KeepAlive)
	f.publicKeyEntry.SetText(v.PublicKey)
	f.privateKeyEntry.SetText(v.PrivateKey)
	f.presharedKeyEntry.SetText(v.PreSharedKey)
}

func (f *PeerForm) fields() peerFields {
	return peerFields{
		Hostname:       f.hostnameEntry.Text,
		Enabled:        f.enabledCheck.Checked,
		TunnelAddress:  f.addressEntry.Text,
		RemoteSubnets:  f.remoteSubnetsEntry.Text,
		AllowedSubnets: f.allowedSubnetsEntry.Text,
		KeepAlive:      f.keepAliveEntry.Text,
		PublicKey:      f.publicKeyEntry.Text,
		PrivateKey:     f.privateKeyEntry.Text,
		PreSharedKey:   f.presharedKeyEntry.Text,
	}
}

// updatePublicKey keeps the public key in step with a typed private key.
func (f *PeerForm) updatePublicKey() {
	if f.privateKeyEntry.Text == "" {
		return
	}
	pubKey, err := wireguard.DerivePublicKey(f.privateKeyEntry.Text)
	if err != nil {
		return
	}
	f.publicKeyEntry.SetText(pubKey)
}

// Show opens the form window.
func (f *PeerForm) Show() {
	title := "Add Client"
	if !f.isNew {
		title = "Edit Client: " + f.peer.Hostname
	}

	win := fyne.CurrentApp().NewWindow(title)
	win.Resize(fyne.NewSize(600, 720))
	win.SetOnClosed(f.cancel)

	generateKeyBtn := widget.NewButtonWithIcon("Generate", theme.ViewRefreshIcon(), func() {
		priv, pub, err := wireguard.GenerateKeyPair()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		f.privateKeyEntry.SetText(priv)
		f.publicKeyEntry.SetText(pub)
	})
	generatePSKBtn := widget.NewButtonWithIcon("Generate", theme.ViewRefreshIcon(), func() {
		psk, err := wireguard.GeneratePresharedKey()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		f.presharedKeyEntry.SetText(psk)
	})

	addressLabel := "Tunnel Address *"
	if f.hint != "" {
		addressLabel = fmt.Sprintf("Tunnel Address * (from %s)", f.hint)
	}

	general := container.NewVBox(
		widget.NewLabel("Hostname *"),
		f.hostnameEntry,
		f.enabledCheck,
		widget.NewLabel(addressLabel),
		f.addressEntry,
		widget.NewLabel("Persistent Keepalive"),
		f.keepAliveEntry,
	)

	routing := container.NewVBox(
		widget.NewLabel("Allowed Subnets"),
		f.allowedSubnetsEntry,
		widget.NewLabel("Remote Subnets"),
		f.remoteSubnetsEntry,
	)

	keys := container.NewVBox(
		widget.NewLabel("Private Key"),
		container.NewBorder(nil, nil, nil, generateKeyBtn, f.privateKeyEntry),
		widget.NewLabel("Public Key *"),
		f.publicKeyEntry,
		widget.NewLabel("Preshared Key"),
		container.NewBorder(nil, nil, nil, generatePSKBtn, f.presharedKeyEntry),
	)

	importBtn := widget.NewButtonWithIcon("Import .conf", theme.FolderOpenIcon(), func() {
		f.importConfig(win)
	})

	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		f.save(win)
	})
	saveBtn.Importance = widget.HighImportance

	cancelBtn := widget.NewButton("Cancel", func() {
		win.Close()
	})

	buttons := container.NewHBox(importBtn, layout.NewSpacer(), cancelBtn, saveBtn)

	content := container.NewBorder(
		nil,
		buttons,
		nil, nil,
		container.NewVScroll(container.NewVBox(
			widget.NewCard("Client", "", general),
			widget.NewCard("Routing", "", routing),
			widget.NewCard("Keys", "", keys),
		)),
	)

	win.SetContent(container.NewPadded(content))
	win.Show()
}

func (f *PeerForm) save(win fyne.Window) {
	peer, errs := f.fields().apply(f.peer)
	if len(errs) > 0 {
		dialog.ShowError(errors.Join(errs...), win)
		return
	}

	s := f.session
	s.Run(f.ctx, fmt.Sprintf("Saving %s...", peer.Hostname), func(ctx context.Context) error {
		if f.isNew {
			return s.Client.PutPeer(ctx, peer)
		}
		return s.Client.PatchPeer(ctx, peer)
	}, func(err error) {
		if err != nil {
			s.Fail("Saving "+peer.Hostname, err)
			if !s.Store.Snapshot().LoggedIn {
				win.Close()
			}
			return
		}
		s.Log.Info().Str("peer", peer.UUID).Str("hostname", peer.Hostname).Bool("new", f.isNew).Msg("peer saved")
		s.Status.SetStatus(fmt.Sprintf("Saved %s", peer.Hostname), true)
		win.Close()
		if f.onSaved != nil {
			f.onSaved()
		}
	})
}

// importConfig fills the form from an existing WireGuard client config.
func (f *PeerForm) importConfig(win fyne.Window) {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()

		data, err := io.ReadAll(io.LimitReader(r, maxImportSize))
		if err != nil {
			dialog.ShowError(fmt.Errorf("reading %s: %w", r.URI().Name(), err), win)
			return
		}

		name := r.URI().Name()
		fields, fullTunnel, err := importFields(f.fields(), f.peer, string(data))
		if err != nil {
			dialog.ShowError(fmt.Errorf("importing %s: %w", name, err), win)
			return
		}

		apply := func() {
			f.setFields(fields)
			f.session.Log.Info().Str("file", name).Bool("full_tunnel", fullTunnel).Msg("config imported")
		}
		if !fullTunnel {
			apply()
			return
		}
		msg := fmt.Sprintf("%s sends all traffic through the tunnel.\n\nImport it anyway and replace the allowed subnets?", name)
		dialog.ShowConfirm("Full tunnel config", msg, func(ok bool) {
			if ok {
				apply()
			}
		}, win)
	}, win)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".conf"}))
	open.Show()
}

// importFields merges a parsed .conf into the current form values.
// fullTunnel reports a config that routes everything (0.0.0.0/0 or ::/0).
func importFields(current peerFields, base models.Peer, content string) (out peerFields, fullTunnel bool, err error) {
	config, err := wireguard.ParseConfigString(content)
	if err != nil {
		return current, false, err
	}

	peer, _ := current.apply(base)
	if err := wireguard.PeerFromConfig(config, &peer); err != nil {
		return current, false, err
	}

	out = fieldsFromPeer(peer)
	// a hostname is not part of a .conf
	out.Hostname = current.Hostname
	return out, config.HasDefaultRoute(), nil
}
