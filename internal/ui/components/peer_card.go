package components

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/format"
	"wgcAdmin/internal/models"
	customTheme "wgcAdmin/internal/ui/theme"
)

// OnlineWindow is how recent a handshake must be for a peer to count as
// online. WireGuard re-handshakes every two minutes on a live tunnel.
const OnlineWindow = 3 * time.Minute

// PeerState is the badge shown on a peer card.
type PeerState int

const (
	PeerDisabled PeerState = iota
	PeerOffline
	PeerOnline
)

func (s PeerState) String() string {
	switch s {
	case PeerOnline:
		return "Online"
	case PeerOffline:
		return "Offline"
	default:
		return "Disabled"
	}
}

// StateOf classifies peer at now.
func StateOf(peer models.Peer, now time.Time) PeerState {
	if !peer.Enabled {
		return PeerDisabled
	}
	if peer.LastSeenUnixMillis <= 0 {
		return PeerOffline
	}
	since := format.TimeSinceSeconds(peer.LastSeenUnixMillis, now)
	if since <= OnlineWindow.Seconds() {
		return PeerOnline
	}
	return PeerOffline
}

// PeerCardCallbacks holds callback functions for peer card actions
type PeerCardCallbacks struct {
	OnToggle func(peer models.Peer, enable bool)
	OnConfig func(peer models.Peer)
	OnEdit   func(peer models.Peer)
	OnDelete func(peer models.Peer)
}

// PeerCard represents a card widget for one controller peer
type PeerCard struct {
	widget.BaseWidget

	peer      models.Peer
	callbacks PeerCardCallbacks
	container *fyne.Container
}

// NewPeerCard creates a new peer card
func NewPeerCard(peer models.Peer, now time.Time, callbacks PeerCardCallbacks) *PeerCard {
	card := &PeerCard{
		peer:      peer,
		callbacks: callbacks,
	}
	card.ExtendBaseWidget(card)
	card.container = card.buildCard(now)
	return card
}

func (c *PeerCard) buildCard(now time.Time) *fyne.Container {
	variant := fyne.CurrentApp().Settings().ThemeVariant()
	state := StateOf(c.peer, now)

	title := canvas.NewText(c.peer.Hostname, theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 18

	var statusColor color.Color
	switch state {
	case PeerOnline:
		statusColor = customTheme.AppColors.Online(variant)
	case PeerOffline:
		statusColor = customTheme.AppColors.Offline(variant)
	default:
		statusColor = customTheme.AppColors.Disabled(variant)
	}
	statusDot := canvas.NewCircle(statusColor)
	statusBadge := container.NewHBox(
		container.NewGridWrap(fyne.NewSize(10, 10), statusDot),
		widget.NewLabel(state.String()),
	)

	ipLabel := widget.NewLabel(fmt.Sprintf("Tunnel: %s", c.peer.RemoteTunAddress))
	ipLabel.TextStyle = fyne.TextStyle{Monospace: true}

	seen := widget.NewLabel(fmt.Sprintf("Seen %s", format.TimeSinceString(c.peer.LastSeenUnixMillis, now)))
	if c.peer.LastIPAddress != "" {
		seen.SetText(seen.Text + " from " + c.peer.LastIPAddress)
	}
	traffic := widget.NewLabel(fmt.Sprintf("↑ %s  ↓ %s",
		format.BytesString(c.peer.TransmitBytes),
		format.BytesString(c.peer.ReceiveBytes)))

	var toggleBtn *widget.Button
	if c.peer.Enabled {
		toggleBtn = widget.NewButtonWithIcon("Disable", theme.MediaStopIcon(), func() {
			if c.callbacks.OnToggle != nil {
				c.callbacks.OnToggle(c.peer, false)
			}
		})
		toggleBtn.Importance = widget.DangerImportance
	} else {
		toggleBtn = widget.NewButtonWithIcon("Enable", theme.MediaPlayIcon(), func() {
			if c.callbacks.OnToggle != nil {
				c.callbacks.OnToggle(c.peer, true)
			}
		})
		toggleBtn.Importance = widget.SuccessImportance
	}

	configBtn := widget.NewButtonWithIcon("Config", theme.DocumentIcon(), func() {
		if c.callbacks.OnConfig != nil {
			c.callbacks.OnConfig(c.peer)
		}
	})
	if c.peer.PrivateKey == "" {
		// without the private key the controller cannot hand out a config
		configBtn.Disable()
	}

	editBtn := widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
		if c.callbacks.OnEdit != nil {
			c.callbacks.OnEdit(c.peer)
		}
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if c.callbacks.OnDelete != nil {
			c.callbacks.OnDelete(c.peer)
		}
	})
	deleteBtn.Importance = widget.DangerImportance

	leftContent := container.NewVBox(
		title,
		container.NewHBox(statusBadge, ipLabel),
		container.NewHBox(seen, traffic),
	)
	rightContent := container.NewHBox(
		layout.NewSpacer(),
		toggleBtn,
		configBtn,
		editBtn,
		deleteBtn,
	)
	cardContent := container.NewBorder(nil, nil, leftContent, rightContent)

	bgColor := customTheme.AppColors.CardBackground(variant)
	if state == PeerOnline {
		bgColor = customTheme.AppColors.CardOnlineBackground(variant)
	}
	bg := canvas.NewRectangle(bgColor)
	bg.CornerRadius = 12
	bg.StrokeColor = customTheme.AppColors.Border(variant)
	bg.StrokeWidth = 1

	return container.NewStack(bg, container.NewPadded(cardContent))
}

// CreateRenderer implements fyne.Widget
func (c *PeerCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// MinSize returns the minimum size of the card
func (c *PeerCard) MinSize() fyne.Size {
	return fyne.NewSize(800, 110)
}
