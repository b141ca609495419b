package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// StatusBar is the one line of feedback under every page. It also shows
// which controller the app is talking to.
type StatusBar struct {
	widget.BaseWidget

	container *fyne.Container
	icon      *widget.Icon
	message   *widget.Label
	server    *widget.Label
}

// NewStatusBar creates a new status bar
func NewStatusBar(server string) *StatusBar {
	s := &StatusBar{
		icon:    widget.NewIcon(theme.InfoIcon()),
		message: widget.NewLabel("Ready"),
		server:  widget.NewLabel(server),
	}
	s.server.TextStyle = fyne.TextStyle{Italic: true}
	s.message.Truncation = fyne.TextTruncateEllipsis

	s.container = container.NewBorder(nil, nil, s.icon, s.server, s.message)
	s.ExtendBaseWidget(s)
	return s
}

// SetStatus sets a status message with success/error styling
func (s *StatusBar) SetStatus(msg string, success bool) {
	if success {
		s.icon.SetResource(theme.ConfirmIcon())
	} else {
		s.icon.SetResource(theme.ErrorIcon())
	}
	s.message.SetText(stamp(msg))
	s.Refresh()
}

// SetInfo sets an informational message
func (s *StatusBar) SetInfo(msg string) {
	s.icon.SetResource(theme.InfoIcon())
	s.message.SetText(stamp(msg))
	s.Refresh()
}

// Text returns the message currently shown.
func (s *StatusBar) Text() string {
	return s.message.Text
}

// CreateRenderer implements fyne.Widget
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.container)
}

func stamp(msg string) string {
	return fmt.Sprintf("[%s] %s", time.Now().Format(time.Kitchen), msg)
}
