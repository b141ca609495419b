package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/router"
)

// navRoutes are the pages reachable from the bar.
var navRoutes = []router.Route{router.Clients, router.Users, router.APIKeys, router.Settings}

// NavBar is the header shown on authenticated pages.
type NavBar struct {
	widget.BaseWidget

	container *fyne.Container
	buttons   map[string]*widget.Button
	user      *widget.Label
}

// NewNavBar creates the bar. onSelect receives the path of a tapped page.
// The logout button is hidden when onLogout is nil.
func NewNavBar(onSelect func(path string), onLogout func()) *NavBar {
	n := &NavBar{
		buttons: make(map[string]*widget.Button, len(navRoutes)),
		user:    widget.NewLabel(""),
	}

	title := canvas.NewText("wg-controller", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 20

	left := container.NewHBox(title)
	for _, r := range navRoutes {
		path := r.Path
		btn := widget.NewButton(r.Name, func() {
			if onSelect != nil {
				onSelect(path)
			}
		})
		btn.Importance = widget.LowImportance
		n.buttons[path] = btn
		left.Add(btn)
	}

	logoutBtn := widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		if onLogout != nil {
			onLogout()
		}
	})
	if onLogout == nil {
		logoutBtn.Hide()
	}

	right := container.NewHBox(layout.NewSpacer(), n.user, logoutBtn)
	n.container = container.NewBorder(nil, widget.NewSeparator(), left, right)
	n.ExtendBaseWidget(n)
	return n
}

// SetCurrent highlights the button for route.
func (n *NavBar) SetCurrent(route router.Route) {
	for path, btn := range n.buttons {
		if path == route.Path {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.LowImportance
		}
		btn.Refresh()
	}
}

// SetUser shows who is logged in.
func (n *NavBar) SetUser(email string) {
	n.user.SetText(email)
}

// CreateRenderer implements fyne.Widget
func (n *NavBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(n.container)
}
