package views

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/format"
	"wgcAdmin/internal/models"
	"wgcAdmin/internal/wireguard"
)

// APIKeysPage manages tokens for scripted access to the controller.
type APIKeysPage struct {
	session *Session
	list    *fyne.Container
	keys    []models.APIKey

	ctx    context.Context
	cancel context.CancelFunc
}

func NewAPIKeysPage(s *Session) *APIKeysPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &APIKeysPage{
		session: s,
		list:    container.NewVBox(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *APIKeysPage) Build() fyne.CanvasObject {
	title := canvas.NewText("API Keys", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 24

	addBtn := widget.NewButtonWithIcon("Create Key", theme.ContentAddIcon(), p.showCreateForm)
	addBtn.Importance = widget.HighImportance
	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.Load)

	header := container.NewBorder(nil, nil, title, container.NewHBox(addBtn, refreshBtn))
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(p.list))
}

func (p *APIKeysPage) Load() {
	var keys []models.APIKey
	p.session.Run(p.ctx, "Loading API keys...", func(ctx context.Context) error {
		var err error
		keys, err = p.session.Client.APIKeys(ctx)
		return err
	}, func(err error) {
		if err != nil {
			p.session.Fail("Loading API keys", err)
			return
		}
		sort.Slice(keys, func(i, j int) bool {
			return strings.ToLower(keys[i].Name) < strings.ToLower(keys[j].Name)
		})
		p.keys = keys
		p.rebuild()
	})
}

func (p *APIKeysPage) Close() {
	p.cancel()
}

func (p *APIKeysPage) rebuild() {
	p.list.Objects = nil
	now := time.Now()

	for _, key := range p.keys {
		p.list.Add(p.row(key, now))
		p.list.Add(widget.NewSeparator())
	}
	if len(p.keys) == 0 {
		p.list.Add(widget.NewLabel("No API keys"))
	}
	p.list.Refresh()
}

func (p *APIKeysPage) row(key models.APIKey, now time.Time) fyne.CanvasObject {
	name := widget.NewLabel(key.Name)
	name.TextStyle = fyne.TextStyle{Bold: true}

	details := widget.NewLabel(fmt.Sprintf("%s, expires %s", key.Role, format.ExpiryString(key.ExpiresUnixMillis, now)))
	id := widget.NewLabel(key.UUID)
	id.TextStyle = fyne.TextStyle{Monospace: true}

	renameBtn := widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), func() {
		p.showRenameForm(key)
	})
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p.confirmDelete(key)
	})
	deleteBtn.Importance = widget.DangerImportance

	left := container.NewVBox(name, container.NewHBox(details, id))
	right := container.NewHBox(layout.NewSpacer(), renameBtn, deleteBtn)
	return container.NewBorder(nil, nil, left, right)
}

// ExpiryFromDays turns the "valid for" field into an expiry timestamp.
// Blank or 0 means the key never expires.
func ExpiryFromDays(days string, now time.Time) (int64, error) {
	days = strings.TrimSpace(days)
	if days == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(days)
	if err != nil || n < 0 {
		return 0, wireguard.ValidationError{Field: "Valid for", Message: "must be a whole number of days"}
	}
	if n == 0 {
		return 0, nil
	}
	return now.AddDate(0, 0, n).UnixMilli(), nil
}

func (p *APIKeysPage) showCreateForm() {
	name := widget.NewEntry()
	name.SetPlaceHolder("e.g., provisioning script")
	role := widget.NewSelect(roles, nil)
	role.SetSelected(models.RoleUser)
	days := widget.NewEntry()
	days.SetPlaceHolder("days, blank for never")

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Role", role),
		widget.NewFormItem("Valid for", days),
	}

	d := dialog.NewForm("Create API Key", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		keyName := strings.TrimSpace(name.Text)
		if keyName == "" {
			dialog.ShowError(wireguard.ValidationError{Field: "Name", Message: "required"}, p.session.Window)
			return
		}
		expires, err := ExpiryFromDays(days.Text, time.Now())
		if err != nil {
			dialog.ShowError(err, p.session.Window)
			return
		}
		p.create(models.APIKey{
			Name:              keyName,
			Role:              role.Selected,
			ExpiresUnixMillis: expires,
			Attributes:        []string{},
		})
	}, p.session.Window)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}

// create asks the controller for a token, stores the key and shows the
// token once.
func (p *APIKeysPage) create(key models.APIKey) {
	var token string
	p.session.Run(p.ctx, "Creating "+key.Name+"...", func(ctx context.Context) error {
		init, err := p.session.Client.APIKeyInit(ctx)
		if err != nil {
			return err
		}
		key.UUID = init.UUID
		token = init.Token
		return p.session.Client.PutAPIKey(ctx, models.APIKeyWithToken{APIKey: key, Token: init.Token})
	}, func(err error) {
		if err != nil {
			p.session.Fail("Creating "+key.Name, err)
			return
		}
		p.session.Log.Info().Str("uuid", key.UUID).Str("name", key.Name).Msg("api key created")
		p.session.Status.SetStatus("Created API key "+key.Name, true)
		p.showToken(key.Name, token)
		p.Load()
	})
}

func (p *APIKeysPage) showToken(name, token string) {
	tokenLabel := widget.NewLabel(token)
	tokenLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tokenLabel.Selectable = true

	copyBtn := widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		fyne.CurrentApp().Clipboard().SetContent(token)
		p.session.Status.SetStatus("Token copied to clipboard", true)
	})

	content := container.NewVBox(
		widget.NewLabel("This token is shown only once. Store it now."),
		container.NewBorder(nil, nil, nil, copyBtn, tokenLabel),
	)
	dialog.ShowCustom("API Key: "+name, "Done", content, p.session.Window)
}

func (p *APIKeysPage) showRenameForm(key models.APIKey) {
	name := widget.NewEntry()
	name.SetText(key.Name)

	dialog.ShowForm("Rename API Key", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", name),
	}, func(ok bool) {
		newName := strings.TrimSpace(name.Text)
		if !ok || newName == "" || newName == key.Name {
			return
		}

		key.Name = newName
		p.session.Run(p.ctx, "Renaming...", func(ctx context.Context) error {
			return p.session.Client.PatchAPIKey(ctx, key)
		}, func(err error) {
			if err != nil {
				p.session.Fail("Renaming API key", err)
				return
			}
			p.session.Status.SetStatus("Renamed API key to "+newName, true)
			p.Load()
		})
	}, p.session.Window)
}

func (p *APIKeysPage) confirmDelete(key models.APIKey) {
	msg := fmt.Sprintf("Delete API key '%s'?\n\nScripts using it will stop working.", key.Name)
	dialog.ShowConfirm("Delete API Key", msg, func(yes bool) {
		if !yes {
			return
		}
		p.session.Run(p.ctx, "Deleting "+key.Name+"...", func(ctx context.Context) error {
			return p.session.Client.DeleteAPIKey(ctx, key.UUID)
		}, func(err error) {
			if err != nil {
				p.session.Fail("Deleting "+key.Name, err)
				return
			}
			p.session.Status.SetStatus("Deleted API key "+key.Name, true)
			p.Load()
		})
	}, p.session.Window)
}
