package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"wgcAdmin/internal/api"
	"wgcAdmin/internal/format"
	"wgcAdmin/internal/models"
	"wgcAdmin/internal/wireguard"
)

// minPasswordLength is the shortest password the forms accept.
const minPasswordLength = 8

var roles = []string{models.RoleUser, models.RoleAdmin}

// UsersPage manages the accounts that can log in to the controller.
type UsersPage struct {
	session  *Session
	list     *fyne.Container
	accounts []models.UserAccount

	ctx    context.Context
	cancel context.CancelFunc
}

func NewUsersPage(s *Session) *UsersPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &UsersPage{
		session: s,
		list:    container.NewVBox(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *UsersPage) Build() fyne.CanvasObject {
	title := canvas.NewText("Users", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 24

	addBtn := widget.NewButtonWithIcon("Add User", theme.ContentAddIcon(), p.showAddForm)
	addBtn.Importance = widget.HighImportance
	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.Load)

	header := container.NewBorder(nil, nil, title, container.NewHBox(addBtn, refreshBtn))
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(p.list))
}

func (p *UsersPage) Load() {
	var accounts []models.UserAccount
	p.session.Run(p.ctx, "Loading users...", func(ctx context.Context) error {
		var err error
		accounts, err = p.session.Client.Accounts(ctx)
		return err
	}, func(err error) {
		if err != nil {
			p.session.Fail("Loading users", err)
			return
		}
		sort.Slice(accounts, func(i, j int) bool {
			return strings.ToLower(accounts[i].Email) < strings.ToLower(accounts[j].Email)
		})
		p.accounts = accounts
		p.rebuild()
	})
}

func (p *UsersPage) Close() {
	p.cancel()
}

func (p *UsersPage) rebuild() {
	p.list.Objects = nil
	now := time.Now()
	self := p.session.Store.Snapshot().Email

	for _, account := range p.accounts {
		p.list.Add(p.row(account, account.Email == self, now))
		p.list.Add(widget.NewSeparator())
	}
	if len(p.accounts) == 0 {
		p.list.Add(widget.NewLabel("No users"))
	}
	p.list.Refresh()
}

func (p *UsersPage) row(account models.UserAccount, self bool, now time.Time) fyne.CanvasObject {
	email := widget.NewLabel(account.Email)
	email.TextStyle = fyne.TextStyle{Bold: true}

	details := widget.NewLabel(AccountSummary(account, now))

	role := widget.NewSelect(roles, nil)
	role.SetSelected(account.Role)
	role.OnChanged = func(r string) {
		if r == account.Role {
			return
		}
		p.changeRole(account, r)
	}

	passwordBtn := widget.NewButtonWithIcon("Password", theme.AccountIcon(), func() {
		p.showPasswordForm(account)
	})

	unlockBtn := widget.NewButtonWithIcon("Unlock", theme.MediaReplayIcon(), func() {
		p.resetFailedAttempts(account)
	})
	if account.FailedAttempts == 0 {
		unlockBtn.Disable()
	}

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p.confirmDelete(account)
	})
	deleteBtn.Importance = widget.DangerImportance

	if self {
		// demoting or deleting yourself locks you out mid-session
		role.Disable()
		deleteBtn.Disable()
		email.SetText(account.Email + " (you)")
	}

	left := container.NewVBox(email, details)
	right := container.NewHBox(layout.NewSpacer(), role, passwordBtn, unlockBtn, deleteBtn)
	return container.NewBorder(nil, nil, left, right)
}

// AccountSummary is the one line of detail shown under an account.
func AccountSummary(account models.UserAccount, now time.Time) string {
	parts := []string{"Last active " + format.TimeSinceString(account.LastActiveUnixMillis, now)}
	switch {
	case account.Suspended():
		parts = append(parts, fmt.Sprintf("suspended after %d failed logins", account.FailedAttempts))
	case account.FailedAttempts == 1:
		parts = append(parts, "1 failed login")
	case account.FailedAttempts > 1:
		parts = append(parts, fmt.Sprintf("%d failed logins", account.FailedAttempts))
	}
	return strings.Join(parts, ", ")
}

func (p *UsersPage) changeRole(account models.UserAccount, role string) {
	account.Role = role
	p.session.Run(p.ctx, "Updating "+account.Email+"...", func(ctx context.Context) error {
		return p.session.Client.PatchAccount(ctx, account)
	}, func(err error) {
		if err != nil {
			p.session.Fail("Updating "+account.Email, err)
		} else {
			p.session.Status.SetStatus(fmt.Sprintf("%s is now %s", account.Email, role), true)
		}
		p.Load()
	})
}

func (p *UsersPage) showAddForm() {
	email := widget.NewEntry()
	email.SetPlaceHolder("user@example.com")
	role := widget.NewSelect(roles, nil)
	role.SetSelected(models.RoleUser)
	password := widget.NewPasswordEntry()
	confirm := widget.NewPasswordEntry()

	items := []*widget.FormItem{
		widget.NewFormItem("Email", email),
		widget.NewFormItem("Role", role),
		widget.NewFormItem("Password", password),
		widget.NewFormItem("Confirm", confirm),
	}

	d := dialog.NewForm("Add User", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		account := models.UserAccountWithPass{
			Email:    strings.TrimSpace(email.Text),
			Role:     role.Selected,
			Password: password.Text,
		}
		if err := ValidateNewAccount(account, confirm.Text); err != nil {
			dialog.ShowError(err, p.session.Window)
			return
		}

		p.session.Run(p.ctx, "Creating "+account.Email+"...", func(ctx context.Context) error {
			return p.session.Client.PutAccount(ctx, account)
		}, func(err error) {
			if err != nil {
				p.session.Fail("Creating "+account.Email, err)
				return
			}
			p.session.Log.Info().Str("email", account.Email).Str("role", account.Role).Msg("account created")
			p.session.Status.SetStatus("Created "+account.Email, true)
			p.Load()
		})
	}, p.session.Window)
	d.Resize(fyne.NewSize(420, 300))
	d.Show()
}

// ValidateNewAccount checks the add user form.
func ValidateNewAccount(account models.UserAccountWithPass, confirm string) error {
	if !wireguard.ValidateEmail(account.Email) {
		return wireguard.ValidationError{Field: "Email", Message: "invalid address"}
	}
	if !wireguard.ValidateRole(account.Role) {
		return wireguard.ValidationError{Field: "Role", Message: "must be user or admin"}
	}
	return ValidatePassword(account.Password, confirm)
}

// ValidatePassword checks a new password and its confirmation.
func ValidatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return wireguard.ValidationError{Field: "Password", Message: fmt.Sprintf("at least %d characters", minPasswordLength)}
	}
	if password != confirm {
		return wireguard.ValidationError{Field: "Confirm", Message: "passwords do not match"}
	}
	return nil
}

func (p *UsersPage) showPasswordForm(account models.UserAccount) {
	password := widget.NewPasswordEntry()
	confirm := widget.NewPasswordEntry()

	items := []*widget.FormItem{
		widget.NewFormItem("New Password", password),
		widget.NewFormItem("Confirm", confirm),
	}

	d := dialog.NewForm("Password: "+account.Email, "Change", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := ValidatePassword(password.Text, confirm.Text); err != nil {
			dialog.ShowError(err, p.session.Window)
			return
		}

		pw := password.Text
		p.session.Run(p.ctx, "Changing password...", func(ctx context.Context) error {
			return p.session.Client.PatchAccountPassword(ctx, account.Email, pw)
		}, func(err error) {
			if err != nil {
				p.session.Fail("Changing password for "+account.Email, err)
				return
			}
			p.session.Status.SetStatus("Password changed for "+account.Email, true)
		})
	}, p.session.Window)
	d.Resize(fyne.NewSize(420, 220))
	d.Show()
}

func (p *UsersPage) resetFailedAttempts(account models.UserAccount) {
	p.session.Run(p.ctx, "Unlocking "+account.Email+"...", func(ctx context.Context) error {
		return p.session.Client.ResetFailedAttempts(ctx, account.Email)
	}, func(err error) {
		switch {
		case api.IsNotFound(err):
			p.session.Status.SetStatus("This controller does not support unlocking accounts", false)
		case err != nil:
			p.session.Fail("Unlocking "+account.Email, err)
		default:
			p.session.Status.SetStatus("Unlocked "+account.Email, true)
			p.Load()
		}
	})
}

func (p *UsersPage) confirmDelete(account models.UserAccount) {
	dialog.ShowConfirm("Delete User", fmt.Sprintf("Delete user '%s'?", account.Email), func(yes bool) {
		if !yes {
			return
		}
		p.session.Run(p.ctx, "Deleting "+account.Email+"...", func(ctx context.Context) error {
			return p.session.Client.DeleteAccount(ctx, account.Email)
		}, func(err error) {
			if err != nil {
				p.session.Fail("Deleting "+account.Email, err)
				return
			}
			p.session.Status.SetStatus("Deleted "+account.Email, true)
			p.Load()
		})
	}, p.session.Window)
}
