package components

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// BusyDialog covers the window while API calls are in flight. Calls may
// overlap; the dialog stays up until the last one finishes.
type BusyDialog struct {
	mu      sync.Mutex
	pending int
	dialog  dialog.Dialog
	label   *widget.Label
	window  fyne.Window
}

// NewBusyDialog creates a new busy dialog
func NewBusyDialog(window fyne.Window) *BusyDialog {
	return &BusyDialog{
		window: window,
	}
}

// Show raises the dialog with msg, or updates the message when it is
// already up. Every Show must be matched by a Hide.
func (b *BusyDialog) Show(msg string) {
	b.mu.Lock()
	b.pending++
	b.mu.Unlock()

	fyne.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.pending == 0 {
			return
		}
		if b.dialog != nil {
			b.label.SetText(msg)
			return
		}

		b.label = widget.NewLabel(msg)
		content := container.NewVBox(b.label, widget.NewProgressBarInfinite())

		b.dialog = dialog.NewCustomWithoutButtons("Working...", content, b.window)
		b.dialog.Show()
	})
}

// Hide ends one Show and removes the dialog once nothing is pending.
func (b *BusyDialog) Hide() {
	b.mu.Lock()
	if b.pending > 0 {
		b.pending--
	}
	b.mu.Unlock()

	fyne.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.pending == 0 && b.dialog != nil {
			b.dialog.Hide()
			b.dialog = nil
			b.label = nil
		}
	})
}
