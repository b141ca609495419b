package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/sync/errgroup"

	"wgcAdmin/internal/models"
	"wgcAdmin/internal/ui/components"
)

// ClientsPage lists the controller's peers.
type ClientsPage struct {
	session       *Session
	listContainer *fyne.Container
	filterEntry   *widget.Entry
	autoRefresh   *widget.Check
	summary       *widget.Label

	peers       []models.Peer
	server      models.ServerInfo
	lastRefresh time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	stopAuto context.CancelFunc
	loading  bool
}

func NewClientsPage(s *Session) *ClientsPage {
	ctx, cancel := context.WithCancel(context.Background())
	label := "Auto refresh"
	if s.AutoRefresh > 0 {
		label = fmt.Sprintf("Auto refresh (%s)", s.AutoRefresh)
	}
	return &ClientsPage{
		session:       s,
		listContainer: container.NewVBox(),
		filterEntry:   widget.NewEntry(),
		autoRefresh:   widget.NewCheck(label, nil),
		summary:       widget.NewLabel(""),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (v *ClientsPage) Build() fyne.CanvasObject {
	title := canvas.NewText("Clients", theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 24

	addBtn := widget.NewButtonWithIcon("Add Client", theme.ContentAddIcon(), v.showAddPeerForm)
	addBtn.Importance = widget.HighImportance

	v.filterEntry.SetPlaceHolder("Filter by hostname or address...")
	v.filterEntry.OnChanged = func(string) {
		v.rebuild()
	}
	filterContainer := container.NewGridWrap(fyne.NewSize(240, v.filterEntry.MinSize().Height), v.filterEntry)

	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), v.Load)

	v.autoRefresh.OnChanged = func(on bool) {
		if on {
			v.startAutoRefresh()
		} else {
			v.stopAutoRefresh()
		}
	}
	if v.session.AutoRefresh <= 0 {
		v.autoRefresh.Disable()
	}

	leftHeader := container.NewVBox(title, v.summary)
	rightHeader := container.NewHBox(addBtn, filterContainer, v.autoRefresh, refreshBtn)
	header := container.NewBorder(nil, nil, leftHeader, rightHeader)

	scroll := container.NewVScroll(v.listContainer)
	scroll.SetMinSize(fyne.NewSize(860, 480))

	return container.NewBorder(header, nil, nil, nil, scroll)
}

// Load fetches peers and server info together.
func (v *ClientsPage) Load() {
	v.load(true)
}

func (v *ClientsPage) load(showBusy bool) {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return
	}
	v.loading = true
	v.mu.Unlock()

	if showBusy {
		v.session.Busy.Show("Loading clients...")
	}

	go func() {
		var peers []models.Peer
		var server models.ServerInfo

		g, ctx := errgroup.WithContext(v.ctx)
		g.Go(func() error {
			var err error
			peers, err = v.session.Client.Peers(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			server, err = v.session.Client.ServerInfo(ctx)
			return err
		})
		err := g.Wait()

		if showBusy {
			v.session.Busy.Hide()
		}
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()

		if v.ctx.Err() != nil {
			return
		}

		fyne.DoAndWait(func() {
			if err != nil {
				v.stopAutoRefresh()
				v.session.Fail("Loading clients", err)
				return
			}

			v.peers = peers
			v.server = server
			v.lastRefresh = time.Now()
			if showBusy {
				v.session.Status.SetStatus(
					fmt.Sprintf("Loaded %d client(s) at %s", len(peers), v.lastRefresh.Format(time.Kitchen)),
					true,
				)
			}
			v.rebuild()
		})
	}()
}

func (v *ClientsPage) rebuild() {
	v.listContainer.Objects = nil

	now := time.Now()
	shown := FilterPeers(v.peers, v.filterEntry.Text)
	online := 0
	for _, peer := range v.peers {
		if components.StateOf(peer, now) == components.PeerOnline {
			online++
		}
	}
	v.summary.SetText(fmt.Sprintf("%d clients, %d online", len(v.peers), online))

	for _, peer := range shown {
		card := components.NewPeerCard(peer, now, components.PeerCardCallbacks{
			OnToggle: v.togglePeer,
			OnConfig: v.showConfig,
			OnEdit:   v.showEditPeerForm,
			OnDelete: v.confirmDeletePeer,
		})
		v.listContainer.Add(card)
	}
	if len(shown) == 0 {
		v.listContainer.Add(widget.NewLabel("No clients"))
	}

	v.listContainer.Refresh()
}

// FilterPeers returns the peers whose hostname or addresses contain filter,
// sorted by hostname.
func FilterPeers(peers []models.Peer, filter string) []models.Peer {
	filter = strings.TrimSpace(strings.ToLower(filter))

	out := make([]models.Peer, 0, len(peers))
	for _, peer := range peers {
		if filter != "" &&
			!strings.Contains(strings.ToLower(peer.Hostname), filter) &&
			!strings.Contains(peer.RemoteTunAddress, filter) &&
			!strings.Contains(peer.LastIPAddress, filter) {
			continue
		}
		out = append(out, peer)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Hostname) < strings.ToLower(out[j].Hostname)
	})
	return out
}

func (v *ClientsPage) togglePeer(peer models.Peer, enable bool) {
	action := "Disabling"
	if enable {
		action = "Enabling"
	}

	peer.Enabled = enable
	v.session.Run(v.ctx, fmt.Sprintf("%s %s...", action, peer.Hostname), func(ctx context.Context) error {
		return v.session.Client.PatchPeer(ctx, peer)
	}, func(err error) {
		if err != nil {
			v.session.Fail(action+" "+peer.Hostname, err)
			return
		}
		state := "disabled"
		if enable {
			state = "enabled"
		}
		v.session.Status.SetStatus(fmt.Sprintf("%s %s", peer.Hostname, state), true)
		v.Load()
	})
}

func (v *ClientsPage) showAddPeerForm() {
	var init models.PeerInit
	v.session.Run(v.ctx, "Preparing new client...", func(ctx context.Context) error {
		var err error
		init, err = v.session.Client.PeerInit(ctx)
		return err
	}, func(err error) {
		if err != nil {
			v.session.Fail("Preparing client", err)
			return
		}
		peer := init.NewPeer("")
		form := NewPeerForm(v.session, peer, true, init.ServerCIDR, v.Load)
		form.Show()
	})
}

func (v *ClientsPage) showEditPeerForm(peer models.Peer) {
	// edit the stored record, not the card's copy
	var fresh models.Peer
	v.session.Run(v.ctx, "Loading "+peer.Hostname+"...", func(ctx context.Context) error {
		var err error
		fresh, err = v.session.Client.Peer(ctx, peer.UUID)
		return err
	}, func(err error) {
		if err != nil {
			v.session.Fail("Loading "+peer.Hostname, err)
			return
		}
		form := NewPeerForm(v.session, fresh, false, "", v.Load)
		form.Show()
	})
}

func (v *ClientsPage) showConfig(peer models.Peer) {
	NewConfigDialog(v.session, peer, v.server).Show()
}

func (v *ClientsPage) confirmDeletePeer(peer models.Peer) {
	msg := fmt.Sprintf("Delete client '%s' (%s)?\n\nIts tunnel will stop working immediately.", peer.Hostname, peer.RemoteTunAddress)

	dialog.ShowConfirm("Delete Client", msg, func(yes bool) {
		if !yes {
			return
		}

		v.session.Run(v.ctx, fmt.Sprintf("Deleting %s...", peer.Hostname), func(ctx context.Context) error {
			return v.session.Client.DeletePeer(ctx, peer.UUID)
		}, func(err error) {
			if err != nil {
				v.session.Fail("Deleting "+peer.Hostname, err)
				return
			}
			v.session.Status.SetStatus(fmt.Sprintf("Deleted %s", peer.Hostname), true)
			v.Load()
		})
	}, v.session.Window)
}

func (v *ClientsPage) startAutoRefresh() {
	if v.session.AutoRefresh <= 0 {
		return
	}

	v.mu.Lock()
	if v.stopAuto != nil {
		v.mu.Unlock()
		return
	}
	ctx, stop := context.WithCancel(v.ctx)
	v.stopAuto = stop
	v.mu.Unlock()

	go func() {
		ticker := time.NewTicker(v.session.AutoRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				v.load(false)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (v *ClientsPage) stopAutoRefresh() {
	v.mu.Lock()
	stop := v.stopAuto
	v.stopAuto = nil
	v.mu.Unlock()

	if stop != nil {
		stop()
	}
	if v.autoRefresh.Checked {
		v.autoRefresh.SetChecked(false)
	}
}

func (v *ClientsPage) Close() {
	v.cancel()
}
