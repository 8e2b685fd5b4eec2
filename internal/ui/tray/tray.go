package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"pomoplayer/internal/core/model"
)

// Callbacks defines tray menu actions.
type Callbacks struct {
	OnShow        func()
	OnToggle      func()
	OnReset       func()
	OnSkip        func()
	OnSession     func(sessionType model.SessionType)
	OnPreferences func()
	OnQuit        func()
}

// Manager controls the system tray menu.
type Manager struct {
	app          desktop.App
	callbacks    Callbacks
	menu         *fyne.Menu
	statusItem   *fyne.MenuItem
	toggleItem   *fyne.MenuItem
	resetItem    *fyne.MenuItem
	skipItem     *fyne.MenuItem
	sessionItems map[model.SessionType]*fyne.MenuItem
	status       string
	running      bool
	current      model.SessionType
}

// NewManager creates and attaches the tray menu.
func NewManager(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:          app,
		callbacks:    callbacks,
		status:       "Ready",
		current:      model.SessionWork,
		sessionItems: make(map[model.SessionType]*fyne.MenuItem),
	}

	manager.statusItem = fyne.NewMenuItem(manager.status, nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})
	manager.resetItem.Icon = theme.MediaReplayIcon()
	manager.skipItem = fyne.NewMenuItem("Skip", func() {
		if manager.callbacks.OnSkip != nil {
			manager.callbacks.OnSkip()
		}
	})
	manager.skipItem.Icon = theme.MediaSkipNextIcon()

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line.
func (manager *Manager) SetStatus(text string) {
	manager.status = text
	manager.refreshStatus()
}

// SetRunning switches the toggle item between Start and Pause.
func (manager *Manager) SetRunning(running bool) {
	if manager.running == running {
		return
	}
	manager.running = running
	manager.refreshMenu()
}

// SetSession marks the current session type in the session submenu.
func (manager *Manager) SetSession(sessionType model.SessionType) {
	if manager.current == sessionType {
		return
	}
	manager.current = sessionType
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = manager.status
	if manager.menu != nil {
		manager.menu.Refresh()
	}
}

func (manager *Manager) refreshMenu() {
	if manager.running {
		manager.toggleItem.Label = "Pause"
		manager.toggleItem.Icon = theme.MediaPauseIcon()
	} else {
		manager.toggleItem.Label = "Start"
		manager.toggleItem.Icon = theme.MediaPlayIcon()
	}
	manager.statusItem.Label = manager.status

	sessionItem := fyne.NewMenuItem("Session", nil)
	sessionItem.ChildMenu = fyne.NewMenu("", manager.sessionMenuItems()...)

	items := []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.skipItem,
		sessionItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Timer", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	}

	manager.menu = fyne.NewMenu("PomoPlayer", items...)
	manager.app.SetSystemTrayMenu(manager.menu)
}

func (manager *Manager) sessionMenuItems() []*fyne.MenuItem {
	items := make([]*fyne.MenuItem, 0, len(model.SessionTypes))
	for _, sessionType := range model.SessionTypes {
		item := manager.sessionItems[sessionType]
		if item == nil {
			target := sessionType
			item = fyne.NewMenuItem(sessionType.Label(), func() {
				if manager.callbacks.OnSession != nil {
					manager.callbacks.OnSession(target)
				}
			})
			manager.sessionItems[sessionType] = item
		}
		item.Checked = sessionType == manager.current
		items = append(items, item)
	}
	return items
}
