package playback

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix         = "org.mpris.MediaPlayer2."
	mprisPath           = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayer         = "org.mpris.MediaPlayer2.Player"
	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = propertiesInterface + ".PropertiesChanged"
)

// MPRIS controls a desktop media player over the D-Bus session bus.
// The player is looked up on every call, so players started later are found.
type MPRIS struct {
	conn      *dbus.Conn
	preferred string
	logger    *slog.Logger
	state     listeners
	signals   chan *dbus.Signal
}

// NewMPRIS connects to the session bus. preferred selects a player by the
// suffix of its bus name (e.g. "spotify"); empty picks the first player.
func NewMPRIS(preferred string, logger *slog.Logger) (*MPRIS, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to player signals: %w", err)
	}

	player := &MPRIS{
		conn:      conn,
		preferred: preferred,
		logger:    logger,
		signals:   make(chan *dbus.Signal, 16),
	}
	conn.Signal(player.signals)

	if playing, err := player.queryPlaying(); err == nil {
		player.state.set(playing)
	} else {
		logger.Debug("query playback status", "error", err)
	}

	go player.watch()
	return player, nil
}

// Play resumes the selected player.
func (player *MPRIS) Play() error {
	return player.call("Play")
}

// Pause pauses the selected player.
func (player *MPRIS) Pause() error {
	return player.call("Pause")
}

// IsPlaying reports the last status seen on the bus.
func (player *MPRIS) IsPlaying() bool {
	return player.state.current()
}

// OnPlaybackStateChange registers a state change callback.
func (player *MPRIS) OnPlaybackStateChange(callback func(playing bool)) {
	player.state.add(callback)
}

// Close disconnects from the bus and stops the signal watcher.
func (player *MPRIS) Close() error {
	return player.conn.Close()
}

func (player *MPRIS) call(method string) error {
	name, err := player.busName()
	if err != nil {
		return err
	}
	call := player.conn.Object(name, mprisPath).Call(mprisPlayer+"."+method, 0)
	if call.Err != nil {
		return fmt.Errorf("%s %s: %w", name, method, call.Err)
	}
	return nil
}

func (player *MPRIS) busName() (string, error) {
	var names []string
	if err := player.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return "", fmt.Errorf("list bus names: %w", err)
	}
	name, ok := choosePlayer(names, player.preferred)
	if !ok {
		return "", ErrNoPlayer
	}
	return name, nil
}

func (player *MPRIS) queryPlaying() (bool, error) {
	name, err := player.busName()
	if err != nil {
		return false, err
	}
	variant, err := player.conn.Object(name, mprisPath).GetProperty(mprisPlayer + ".PlaybackStatus")
	if err != nil {
		return false, fmt.Errorf("read playback status: %w", err)
	}
	status, _ := variant.Value().(string)
	return status == "Playing", nil
}

func (player *MPRIS) watch() {
	for signal := range player.signals {
		playing, ok := playbackStatus(signal)
		if !ok || !player.fromSelected(signal.Sender) {
			continue
		}
		player.state.set(playing)
	}
}

// fromSelected reports whether sender is the unique bus name of the
// player that Play and Pause currently address.
func (player *MPRIS) fromSelected(sender string) bool {
	name, err := player.busName()
	if err != nil {
		return false
	}
	var owner string
	if err := player.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner); err != nil {
		player.logger.Debug("resolve player owner", "name", name, "error", err)
		return false
	}
	return owner == sender
}

// choosePlayer picks the MPRIS bus name to control. A preferred suffix wins
// when present; otherwise the first player in name order is used.
func choosePlayer(names []string, preferred string) (string, bool) {
	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, name)
		}
	}
	if len(players) == 0 {
		return "", false
	}
	sort.Strings(players)

	if preferred != "" {
		want := mprisPrefix + preferred
		for _, name := range players {
			// Players may append ".instance123" to their bus name.
			if name == want || strings.HasPrefix(name, want+".") {
				return name, true
			}
		}
		return "", false
	}
	return players[0], true
}

// playbackStatus extracts PlaybackStatus from a PropertiesChanged signal.
func playbackStatus(signal *dbus.Signal) (bool, bool) {
	if signal == nil || signal.Name != propertiesChanged || len(signal.Body) < 2 {
		return false, false
	}
	iface, ok := signal.Body[0].(string)
	if !ok || iface != mprisPlayer {
		return false, false
	}
	changed, ok := signal.Body[1].(map[string]dbus.Variant)
	if !ok {
		return false, false
	}
	variant, ok := changed["PlaybackStatus"]
	if !ok {
		return false, false
	}
	status, ok := variant.Value().(string)
	if !ok {
		return false, false
	}
	return status == "Playing", true
}
