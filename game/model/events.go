package model

// EventKind identifies the kind of change a GameEvent describes
type EventKind string

const (
	// TileCreated fires when a new tile appears on the board.
	TileCreated EventKind = "tile_created"
	// TileUpdated fires when an existing tile changes position and/or value.
	// The event carries no diff; consumers read the current fields off the
	// referenced tile.
	TileUpdated EventKind = "tile_updated"
	// TileRemoved fires when a tile has been merged away. The tile's fields
	// still hold its pre-merge value; it must not be referenced afterwards.
	TileRemoved EventKind = "tile_removed"
)

// GameEvent is an immutable record of one notable model change
type GameEvent struct {
	Kind EventKind `json:"kind"`
	Tile *Tile     `json:"tile"`
}

// Listener is any consumer of model change notifications. This is the sole
// channel through which model state becomes visible outside the model.
type Listener interface {
	Notify(event GameEvent)
}

// ListenerFunc adapts a plain function to the Listener interface
type ListenerFunc func(event GameEvent)

// Notify calls f(event)
func (f ListenerFunc) Notify(event GameEvent) {
	f(event)
}

// Notifier grants an ordered listener list to the game elements that embed
// it. Listeners run synchronously, in registration order, within the call
// stack of the triggering mutation; a listener must not re-enter the board
// with a further mutating call during notification.
type Notifier struct {
	listeners []Listener
}

// AddListener appends a listener. No deduplication is performed.
func (n *Notifier) AddListener(listener Listener) {
	n.listeners = append(n.listeners, listener)
}

// NotifyAll delivers event to every registered listener in registration
// order. Listener panics are not recovered; they indicate a contract
// violation in the consumer, not a runtime condition.
func (n *Notifier) NotifyAll(event GameEvent) {
	for _, listener := range n.listeners {
		listener.Notify(event)
	}
}
