package tilestore

import "fmt"

// Key identifies a map tile by coordinate and zoom level.
type Key struct {
	X    int
	Y    int
	Zoom int
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Zoom, k.X, k.Y)
}

// Action is the outcome of Store.RequestOrSkip.
type Action int

const (
	// ServeFromCache means the tile is cached and the caller should reply with it.
	ServeFromCache Action = iota
	// AlreadyPending means a fetch for this tile is in flight; the caller must not issue another.
	AlreadyPending
	// NewRequest means the caller should forward the request upstream.
	NewRequest
)

func (a Action) String() string {
	switch a {
	case ServeFromCache:
		return "serve_from_cache"
	case AlreadyPending:
		return "already_pending"
	case NewRequest:
		return "new_request"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}
