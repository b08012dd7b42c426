package hub

import (
	"encoding/json"

	"go.uber.org/zap"

	"dashlink/internal/tilestore"
)

type handlerFunc func(h *Hub, c *Client, data json.RawMessage)

// newHandlerTable maps every inbound event to its action. The table is the
// whole routing policy: most events are re-broadcast under a new name, the
// tile events consult the store first.
func newHandlerTable() map[Event]handlerFunc {
	return map[Event]handlerFunc{
		EventReloadPage:      forwardAs(EventAndroidReloadPage),
		EventAndroidConnect:  handleAndroidConnect,
		EventTimeAndDistance: forwardAs(EventWebTimeAndDistance),
		EventRouteSegments:   forwardAs(EventWebRouteSegments),
		EventSongChange:      forwardAs(EventUpdateText),
		EventAlbumImage:      forwardAs(EventAlbumImageBitmap),
		EventSkipSong:        forwardAs(EventSkipSong),
		EventTileData:        handleTileData,
		EventLocationUpdate:  handleLocationUpdate,
		EventRequestTile:     handleRequestTile,
	}
}

// dispatch routes one inbound envelope. Runs on the sender's read goroutine,
// so events from a single connection are handled in arrival order.
func (h *Hub) dispatch(c *Client, env Envelope) {
	handler, ok := h.handlers[env.Event]
	if !ok {
		h.logger.Warn("Dropping unknown event",
			zap.String("event", string(env.Event)),
			zap.String("session", c.ID),
		)
		return
	}
	handler(h, c, env.Data)
}

// forwardAs relays the payload verbatim under the outbound event name.
func forwardAs(out Event) handlerFunc {
	return func(h *Hub, c *Client, data json.RawMessage) {
		h.Broadcast(out, data)
	}
}

func handleAndroidConnect(h *Hub, c *Client, data json.RawMessage) {
	h.logger.Info("Device announced itself", zap.String("session", c.ID))
	h.Broadcast(EventUpdateText, map[string]string{"data": "android connected"})
}

func handleLocationUpdate(h *Hub, c *Client, data json.RawMessage) {
	if err := validateLocation(data); err != nil {
		h.logger.Warn("Dropping malformed location_update",
			zap.String("session", c.ID),
			zap.Error(err),
		)
		return
	}
	h.Broadcast(EventWebLocationUpdate, data)
}

func handleTileData(h *Hub, c *Client, data json.RawMessage) {
	key, err := decodeTileKey(data)
	if err != nil {
		h.logger.Warn("Dropping malformed tile_data",
			zap.String("session", c.ID),
			zap.Error(err),
		)
		return
	}
	h.store.Put(key, data)
	h.Broadcast(EventWebMapTile, data)
}

func handleRequestTile(h *Hub, c *Client, data json.RawMessage) {
	key, err := decodeTileKey(data)
	if err != nil {
		h.logger.Warn("Dropping malformed request_tile",
			zap.String("session", c.ID),
			zap.Error(err),
		)
		return
	}

	action, payload := h.store.RequestOrSkip(key)
	switch action {
	case tilestore.ServeFromCache:
		h.logger.Debug("Tile served from cache", zap.Stringer("tile", key))
		h.EmitTo(c, EventWebMapTile, json.RawMessage(payload))
	case tilestore.AlreadyPending:
		// Another client already triggered this fetch; the response will be
		// broadcast when it arrives.
		h.logger.Debug("Tile fetch already in flight", zap.Stringer("tile", key))
	case tilestore.NewRequest:
		h.logger.Debug("Forwarding tile request to device", zap.Stringer("tile", key))
		h.Broadcast(EventAndroidRequestTile, data)
	}
}
