package hub

// Event names the message types exchanged over the relay. The inbound set is
// closed: anything outside the dispatch table is logged and dropped.
type Event string

// Inbound events, sent by devices and viewers.
const (
	EventReloadPage      Event = "reload_page"
	EventAndroidConnect  Event = "android_connect"
	EventTimeAndDistance Event = "time_and_distance"
	EventRouteSegments   Event = "route_segments"
	EventSongChange      Event = "song_change"
	EventAlbumImage      Event = "album_image"
	EventSkipSong        Event = "skip_song"
	EventTileData        Event = "tile_data"
	EventLocationUpdate  Event = "location_update"
	EventRequestTile     Event = "request_tile"
)

// Outbound events, emitted by the hub.
const (
	EventMessage            Event = "message"
	EventAndroidReloadPage  Event = "android_reload_page"
	EventUpdateText         Event = "update_text"
	EventWebTimeAndDistance Event = "web_time_and_distance"
	EventWebRouteSegments   Event = "web_route_segments"
	EventAlbumImageBitmap   Event = "album_image_bitmap"
	EventWebMapTile         Event = "web_map_tile"
	EventAndroidRequestTile Event = "android_request_tile"
	EventWebLocationUpdate  Event = "web_location_update"
)

// Role tags a connected client. It is declared on the upgrade URL at connect
// time and used for lifecycle logging; fan-out is broadcast-to-all regardless
// of role.
type Role string

const (
	RoleDevice Role = "device"
	RoleViewer Role = "viewer"
)

// ParseRole maps the ?role= query value to a Role. Anything unrecognized,
// including an empty value, counts as a viewer.
func ParseRole(value string) Role {
	if value == string(RoleDevice) {
		return RoleDevice
	}
	return RoleViewer
}
