// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"time"
)

// State names one step of a chat conversation.
type State string

const (
	StateIdle                State = ""
	StateRouteMenu           State = "route_menu"
	StateOriginMethod        State = "origin_method"
	StateOriginLocation      State = "origin_location"
	StateOriginList          State = "origin_list"
	StateOriginSearch        State = "origin_search"
	StateDestinationMethod   State = "destination_method"
	StateDestinationLocation State = "destination_location"
	StateDestinationList     State = "destination_list"
	StateDestinationSearch   State = "destination_search"
	StateDepartureTime       State = "departure_time"
	StateArrivalTime         State = "arrival_time"
	StateAdminAddCategory    State = "admin_add_category"
	StateAdminAddOrg         State = "admin_add_org"
)

// Conversation is the per-chat FSM payload.
type Conversation struct {
	State State `json:"state"`

	// Route planning inputs.
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Departure   string `json:"departure,omitempty"` // "HH:MM", empty means now
	Arrival     string `json:"arrival,omitempty"`   // "HH:MM", empty means asap

	UpdatedAt time.Time `json:"updated_at"`
}

// Idle reports whether the chat has no conversation in flight.
func (c Conversation) Idle() bool {
	return c.State == StateIdle
}

// Store persists conversations keyed by chat ID. Entries expire after the
// configured TTL; an expired or missing entry reads back as the zero
// Conversation.
type Store interface {
	Get(ctx context.Context, chatID int64) (Conversation, error)
	Put(ctx context.Context, chatID int64, conv Conversation) error
	Delete(ctx context.Context, chatID int64) error
	Close() error
}
