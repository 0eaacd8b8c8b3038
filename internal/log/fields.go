// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldUpdateID = "update_id"
	FieldChatID   = "chat_id"
	FieldUserID   = "user_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldHandler   = "handler"

	// Conversation fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"
	FieldCallback = "callback"

	// Transit fields
	FieldRoute       = "route"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldStopCode    = "stop_code"

	// Storage fields
	FieldPath = "path"
	FieldOp   = "op"
)
