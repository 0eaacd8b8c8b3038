// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	updateIDKey ctxKey = "update_id"
	chatIDKey   ctxKey = "chat_id"
	userIDKey   ctxKey = "user_id"
)

// ContextWithUpdateID stores the Telegram update ID in the context.
func ContextWithUpdateID(ctx context.Context, id int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, updateIDKey, id)
}

// ContextWithChatID stores the chat ID in the context.
func ContextWithChatID(ctx context.Context, id int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, chatIDKey, id)
}

// ContextWithUserID stores the Telegram user ID in the context.
func ContextWithUserID(ctx context.Context, id int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UpdateIDFromContext extracts the update ID from context if present.
func UpdateIDFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(updateIDKey).(int)
	return v, ok
}

// ChatIDFromContext extracts the chat ID from context if present.
func ChatIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(chatIDKey).(int64)
	return v, ok
}

// UserIDFromContext extracts the user ID from context if present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(userIDKey).(int64)
	return v, ok
}

// WithContext enriches the supplied logger with correlation fields from context.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	builder := logger.With()
	added := false
	if uid, ok := UpdateIDFromContext(ctx); ok {
		builder = builder.Int(FieldUpdateID, uid)
		added = true
	}
	if cid, ok := ChatIDFromContext(ctx); ok {
		builder = builder.Int64(FieldChatID, cid)
		added = true
	}
	if uid, ok := UserIDFromContext(ctx); ok {
		builder = builder.Int64(FieldUserID, uid)
		added = true
	}
	if !added {
		return logger
	}
	return builder.Logger()
}

// WithComponentFromContext returns a logger that is annotated with the component
// name and enriched with correlation fields from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
