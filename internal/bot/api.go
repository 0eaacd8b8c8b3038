// SPDX-License-Identifier: MIT

// Package bot implements the Telegram conversation layer: update dispatch,
// the per-chat state machine, keyboards and handlers.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the slice of *tgbotapi.BotAPI the handlers actually use. Tests
// substitute a recording fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}
