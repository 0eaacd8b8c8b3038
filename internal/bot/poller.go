// SPDX-License-Identifier: MIT

package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/log"
)

// Poll consumes updates via long polling until ctx is canceled. Used when no
// webhook URL is configured.
func (b *Bot) Poll(ctx context.Context, timeout int) error {
	logger := log.WithComponent("poller")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout

	updates := b.api.GetUpdatesChan(u)
	logger.Info().Int("timeout", timeout).Str("event", "poller.started").Msg("long polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info().Str("event", "poller.stopped").Msg("long polling stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				logger.Info().Str("event", "poller.channel_closed").Msg("updates channel closed")
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}
