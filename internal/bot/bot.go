// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/cache"
	"github.com/vpolyany/polyansky-bot/internal/config"
	"github.com/vpolyany/polyansky-bot/internal/directory"
	"github.com/vpolyany/polyansky-bot/internal/log"
	"github.com/vpolyany/polyansky-bot/internal/metrics"
	"github.com/vpolyany/polyansky-bot/internal/ratelimit"
	"github.com/vpolyany/polyansky-bot/internal/storage/sqlite"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

const displayStopsCacheKey = "display_stops"

// StopDirectory is the stop data the handlers need.
type StopDirectory interface {
	DisplayStops(ctx context.Context) ([]transit.DisplayStop, error)
	Nearest(ctx context.Context, lat, lon float64, limit int) ([]transit.StopDistance, error)
	ByCode(ctx context.Context, code string) (transit.Stop, error)
}

// JourneyPlanner finds journeys between display stops.
type JourneyPlanner interface {
	Find(ctx context.Context, q transit.Query) ([]transit.Journey, error)
}

// SearchLog records and replays journey searches.
type SearchLog interface {
	Record(ctx context.Context, userID int64, origin, destination string) error
	Recent(ctx context.Context, userID int64, limit int) ([]sqlite.RecentSearch, error)
}

// OrgDirectory is the organizations reference book surface.
type OrgDirectory interface {
	Categories(ctx context.Context) ([]directory.Category, error)
	CategoryByID(ctx context.Context, id int64) (directory.Category, error)
	CategoryByName(ctx context.Context, name string) (directory.Category, error)
	CreateCategory(ctx context.Context, name string) (directory.Category, error)
	OrgsByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]directory.Organization, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	OrgByID(ctx context.Context, id int64) (directory.Organization, error)
	CreateOrg(ctx context.Context, o directory.Organization) (directory.Organization, error)
}

// Deps wires the bot to its collaborators.
type Deps struct {
	API      API
	Config   *config.Holder
	States   Store
	Stops    StopDirectory
	Planner  JourneyPlanner
	Searches SearchLog
	Orgs     OrgDirectory
	Limiter  *ratelimit.Limiter

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Bot dispatches Telegram updates to handlers.
type Bot struct {
	api       API
	cfg       *config.Holder
	states    Store
	stops     StopDirectory
	planner   JourneyPlanner
	searches  SearchLog
	orgs      OrgDirectory
	limiter   *ratelimit.Limiter
	stopCache cache.Cache[[]transit.DisplayStop]
	now       func() time.Time
}

// New constructs the bot.
func New(deps Deps) *Bot {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Bot{
		api:       deps.API,
		cfg:       deps.Config,
		states:    deps.States,
		stops:     deps.Stops,
		planner:   deps.Planner,
		searches:  deps.Searches,
		orgs:      deps.Orgs,
		limiter:   deps.Limiter,
		stopCache: cache.NewMemory[[]transit.DisplayStop](5 * time.Minute),
		now:       now,
	}
}

// Close releases bot-owned resources. The state store is owned by the
// caller.
func (b *Bot) Close() {
	b.stopCache.Stop()
}

// HandleUpdate processes one update. It never panics outward; handler
// panics are logged and answered with a generic error message.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	ctx = log.ContextWithUpdateID(ctx, update.UpdateID)

	chatID, userID := updateIdentity(update)
	if chatID != 0 {
		ctx = log.ContextWithChatID(ctx, chatID)
	}
	if userID != 0 {
		ctx = log.ContextWithUserID(ctx, userID)
	}
	logger := log.WithComponentFromContext(ctx, "dispatch")

	updateType := "unknown"
	switch {
	case update.Message != nil:
		updateType = "message"
	case update.CallbackQuery != nil:
		updateType = "callback"
	}

	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			logger.Error().Interface("panic", r).Str("event", "dispatch.panic").Msg("handler panicked")
			if chatID != 0 {
				b.sendText(chatID, textInternal)
			}
		}
		metrics.RecordUpdate(updateType, outcome)
		metrics.UpdateDuration.Observe(time.Since(start).Seconds())
	}()

	if chatID != 0 && b.limiter != nil && !b.limiter.Allow(chatID) {
		outcome = "ratelimited"
		logger.Debug().Str("event", "dispatch.ratelimited").Msg("update dropped by rate limit")
		return
	}

	switch {
	case update.Message != nil:
		if err := b.handleMessage(ctx, update.Message); err != nil {
			outcome = "error"
			logger.Error().Err(err).Str("event", "dispatch.message_error").Msg("message handler failed")
			b.sendText(chatID, textInternal)
		}
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			outcome = "error"
			logger.Error().Err(err).Str("event", "dispatch.callback_error").Msg("callback handler failed")
		}
	default:
		outcome = "ignored"
	}
}

func updateIdentity(update tgbotapi.Update) (chatID, userID int64) {
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
	}
	return chatID, userID
}

// conversation loads the chat's FSM payload; failures fall back to idle so
// one broken state row cannot wedge a chat.
func (b *Bot) conversation(ctx context.Context, chatID int64) Conversation {
	conv, err := b.states.Get(ctx, chatID)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "fsm")
		logger.Warn().Err(err).Msg("conversation load failed, starting fresh")
		return Conversation{}
	}
	return conv
}

func (b *Bot) transition(ctx context.Context, chatID int64, conv Conversation) {
	metrics.FSMTransitionsTotal.WithLabelValues(string(conv.State)).Inc()
	if err := b.states.Put(ctx, chatID, conv); err != nil {
		logger := log.WithComponentFromContext(ctx, "fsm")
		logger.Error().Err(err).Msg("conversation save failed")
	}
}

func (b *Bot) resetConversation(ctx context.Context, chatID int64) {
	if err := b.states.Delete(ctx, chatID); err != nil {
		logger := log.WithComponentFromContext(ctx, "fsm")
		logger.Error().Err(err).Msg("conversation delete failed")
	}
}

// displayStops returns the cached display stop list.
func (b *Bot) displayStops(ctx context.Context) ([]transit.DisplayStop, error) {
	if stops, ok := b.stopCache.Get(displayStopsCacheKey); ok {
		return stops, nil
	}
	stops, err := b.stops.DisplayStops(ctx)
	if err != nil {
		metrics.RecordStorageError("display_stops")
		return nil, err
	}
	b.stopCache.Set(displayStopsCacheKey, stops, 5*time.Minute)
	return stops, nil
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger := log.WithComponent("telegram")
		logger.Error().Err(err).Str("event", "telegram.send_error").Msg("send failed")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	if chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) editWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

// answer acknowledges a callback query, optionally with a toast.
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logger := log.WithComponent("telegram")
		logger.Warn().Err(err).Str("event", "telegram.answer_error").Msg("callback answer failed")
	}
}

// alert acknowledges a callback query with a popup alert.
func (b *Bot) alert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		logger := log.WithComponent("telegram")
		logger.Warn().Err(err).Str("event", "telegram.alert_error").Msg("callback alert failed")
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.Current().IsAdmin(userID)
}
