// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/transit"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		return b.handleCommand(ctx, msg)
	}

	conv := b.conversation(ctx, chatID)

	if msg.Location != nil {
		return b.handleLocation(ctx, msg, conv)
	}

	if msg.Text != "" {
		return b.handleText(ctx, msg, conv)
	}

	b.sendText(chatID, textUnknownInput)
	return nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.resetConversation(ctx, chatID)
		name := "пользователь"
		if msg.From != nil && msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
		userID := int64(0)
		if msg.From != nil {
			userID = msg.From.ID
		}
		b.sendWithKeyboard(chatID, fmt.Sprintf(welcomeTemplate, name), mainMenuKeyboard(b.isAdmin(userID)))
	case "help":
		b.sendText(chatID, textHelp)
	case "cancel":
		b.resetConversation(ctx, chatID)
		userID := int64(0)
		if msg.From != nil {
			userID = msg.From.ID
		}
		b.sendWithKeyboard(chatID, textCanceled, mainMenuKeyboard(b.isAdmin(userID)))
	default:
		b.sendText(chatID, textUnknownInput)
	}
	return nil
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message, conv Conversation) error {
	chatID := msg.Chat.ID

	var field string
	switch conv.State {
	case StateOriginLocation:
		field = "o"
	case StateDestinationLocation:
		field = "d"
	default:
		b.sendText(chatID, textUnknownInput)
		return nil
	}

	nearest, err := b.stops.Nearest(ctx, msg.Location.Latitude, msg.Location.Longitude, 1)
	if err != nil {
		return fmt.Errorf("nearest stops: %w", err)
	}
	if len(nearest) == 0 {
		b.sendText(chatID, textNoNearbyStops)
		return nil
	}

	chosen := nearest[0]
	if field == "o" {
		conv.Origin = chosen.Stop.Name
	} else {
		conv.Destination = chosen.Stop.Name
	}
	conv.State = StateRouteMenu
	b.transition(ctx, chatID, conv)

	b.sendText(chatID, fmt.Sprintf(
		"✅ Выбрана остановка: <b>%s</b>\n📏 Расстояние: %.2f км",
		chosen.Stop.Name, chosen.Distance,
	))
	b.sendWithKeyboard(chatID, textRouteMenu, routeMenuKeyboard(conv))
	return nil
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, conv Conversation) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch conv.State {
	case StateOriginSearch, StateDestinationSearch:
		return b.handleStopSearch(ctx, msg, conv, text)

	case StateDepartureTime, StateArrivalTime:
		return b.handleCustomTime(ctx, msg, conv, text)

	case StateAdminAddCategory:
		return b.handleAddCategory(ctx, msg, conv, text)

	case StateAdminAddOrg:
		return b.handleAddOrg(ctx, msg, conv, text)
	}

	b.sendText(chatID, textUnknownInput)
	return nil
}

func (b *Bot) handleStopSearch(ctx context.Context, msg *tgbotapi.Message, conv Conversation, query string) error {
	chatID := msg.Chat.ID

	field := "o"
	if conv.State == StateDestinationSearch {
		field = "d"
	}

	stops, err := b.displayStops(ctx)
	if err != nil {
		return fmt.Errorf("display stops: %w", err)
	}

	matches := transit.SearchStops(query, stops, stopsPerPage)
	if len(matches) == 0 {
		b.sendText(chatID, fmt.Sprintf(
			"❌ Не найдено остановок по запросу '<b>%s</b>'\n\nПопробуйте другой запрос или выберите другой способ.",
			query,
		))
		return nil
	}

	// Map matches back to indexes in the cached list so callbacks stay
	// compact.
	byName := make(map[string]int, len(stops))
	for i, ds := range stops {
		byName[ds.Name] = i
	}
	indices := make([]int, 0, len(matches))
	for _, m := range matches {
		if i, ok := byName[m.Name]; ok {
			indices = append(indices, i)
		}
	}

	b.sendWithKeyboard(chatID,
		fmt.Sprintf("🔍 Результаты поиска по запросу '<b>%s</b>':", query),
		stopChoiceKeyboard(stops, indices, field),
	)
	return nil
}

func (b *Bot) handleCustomTime(ctx context.Context, msg *tgbotapi.Message, conv Conversation, text string) error {
	chatID := msg.Chat.ID

	dt, err := transit.ParseDayTime(text)
	if err != nil {
		b.sendText(chatID, textBadTime)
		return nil
	}

	if conv.State == StateDepartureTime {
		conv.Departure = dt.String()
		conv.Arrival = ""
	} else {
		conv.Arrival = dt.String()
		conv.Departure = ""
	}
	conv.State = StateRouteMenu
	b.transition(ctx, chatID, conv)

	b.sendText(chatID, fmt.Sprintf("✅ Время установлено: <b>%s</b>", dt))
	b.sendWithKeyboard(chatID, textRouteMenu, routeMenuKeyboard(conv))
	return nil
}
