// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/log"
	"github.com/vpolyany/polyansky-bot/internal/metrics"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil {
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	cd, err := decodeCallback(cb.Data)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "callback")
		logger.Warn().
			Str(log.FieldCallback, cb.Data).
			Msg("undecodable callback data")
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := int64(0)
	if cb.From != nil {
		userID = cb.From.ID
	}

	switch cd.prefix {
	case cbMenu:
		return b.callbackMenu(ctx, cb, cd, chatID, messageID, userID)
	case cbRoute:
		return b.callbackRoute(ctx, cb, cd, chatID, messageID, userID)
	case cbInput:
		return b.callbackInput(ctx, cb, cd, chatID, messageID)
	case cbStop:
		return b.callbackStop(ctx, cb, cd, chatID, messageID)
	case cbTime:
		return b.callbackTime(ctx, cb, cd, chatID, messageID)
	case cbOrg:
		return b.callbackOrg(ctx, cb, cd, chatID, messageID)
	case cbAdmin:
		return b.callbackAdmin(ctx, cb, cd, chatID, messageID, userID)
	case cbNoop:
		if cd.str("a") == "page" {
			b.answer(cb.ID, textPageInfo)
		} else {
			b.answer(cb.ID, "")
		}
		return nil
	}

	b.answer(cb.ID, textStaleKeyboard)
	return nil
}

func (b *Bot) callbackMenu(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int, userID int64) error {
	switch cd.str("a") {
	case "bus":
		conv := b.conversation(ctx, chatID)
		conv.State = StateRouteMenu
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textRouteMenu, routeMenuKeyboard(conv))

	case "home":
		b.resetConversation(ctx, chatID)
		b.editWithKeyboard(chatID, messageID, textMainMenu, mainMenuKeyboard(b.isAdmin(userID)))

	case "cancel":
		b.resetConversation(ctx, chatID)
		b.editWithKeyboard(chatID, messageID, textCanceled, mainMenuKeyboard(b.isAdmin(userID)))

	case "rec":
		recent, err := b.searches.Recent(ctx, userID, 3)
		if err != nil {
			metrics.RecordStorageError("recent_searches")
			return fmt.Errorf("recent searches: %w", err)
		}
		if len(recent) == 0 {
			b.answer(cb.ID, "")
			b.editWithKeyboard(chatID, messageID, textRecentEmpty, mainMenuKeyboard(b.isAdmin(userID)))
			return nil
		}
		b.editWithKeyboard(chatID, messageID, textRecentHeader, recentKeyboard(recent))

	case "rerun":
		i, err := cd.num("i")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		recent, err := b.searches.Recent(ctx, userID, 3)
		if err != nil {
			metrics.RecordStorageError("recent_searches")
			return fmt.Errorf("recent searches: %w", err)
		}
		if i < 0 || i >= len(recent) {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		conv := b.conversation(ctx, chatID)
		conv.Origin = recent[i].Origin
		conv.Destination = recent[i].Destination
		conv.State = StateRouteMenu
		b.transition(ctx, chatID, conv)
		return b.runSearch(ctx, cb, conv, chatID, messageID, userID)

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) callbackRoute(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int, userID int64) error {
	conv := b.conversation(ctx, chatID)

	switch cd.str("a") {
	case "o":
		conv.State = StateOriginMethod
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textOriginMethod, inputMethodKeyboard("o"))

	case "d":
		conv.State = StateDestinationMethod
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textDestMethod, inputMethodKeyboard("d"))

	case "dep":
		b.editWithKeyboard(chatID, messageID, "🕐 Выберите время отправления:", timePresetKeyboard("dep"))

	case "arr":
		b.editWithKeyboard(chatID, messageID, "🕐 Выберите время прибытия:", timePresetKeyboard("arr"))

	case "back":
		conv.State = StateRouteMenu
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textRouteMenu, routeMenuKeyboard(conv))

	case "cancel":
		b.resetConversation(ctx, chatID)
		b.editWithKeyboard(chatID, messageID, textCanceled, mainMenuKeyboard(b.isAdmin(userID)))

	case "go":
		return b.runSearch(ctx, cb, conv, chatID, messageID, userID)

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) callbackInput(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int) error {
	field := cd.str("f")
	if field != "o" && field != "d" {
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}
	conv := b.conversation(ctx, chatID)

	switch cd.str("m") {
	case "loc":
		prompt := textOriginLocation
		if field == "o" {
			conv.State = StateOriginLocation
		} else {
			conv.State = StateDestinationLocation
			prompt = textDestLocation
		}
		b.transition(ctx, chatID, conv)
		b.editText(chatID, messageID, prompt+textSendLocation)

	case "list":
		if field == "o" {
			conv.State = StateOriginList
		} else {
			conv.State = StateDestinationList
		}
		b.transition(ctx, chatID, conv)

		stops, err := b.displayStops(ctx)
		if err != nil {
			return fmt.Errorf("display stops: %w", err)
		}
		b.editWithKeyboard(chatID, messageID,
			fmt.Sprintf("📋 <b>Выберите остановку:</b>\n\nВсего остановок: %d", len(stops)),
			stopPageKeyboard(stops, field, 0),
		)

	case "find":
		prompt := textOriginSearch
		if field == "o" {
			conv.State = StateOriginSearch
		} else {
			conv.State = StateDestinationSearch
			prompt = textDestSearch
		}
		b.transition(ctx, chatID, conv)
		b.editText(chatID, messageID, prompt)

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) callbackStop(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int) error {
	field := cd.str("f")
	if field != "o" && field != "d" {
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	stops, err := b.displayStops(ctx)
	if err != nil {
		return fmt.Errorf("display stops: %w", err)
	}

	// Pagination request.
	if _, ok := cd.args["p"]; ok {
		page, err := cd.num("p")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		b.editWithKeyboard(chatID, messageID,
			fmt.Sprintf("📋 <b>Выберите остановку:</b>\n\nВсего остановок: %d", len(stops)),
			stopPageKeyboard(stops, field, page),
		)
		b.answer(cb.ID, "")
		return nil
	}

	i, err := cd.num("i")
	if err != nil || i < 0 || i >= len(stops) {
		b.alert(cb.ID, textStaleKeyboard)
		return nil
	}

	conv := b.conversation(ctx, chatID)
	if field == "o" {
		conv.Origin = stops[i].Name
	} else {
		conv.Destination = stops[i].Name
	}
	conv.State = StateRouteMenu
	b.transition(ctx, chatID, conv)

	b.editWithKeyboard(chatID, messageID,
		fmt.Sprintf("✅ Выбрана остановка: <b>%s</b>\n\n%s", stops[i].Name, textRouteMenu),
		routeMenuKeyboard(conv),
	)
	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) callbackTime(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int) error {
	field := cd.str("f")
	if field != "dep" && field != "arr" {
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}
	conv := b.conversation(ctx, chatID)

	switch cd.str("p") {
	case "now", "asap":
		// Defaults: depart now, arrive as soon as possible.
		conv.Departure = ""
		conv.Arrival = ""
		conv.State = StateRouteMenu
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textTimeUpdated+"\n\n"+textRouteMenu, routeMenuKeyboard(conv))

	case "custom":
		if field == "dep" {
			conv.State = StateDepartureTime
		} else {
			conv.State = StateArrivalTime
		}
		b.transition(ctx, chatID, conv)
		b.editText(chatID, messageID, textEnterTime)

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) callbackOrg(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int) error {
	switch cd.str("a") {
	case "cats", "cp":
		page := 0
		if cd.str("a") == "cp" {
			var err error
			if page, err = cd.num("p"); err != nil {
				b.answer(cb.ID, textStaleKeyboard)
				return nil
			}
		}
		categories, err := b.orgs.Categories(ctx)
		if err != nil {
			metrics.RecordStorageError("categories")
			return fmt.Errorf("categories: %w", err)
		}
		b.editWithKeyboard(chatID, messageID, textOrgsMenu, categoriesKeyboard(categories, page))

	case "cat":
		id, err := cd.num("id")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		return b.showOrgList(ctx, cb, chatID, messageID, int64(id), 0)

	case "op":
		catID, err := cd.num("c")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		page, err := cd.num("p")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		return b.showOrgList(ctx, cb, chatID, messageID, int64(catID), page)

	case "org":
		id, err := cd.num("id")
		if err != nil {
			b.answer(cb.ID, textStaleKeyboard)
			return nil
		}
		return b.showOrgDetails(ctx, cb, chatID, messageID, int64(id))

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) showOrgList(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, messageID int, categoryID int64, page int) error {
	category, err := b.orgs.CategoryByID(ctx, categoryID)
	if err != nil {
		b.alert(cb.ID, textCategoryNotFound)
		return nil
	}

	total, err := b.orgs.CountByCategory(ctx, categoryID)
	if err != nil {
		metrics.RecordStorageError("count_orgs")
		return fmt.Errorf("count organizations: %w", err)
	}
	totalPages := (total + orgsPerPage - 1) / orgsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	orgs, err := b.orgs.OrgsByCategory(ctx, categoryID, orgsPerPage, page*orgsPerPage)
	if err != nil {
		metrics.RecordStorageError("list_orgs")
		return fmt.Errorf("list organizations: %w", err)
	}

	b.editWithKeyboard(chatID, messageID,
		fmt.Sprintf("🏢 <b>Организации:</b> %s\n\nВыберите организацию:", category.Name),
		orgListKeyboard(orgs, categoryID, page, totalPages),
	)
	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) showOrgDetails(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, messageID int, orgID int64) error {
	org, err := b.orgs.OrgByID(ctx, orgID)
	if err != nil {
		b.alert(cb.ID, textOrgNotFound)
		return nil
	}

	categoryName := strconv.FormatInt(org.CategoryID, 10)
	if category, err := b.orgs.CategoryByID(ctx, org.CategoryID); err == nil {
		categoryName = category.Name
	}

	phone := org.Phone
	if phone == "" {
		phone = "не указан"
	}

	b.editWithKeyboard(chatID, messageID,
		fmt.Sprintf(
			"🏢 <b>%s</b>\n\n📍 <b>Адрес:</b> %s\n📞 <b>Телефон:</b> <code>%s</code>\n🏷️ <b>Категория:</b> %s",
			org.Name, org.Address, phone, categoryName,
		),
		orgDetailsKeyboard(org.CategoryID),
	)
	b.answer(cb.ID, "")
	return nil
}
