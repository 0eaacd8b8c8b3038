// SPDX-License-Identifier: MIT

package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/directory"
	"github.com/vpolyany/polyansky-bot/internal/storage/sqlite"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

const (
	stopsPerPage      = 5
	categoriesPerPage = 6
	orgsPerPage       = 6
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{btn("🚌 Автобусы", encodeCallback(cbMenu, "a", "bus"))},
		{btn("🏢 Организации", encodeCallback(cbOrg, "a", "cats"))},
		{btn("🕘 Последние поиски", encodeCallback(cbMenu, "a", "rec"))},
	}
	if isAdmin {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			btn("➕ Категория", encodeCallback(cbAdmin, "a", "cat")),
			btn("➕ Организация", encodeCallback(cbAdmin, "a", "org")),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func routeMenuKeyboard(conv Conversation) tgbotapi.InlineKeyboardMarkup {
	origin := conv.Origin
	if origin == "" {
		origin = "Не указано"
	}
	destination := conv.Destination
	if destination == "" {
		destination = "Не указано"
	}
	departure := conv.Departure
	if departure == "" {
		departure = "Сейчас"
	}
	arrival := conv.Arrival
	if arrival == "" {
		arrival = "Как можно скорее"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("📍 Откуда: "+origin, encodeCallback(cbRoute, "a", "o")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("📍 Куда: "+destination, encodeCallback(cbRoute, "a", "d")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("🕐 Отправление: "+departure, encodeCallback(cbRoute, "a", "dep")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("🕐 Прибытие: "+arrival, encodeCallback(cbRoute, "a", "arr")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("❌ Отмена", encodeCallback(cbRoute, "a", "cancel")),
			btn("✅ Подтвердить", encodeCallback(cbRoute, "a", "go")),
		),
	)
}

// field is "o" for origin or "d" for destination.
func inputMethodKeyboard(field string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("📍 Указать на карте", encodeCallback(cbInput, "f", field, "m", "loc")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("📋 Выбрать из списка", encodeCallback(cbInput, "f", field, "m", "list")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("🔍 Найти по названию", encodeCallback(cbInput, "f", field, "m", "find")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("« Назад", encodeCallback(cbRoute, "a", "back")),
		),
	)
}

// stopPageKeyboard renders one page of the display stop list. Buttons carry
// indexes into the full cached list so names never hit the 64-byte callback
// limit.
func stopPageKeyboard(stops []transit.DisplayStop, field string, page int) tgbotapi.InlineKeyboardMarkup {
	totalPages := (len(stops) + stopsPerPage - 1) / stopsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * stopsPerPage
	end := start + stopsPerPage
	if end > len(stops) {
		end = len(stops)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := start; i < end; i++ {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			btn(stops[i].Name, encodeCallback(cbStop, "f", field, "i", strconv.Itoa(i))),
		})
	}

	back := btn("✖️ Назад", encodeCallback(cbNoop))
	if page > 0 {
		back = btn("◀️ Назад", encodeCallback(cbStop, "f", field, "p", strconv.Itoa(page-1)))
	}
	forward := btn("Вперёд ✖️", encodeCallback(cbNoop))
	if page < totalPages-1 {
		forward = btn("Вперёд ▶️", encodeCallback(cbStop, "f", field, "p", strconv.Itoa(page+1)))
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		back,
		btn(fmt.Sprintf("%d/%d", page+1, totalPages), encodeCallback(cbNoop, "a", "page")),
		forward,
	})
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		btn("« Назад", encodeCallback(cbRoute, "a", "back")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// stopChoiceKeyboard renders fuzzy search results or nearest stops. indices
// point into the full cached display list.
func stopChoiceKeyboard(stops []transit.DisplayStop, indices []int, field string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for n, i := range indices {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			btn(stops[i].Name, encodeCallback(cbStop, "f", field, "i", strconv.Itoa(i))),
		})
		if n >= stopsPerPage-1 {
			break
		}
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		btn("« Назад", encodeCallback(cbRoute, "a", "back")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// field is "dep" or "arr".
func timePresetKeyboard(field string) tgbotapi.InlineKeyboardMarkup {
	var preset tgbotapi.InlineKeyboardButton
	if field == "dep" {
		preset = btn("🕐 Сейчас", encodeCallback(cbTime, "f", field, "p", "now"))
	} else {
		preset = btn("⚡ Как можно скорее", encodeCallback(cbTime, "f", field, "p", "asap"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(preset),
		tgbotapi.NewInlineKeyboardRow(
			btn("⌨️ Указать время", encodeCallback(cbTime, "f", field, "p", "custom")),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("« Назад", encodeCallback(cbRoute, "a", "back")),
		),
	)
}

func journeysKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("🔁 Новый поиск", encodeCallback(cbMenu, "a", "bus")),
			btn("🏠 Главное меню", encodeCallback(cbMenu, "a", "home")),
		),
	)
}

func categoriesKeyboard(categories []directory.Category, page int) tgbotapi.InlineKeyboardMarkup {
	totalPages := (len(categories) + categoriesPerPage - 1) / categoriesPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * categoriesPerPage
	end := start + categoriesPerPage
	if end > len(categories) {
		end = len(categories)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range categories[start:end] {
		row = append(row, btn(c.Name, encodeCallback(cbOrg, "a", "cat", "id", strconv.FormatInt(c.ID, 10))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if totalPages > 1 {
		back := btn("✖️", encodeCallback(cbNoop))
		if page > 0 {
			back = btn("◀️", encodeCallback(cbOrg, "a", "cp", "p", strconv.Itoa(page-1)))
		}
		forward := btn("✖️", encodeCallback(cbNoop))
		if page < totalPages-1 {
			forward = btn("▶️", encodeCallback(cbOrg, "a", "cp", "p", strconv.Itoa(page+1)))
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			back,
			btn(fmt.Sprintf("%d/%d", page+1, totalPages), encodeCallback(cbNoop, "a", "page")),
			forward,
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		btn("🏠 Главное меню", encodeCallback(cbMenu, "a", "home")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func orgListKeyboard(orgs []directory.Organization, categoryID int64, page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orgs {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			btn(o.Name, encodeCallback(cbOrg, "a", "org", "id", strconv.FormatInt(o.ID, 10))),
		})
	}

	if totalPages > 1 {
		cat := strconv.FormatInt(categoryID, 10)
		back := btn("✖️", encodeCallback(cbNoop))
		if page > 0 {
			back = btn("◀️", encodeCallback(cbOrg, "a", "op", "c", cat, "p", strconv.Itoa(page-1)))
		}
		forward := btn("✖️", encodeCallback(cbNoop))
		if page < totalPages-1 {
			forward = btn("▶️", encodeCallback(cbOrg, "a", "op", "c", cat, "p", strconv.Itoa(page+1)))
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			back,
			btn(fmt.Sprintf("%d/%d", page+1, totalPages), encodeCallback(cbNoop, "a", "page")),
			forward,
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		btn("« К категориям", encodeCallback(cbOrg, "a", "cats")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func orgDetailsKeyboard(categoryID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("« Назад", encodeCallback(cbOrg, "a", "cat", "id", strconv.FormatInt(categoryID, 10))),
			btn("🏠 Главное меню", encodeCallback(cbMenu, "a", "home")),
		),
	)
}

func recentKeyboard(recent []sqlite.RecentSearch) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, rs := range recent {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			btn(rs.Origin+" → "+rs.Destination, encodeCallback(cbMenu, "a", "rerun", "i", strconv.Itoa(i))),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		btn("🏠 Главное меню", encodeCallback(cbMenu, "a", "home")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("❌ Отмена", encodeCallback(cbMenu, "a", "cancel")),
		),
	)
}
