// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/directory"
	"github.com/vpolyany/polyansky-bot/internal/metrics"
)

func (b *Bot) callbackAdmin(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData, chatID int64, messageID int, userID int64) error {
	if !b.isAdmin(userID) {
		b.alert(cb.ID, textNoPermission)
		return nil
	}

	conv := b.conversation(ctx, chatID)

	switch cd.str("a") {
	case "cat":
		conv.State = StateAdminAddCategory
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textAddCategory, cancelKeyboard())

	case "org":
		conv.State = StateAdminAddOrg
		b.transition(ctx, chatID, conv)
		b.editWithKeyboard(chatID, messageID, textAddOrg, cancelKeyboard())

	default:
		b.answer(cb.ID, textStaleKeyboard)
		return nil
	}

	b.answer(cb.ID, "")
	return nil
}

func (b *Bot) handleAddCategory(ctx context.Context, msg *tgbotapi.Message, conv Conversation, name string) error {
	chatID := msg.Chat.ID
	userID := int64(0)
	if msg.From != nil {
		userID = msg.From.ID
	}

	if !b.isAdmin(userID) {
		b.sendText(chatID, textNoPermission)
		b.resetConversation(ctx, chatID)
		return nil
	}
	if name == "" {
		b.sendText(chatID, "❌ Название категории не может быть пустым")
		return nil
	}

	if _, err := b.orgs.CategoryByName(ctx, name); err == nil {
		b.sendText(chatID, fmt.Sprintf("❌ Категория '%s' уже существует", name))
		return nil
	} else if !errors.Is(err, directory.ErrNotFound) {
		metrics.RecordStorageError("category_lookup")
		return fmt.Errorf("category lookup: %w", err)
	}

	category, err := b.orgs.CreateCategory(ctx, name)
	if err != nil {
		metrics.RecordStorageError("create_category")
		return fmt.Errorf("create category: %w", err)
	}

	b.resetConversation(ctx, chatID)
	b.sendWithKeyboard(chatID,
		fmt.Sprintf("✅ Категория '%s' (%d) успешно добавлена", category.Name, category.ID),
		mainMenuKeyboard(true),
	)
	return nil
}

// handleAddOrg parses the admin's multi-part input: name, address, optional
// phone and category name, separated by blank lines.
func (b *Bot) handleAddOrg(ctx context.Context, msg *tgbotapi.Message, conv Conversation, text string) error {
	chatID := msg.Chat.ID
	userID := int64(0)
	if msg.From != nil {
		userID = msg.From.ID
	}

	if !b.isAdmin(userID) {
		b.sendText(chatID, textNoPermission)
		b.resetConversation(ctx, chatID)
		return nil
	}

	var parts []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 {
		b.sendText(chatID, textBadOrgFormat)
		return nil
	}

	name := parts[0]
	address := parts[1]
	phone := ""
	categoryName := parts[2]
	if len(parts) >= 4 {
		phone = parts[2]
		categoryName = parts[3]
	}

	category, err := b.orgs.CategoryByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			b.sendText(chatID, fmt.Sprintf("❌ Категория '%s' не найдена", categoryName))
			return nil
		}
		metrics.RecordStorageError("category_lookup")
		return fmt.Errorf("category lookup: %w", err)
	}

	org, err := b.orgs.CreateOrg(ctx, directory.Organization{
		CategoryID: category.ID,
		Name:       name,
		Address:    address,
		Phone:      phone,
	})
	if err != nil {
		metrics.RecordStorageError("create_org")
		return fmt.Errorf("create organization: %w", err)
	}

	phoneText := org.Phone
	if phoneText == "" {
		phoneText = "не указан"
	}
	b.resetConversation(ctx, chatID)
	b.sendWithKeyboard(chatID, fmt.Sprintf(
		"✅ Организация успешно добавлена:\n\n"+
			"<b>Id:</b> %d\n<b>Название:</b> %s\n<b>Адрес:</b> %s\n<b>Телефон:</b> %s\n<b>Категория:</b> %s",
		org.ID, org.Name, org.Address, phoneText, category.Name,
	), mainMenuKeyboard(true))
	return nil
}
