package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	"grievance/backend/internal/localization"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LinkStorage defines the storage methods required by the link handler.
type LinkStorage interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserTelegram(ctx context.Context, userID string, chatID int64) error
}

// LinkParser verifies the codes issued by the auth service.
type LinkParser interface {
	ParseLink(token string) (string, error)
}

// HandleLinkCommand processes /link <code>. On success the chat is stored on
// the account and the linked user is returned; the reply text is returned in
// every case.
func HandleLinkCommand(ctx context.Context, msg *tgbotapi.Message, s LinkStorage, links LinkParser, l *localization.Localizer, lang string) (*models.User, string) {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		return nil, l.GetString(lang, "link_usage")
	}

	userID, err := links.ParseLink(code)
	if err != nil {
		return nil, l.GetString(lang, "link_invalid")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		log.Printf("WARN: link code for unknown user %s: %v", userID, err)
		return nil, l.GetString(lang, "link_invalid")
	}

	chatID := msg.Chat.ID
	if err := s.UpdateUserTelegram(ctx, user.ID, chatID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, l.GetString(user.Language, "link_taken")
		}
		log.Printf("ERROR: Failed to link chat %d to user %s: %v", chatID, user.ID, err)
		return nil, l.GetString(user.Language, "link_invalid")
	}
	user.TelegramChatID = &chatID

	return user, l.Render(user.Language, "link_success", map[string]string{"name": user.Name})
}
