// Package telegram relays real-time complaint events to linked Telegram chats.
// Users link a chat by sending /link <code> with a code issued by the API;
// the chat then receives the same events as a websocket subscriber.
package telegram

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"grievance/backend/internal/config"
	"grievance/backend/internal/hub"
	"grievance/backend/internal/localization"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const langCallbackPrefix = "set_lang_"

// Store is the persistence the bot needs.
type Store interface {
	LinkStorage
	GetUserByTelegramChat(ctx context.Context, chatID int64) (*models.User, error)
	ListTelegramUsers(ctx context.Context) ([]models.User, error)
	UpdateUserLanguage(ctx context.Context, userID, language string) error
}

// Registrar is the part of the hub the bot registers subscribers with.
type Registrar interface {
	Register(c hub.Client) bool
	Unregister(c hub.Client)
}

// BotService receives Telegram updates and keeps one hub subscriber per linked chat.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Bot       Sender
	Hub       Registrar
	Storage   Store
	Links     LinkParser
	Localizer *localization.Localizer

	mu      sync.Mutex
	clients map[int64]*Client
}

// NewBotService authorizes the bot token.
func NewBotService(token string, h Registrar, s Store, links LinkParser, l *localization.Localizer) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: Authorized on Telegram account %s", bot.Self.UserName)

	svc := newBotService(bot, h, s, links, l)
	svc.BotAPI = bot
	return svc, nil
}

func newBotService(bot Sender, h Registrar, s Store, links LinkParser, l *localization.Localizer) *BotService {
	return &BotService{
		Bot:       bot,
		Hub:       h,
		Storage:   s,
		Links:     links,
		Localizer: l,
		clients:   make(map[int64]*Client),
	}
}

// Run restores the subscribers of linked users and processes updates until ctx is done.
func (s *BotService) Run(ctx context.Context) {
	s.RestoreSubscribers(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		s.BotAPI.StopReceivingUpdates()
	}()

	for update := range updates {
		s.HandleUpdate(ctx, update)
	}
	log.Println("INFO: Telegram bot stopped")
}

// RestoreSubscribers registers a subscriber for every user with a linked chat.
func (s *BotService) RestoreSubscribers(ctx context.Context) {
	users, err := s.Storage.ListTelegramUsers(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to list Telegram users: %v", err)
		return
	}
	for i := range users {
		s.subscribe(&users[i])
	}
	log.Printf("INFO: Restored %d Telegram subscribers", len(users))
}

func (s *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		s.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (s *BotService) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	lang := s.chatLanguage(ctx, msg)

	switch msg.Command() {
	case "start":
		s.reply(msg.Chat.ID, s.Localizer.GetString(lang, "start"))
	case "link":
		user, text := HandleLinkCommand(ctx, msg, s.Storage, s.Links, s.Localizer, lang)
		if user != nil {
			s.subscribe(user)
		}
		s.reply(msg.Chat.ID, text)
	case "language":
		s.handleLanguageCommand(msg.Chat.ID, lang)
	default:
		s.reply(msg.Chat.ID, s.Localizer.GetString(lang, "unknown_command"))
	}
}

// chatLanguage is the linked user's language, or the Telegram client's when unlinked.
func (s *BotService) chatLanguage(ctx context.Context, msg *tgbotapi.Message) string {
	if user, err := s.Storage.GetUserByTelegramChat(ctx, msg.Chat.ID); err == nil && user.Language != "" {
		return user.Language
	}
	if msg.From != nil && msg.From.LanguageCode != "" {
		return msg.From.LanguageCode
	}
	return localization.DefaultLanguage
}

// handleLanguageCommand sends a message with a keyboard to choose a language.
func (s *BotService) handleLanguageCommand(chatID int64, lang string) {
	var row []tgbotapi.InlineKeyboardButton
	for _, code := range s.Localizer.Languages() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strings.ToUpper(code), langCallbackPrefix+code))
	}
	msg := tgbotapi.NewMessage(chatID, s.Localizer.GetString(lang, "choose_language"))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	if _, err := s.Bot.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send language keyboard to %d: %v", chatID, err)
	}
}

func (s *BotService) handleCallbackQuery(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Respond to the callback query to remove the "loading" state
	if _, err := s.Bot.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("WARN: failed to answer callback: %v", err)
	}
	if q.Message == nil || !strings.HasPrefix(q.Data, langCallbackPrefix) {
		return
	}
	s.setLanguage(ctx, q.Message.Chat.ID, strings.TrimPrefix(q.Data, langCallbackPrefix))
}

func (s *BotService) setLanguage(ctx context.Context, chatID int64, lang string) {
	if !s.Localizer.HasLanguage(lang) {
		return
	}

	user, err := s.Storage.GetUserByTelegramChat(ctx, chatID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ERROR: Failed to look up chat %d: %v", chatID, err)
		}
		s.reply(chatID, s.Localizer.GetString(lang, "link_usage"))
		return
	}
	if err := s.Storage.UpdateUserLanguage(ctx, user.ID, lang); err != nil {
		log.Printf("ERROR: Failed to update language of %s: %v", user.ID, err)
		return
	}

	s.mu.Lock()
	if c, ok := s.clients[chatID]; ok {
		c.SetLanguage(lang)
	}
	s.mu.Unlock()

	s.reply(chatID, s.Localizer.GetString(lang, "language_changed"))
}

// subscribe registers user's chat with the hub. Earlier subscribers of the
// same chat or the same user are removed.
func (s *BotService) subscribe(user *models.User) {
	if user.TelegramChatID == nil {
		return
	}
	chatID := *user.TelegramChatID
	c := NewClient(user, s.Bot, s.Localizer, config.SubscriberBuffer)

	var stale []*Client
	s.mu.Lock()
	for id, old := range s.clients {
		if id == chatID || old.UserID == user.ID {
			stale = append(stale, old)
			delete(s.clients, id)
		}
	}
	s.clients[chatID] = c
	s.mu.Unlock()

	for _, old := range stale {
		s.Hub.Unregister(old)
	}
	if !s.Hub.Register(c) {
		log.Printf("WARN: hub stopped, Telegram subscriber %s not registered", user.ID)
		return
	}
	c.Run()
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to reply to chat %d: %v", chatID, err)
	}
}
