package telegram

import (
	"log"
	"sync"

	"grievance/backend/internal/localization"
	"grievance/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used to talk to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client implements hub.Client for a linked Telegram chat.
type Client struct {
	UserID       string
	Role         models.Role
	DepartmentID string
	ChatID       int64
	Send         chan models.Envelope
	Bot          Sender
	Localizer    *localization.Localizer

	mu        sync.RWMutex
	language  string
	closeOnce sync.Once
}

// NewClient creates the subscriber of a linked user.
func NewClient(user *models.User, bot Sender, l *localization.Localizer, buffer int) *Client {
	c := &Client{
		UserID:    user.ID,
		Role:      user.Role,
		Send:      make(chan models.Envelope, buffer),
		Bot:       bot,
		Localizer: l,
		language:  user.Language,
	}
	if user.TelegramChatID != nil {
		c.ChatID = *user.TelegramChatID
	}
	if user.Role == models.RoleOfficer && user.DepartmentID != nil {
		c.DepartmentID = *user.DepartmentID
	}
	return c
}

func (c *Client) GetUserID() string                      { return c.UserID }
func (c *Client) GetRole() models.Role                   { return c.Role }
func (c *Client) GetDepartmentID() string                { return c.DepartmentID }
func (c *Client) GetSendChannel() chan<- models.Envelope { return c.Send }

// Run starts the write pump. Updates from the chat are read centrally by BotService.
func (c *Client) Run() {
	go c.writePump()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *Client) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

func (c *Client) SetLanguage(lang string) {
	c.mu.Lock()
	c.language = lang
	c.mu.Unlock()
}

// writePump renders each envelope and sends it to the chat.
func (c *Client) writePump() {
	defer log.Printf("INFO: Telegram subscriber %s (chat %d) stopped", c.UserID, c.ChatID)

	for env := range c.Send {
		text, ok := Render(c.Localizer, c.Language(), env)
		if !ok {
			continue
		}
		if _, err := c.Bot.Send(tgbotapi.NewMessage(c.ChatID, text)); err != nil {
			log.Printf("ERROR: Failed to send %s to chat %d: %v", env.Event, c.ChatID, err)
		}
	}
}
