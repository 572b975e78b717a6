package telegram

import (
	"context"
	"sync"

	"grievance/backend/internal/hub"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sent struct {
	ChatID int64
	Text   string
	Markup any
}

// fakeSender records outgoing messages instead of calling the Bot API.
type fakeSender struct {
	mu       sync.Mutex
	messages []sent
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, sent{ChatID: m.ChatID, Text: m.Text, Markup: m.ReplyMarkup})
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) Sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.messages...)
}

func (f *fakeSender) Last() sent {
	all := f.Sent()
	if len(all) == 0 {
		return sent{}
	}
	return all[len(all)-1]
}

// memStore is an in-memory Store. Only one user may own a chat.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemStore(users ...models.User) *memStore {
	s := &memStore{users: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
	}
	return s
}

func (s *memStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) UpdateUserTelegram(ctx context.Context, userID string, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if id != userID && u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			return storage.ErrDuplicate
		}
	}
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.TelegramChatID = &chatID
	return nil
}

func (s *memStore) GetUserByTelegramChat(ctx context.Context, chatID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) ListTelegramUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.TelegramChatID != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memStore) UpdateUserLanguage(ctx context.Context, userID, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.Language = language
	return nil
}

// fakeRegistrar stands in for the hub.
type fakeRegistrar struct {
	mu           sync.Mutex
	refuse       bool
	registered   []hub.Client
	unregistered []hub.Client
}

func (r *fakeRegistrar) Register(c hub.Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refuse {
		return false
	}
	r.registered = append(r.registered, c)
	return true
}

func (r *fakeRegistrar) Unregister(c hub.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregistered = append(r.unregistered, c)
	c.Close()
}

func (r *fakeRegistrar) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registered), len(r.unregistered)
}
