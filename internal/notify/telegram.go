package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"svitlobot/internal/kv"
)

// Sender is the slice of the Telegram client the sink needs. The real
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends messages through the bot API. Chats present in the mute
// list are skipped silently: opting out must not look like a delivery
// failure.
type Telegram struct {
	API   Sender
	Mutes *Mutes
}

func NewTelegram(api Sender, mutes *Mutes) *Telegram {
	return &Telegram{API: api, Mutes: mutes}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if t.Mutes != nil {
		muted, err := t.Mutes.IsMuted(ctx, chatID)
		if err == nil && muted {
			return nil
		}
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.API.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

// Mutes is the notification opt-out list, one KV key per muted chat.
type Mutes struct {
	store kv.Store
	botID string
}

func NewMutes(store kv.Store, botID string) *Mutes {
	return &Mutes{store: store, botID: botID}
}

func (m *Mutes) key(chatID int64) string {
	return fmt.Sprintf("mute:%s:%d", m.botID, chatID)
}

func (m *Mutes) Mute(ctx context.Context, chatID int64) error {
	return m.store.Put(ctx, m.key(chatID), "1", 0)
}

func (m *Mutes) Unmute(ctx context.Context, chatID int64) error {
	return m.store.Delete(ctx, m.key(chatID))
}

func (m *Mutes) IsMuted(ctx context.Context, chatID int64) (bool, error) {
	_, ok, err := m.store.Get(ctx, m.key(chatID))
	return ok, err
}
