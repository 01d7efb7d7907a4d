package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"svitlobot/internal/kv/memory"
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegram_Send(t *testing.T) {
	api := &fakeAPI{}
	tg := NewTelegram(api, NewMutes(memory.New(), "bot1"))

	if err := tg.Send(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.sent) != 1 || api.sent[0].ChatID != 42 || api.sent[0].Text != "hello" {
		t.Fatalf("unexpected sends: %+v", api.sent)
	}
}

func TestTelegram_MutedChatSkippedSilently(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	mutes := NewMutes(memory.New(), "bot1")
	tg := NewTelegram(api, mutes)

	if err := mutes.Mute(ctx, 42); err != nil {
		t.Fatalf("Mute: %v", err)
	}
	if err := tg.Send(ctx, 42, "hello"); err != nil {
		t.Fatalf("muted send should not error: %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatal("muted chat must not receive messages")
	}

	if err := mutes.Unmute(ctx, 42); err != nil {
		t.Fatalf("Unmute: %v", err)
	}
	if err := tg.Send(ctx, 42, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatal("unmuted chat should receive messages again")
	}
}

func TestTelegram_WrapsAPIError(t *testing.T) {
	api := &fakeAPI{err: errors.New("blocked")}
	tg := NewTelegram(api, nil)

	if err := tg.Send(context.Background(), 42, "hello"); err == nil {
		t.Fatal("expected error")
	}
}

type countNotifier struct {
	n   int
	err error
}

func (c *countNotifier) Send(ctx context.Context, chatID int64, text string) error {
	c.n++
	return c.err
}

func TestMulti_FansOutAndAggregates(t *testing.T) {
	a := &countNotifier{}
	b := &countNotifier{err: errors.New("boom")}

	err := Multi{a, nil, b}.Send(context.Background(), 1, "x")
	if a.n != 1 || b.n != 1 {
		t.Fatalf("fan-out wrong: a=%d b=%d", a.n, b.n)
	}
	if err == nil {
		t.Fatal("expected aggregated error")
	}
}
