package subs

import (
	"context"
	"strings"
	"testing"
	"time"

	"svitlobot/internal/kv/memory"
)

func TestKey_FixedLengthSuffix(t *testing.T) {
	short := Key("bot1", 42, "https://x.ua/q/1")
	long := Key("bot1", 42, "https://x.ua/"+strings.Repeat("verylongpath/", 50))

	if !strings.HasPrefix(short, "sub:bot1:42:") {
		t.Fatalf("unexpected key %q", short)
	}
	if len(short) != len(long) {
		t.Fatalf("suffix not fixed length: %d vs %d", len(short), len(long))
	}
	if short == long {
		t.Fatal("different urls must map to different keys")
	}
}

func TestDecode_DefaultsMissingFields(t *testing.T) {
	s, err := Decode(`{"chat_id": 7, "url": "https://x.ua/q/1"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.MinutesBefore != 20 {
		t.Fatalf("MinutesBefore default: %d", s.MinutesBefore)
	}
	if s.CityName != "?" || s.QueueName != "?" {
		t.Fatalf("label defaults: %+v", s)
	}
}

func TestDecode_RejectsMissingIdentity(t *testing.T) {
	for _, raw := range []string{`{}`, `{"chat_id":1}`, `{"url":"x"}`, `not json`} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestRepository_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.New(), "bot1")

	sub := Subscription{
		ChatID:        7,
		URL:           "https://x.ua/q/1",
		CityName:      "Kherson",
		QueueName:     "3.1",
		MinutesBefore: 20,
		Enabled:       true,
	}
	if err := repo.Save(ctx, sub); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, 7, "https://x.ua/q/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.QueueName != "3.1" || !got.Enabled {
		t.Fatalf("round trip: %+v", got)
	}

	if err := repo.Delete(ctx, 7, "https://x.ua/q/1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(ctx, 7, "https://x.ua/q/1"); got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestRepository_ForEachSkipsBadRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewRepository(store, "bot1")

	good := Subscription{ChatID: 1, URL: "https://x.ua/a", Enabled: true, MinutesBefore: 20}
	if err := repo.Save(ctx, good); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// a corrupt record under the same prefix
	if err := store.Put(ctx, KeyPrefix("bot1")+"2:deadbeef", "{broken", 0); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var seen []int64
	var bad int
	err := repo.ForEach(ctx, 100, func(s Subscription) error {
		seen = append(seen, s.ChatID)
		return nil
	}, func(key string, err error) { bad++ })
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("seen=%v", seen)
	}
	if bad != 1 {
		t.Fatalf("bad=%d, want 1", bad)
	}
}

func TestRepository_ForEachHonorsCap(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.New(), "bot1")
	for i := int64(1); i <= 5; i++ {
		if err := repo.Save(ctx, Subscription{ChatID: i, URL: "https://x.ua/a", Enabled: true, MinutesBefore: 20}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	count := 0
	if err := repo.ForEach(ctx, 3, func(Subscription) error { count++; return nil }, nil); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if count != 3 {
		t.Fatalf("cap ignored: %d", count)
	}
}

func TestRepository_ListByChat(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.New(), "bot1")

	for _, s := range []Subscription{
		{ChatID: 7, URL: "https://x.ua/a", Enabled: true, MinutesBefore: 20},
		{ChatID: 7, URL: "https://x.ua/b", Enabled: true, MinutesBefore: 20},
		{ChatID: 8, URL: "https://x.ua/a", Enabled: true, MinutesBefore: 20},
	} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.ListByChat(ctx, 7)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 subscriptions for chat 7, got %d", len(got))
	}
	for _, s := range got {
		if s.ChatID != 7 {
			t.Fatalf("foreign subscription leaked: %+v", s)
		}
	}
}

func TestRepository_AdvanceWatermark(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.New(), "bot1")

	sub := Subscription{ChatID: 7, URL: "https://x.ua/q/1", Enabled: true, MinutesBefore: 20}
	if err := repo.Save(ctx, sub); err != nil {
		t.Fatalf("Save: %v", err)
	}

	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	if err := repo.AdvanceWatermark(ctx, sub, 1762776000000, now); err != nil {
		t.Fatalf("AdvanceWatermark: %v", err)
	}

	got, err := repo.Get(ctx, 7, "https://x.ua/q/1")
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.LastNotifiedUTCMillis != 1762776000000 {
		t.Fatalf("watermark not advanced: %d", got.LastNotifiedUTCMillis)
	}
	if got.UpdatedAtUTCMillis != now.UnixMilli() {
		t.Fatalf("updated_at not stamped: %d", got.UpdatedAtUTCMillis)
	}
}
