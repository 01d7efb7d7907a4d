package subs

import (
	"context"
	"fmt"
	"time"

	"svitlobot/internal/kv"
)

// Repository stores subscriptions in the durable KV under the bot's key
// prefix. It is the only writer of the watermark field.
type Repository struct {
	store kv.Store
	botID string
}

func NewRepository(store kv.Store, botID string) *Repository {
	return &Repository{store: store, botID: botID}
}

func (r *Repository) Save(ctx context.Context, s Subscription) error {
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Key(r.botID, s.ChatID, s.URL), raw, 0)
}

func (r *Repository) Delete(ctx context.Context, chatID int64, url string) error {
	return r.store.Delete(ctx, Key(r.botID, chatID, url))
}

func (r *Repository) Get(ctx context.Context, chatID int64, url string) (*Subscription, error) {
	raw, ok, err := r.store.Get(ctx, Key(r.botID, chatID, url))
	if err != nil || !ok {
		return nil, err
	}
	s, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const listPageSize = 100

// ForEach walks every stored subscription, at most max records, calling
// fn for each. A record that fails to decode is reported through onBad
// and skipped; the walk never aborts because of one bad record.
func (r *Repository) ForEach(ctx context.Context, max int, fn func(Subscription) error, onBad func(key string, err error)) error {
	prefix := KeyPrefix(r.botID)
	cursor := ""
	seen := 0
	for {
		keys, next, complete, err := r.store.List(ctx, prefix, cursor, listPageSize)
		if err != nil {
			return fmt.Errorf("list subscriptions: %w", err)
		}
		for _, key := range keys {
			if seen >= max {
				return nil
			}
			seen++
			raw, ok, err := r.store.Get(ctx, key)
			if err != nil || !ok {
				if onBad != nil && err != nil {
					onBad(key, err)
				}
				continue
			}
			s, err := Decode(raw)
			if err != nil {
				if onBad != nil {
					onBad(key, err)
				}
				continue
			}
			if err := fn(s); err != nil {
				return err
			}
		}
		if complete {
			return nil
		}
		cursor = next
	}
}

// ListByChat returns every subscription one chat holds. Keys nest the
// chat id between the bot prefix and the url hash, so this is a plain
// prefix scan.
func (r *Repository) ListByChat(ctx context.Context, chatID int64) ([]Subscription, error) {
	prefix := fmt.Sprintf("%s%d:", KeyPrefix(r.botID), chatID)
	var out []Subscription
	cursor := ""
	for {
		keys, next, complete, err := r.store.List(ctx, prefix, cursor, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("list chat %d: %w", chatID, err)
		}
		for _, key := range keys {
			raw, ok, err := r.store.Get(ctx, key)
			if err != nil || !ok {
				continue
			}
			s, err := Decode(raw)
			if err != nil {
				continue
			}
			out = append(out, s)
		}
		if complete {
			return out, nil
		}
		cursor = next
	}
}

// AdvanceWatermark persists the updated record after a successful send.
func (r *Repository) AdvanceWatermark(ctx context.Context, s Subscription, eventUTCMillis int64, now time.Time) error {
	s.LastNotifiedUTCMillis = eventUTCMillis
	return r.Save(ctx, s.Touch(now))
}
