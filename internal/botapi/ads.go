package botapi

import (
	"context"

	"svitlobot/internal/kv"
)

// Ads manages the single admin-set promo text appended to status
// replies.
type Ads struct {
	store kv.Store
	botID string
}

func NewAds(store kv.Store, botID string) *Ads {
	return &Ads{store: store, botID: botID}
}

func (a *Ads) key() string { return "ad:" + a.botID }

func (a *Ads) Set(ctx context.Context, text string) error {
	return a.store.Put(ctx, a.key(), text, 0)
}

func (a *Ads) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.key())
}

// Get returns "" when no ad is configured.
func (a *Ads) Get(ctx context.Context) (string, error) {
	text, ok, err := a.store.Get(ctx, a.key())
	if err != nil || !ok {
		return "", err
	}
	return text, nil
}
