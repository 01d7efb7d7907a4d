package subs

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Subscription is one subscriber's alert preference for one monitored
// queue page. LastNotifiedUTCMillis is the watermark: the event time of
// the last alert delivered, used for at-most-once delivery.
type Subscription struct {
	ChatID                int64  `json:"chat_id"`
	URL                   string `json:"url"`
	CityName              string `json:"city_name"`
	QueueName             string `json:"queue_name"`
	MinutesBefore         int    `json:"minutes_before"`
	Enabled               bool   `json:"enabled"`
	LastNotifiedUTCMillis int64  `json:"last_notified_utc_millis"`
	UpdatedAtUTCMillis    int64  `json:"updated_at_utc_millis"`
}

// KeyPrefix is the namespace shared by all subscription keys of one bot
// identity.
func KeyPrefix(botID string) string {
	return "sub:" + botID + ":"
}

// Key builds the durable-store key for a subscription. The URL part is a
// fixed-length hash so addresses of arbitrary length stay within key
// size limits.
func Key(botID string, chatID int64, url string) string {
	sum := sha1.Sum([]byte(url))
	return fmt.Sprintf("%s%d:%s", KeyPrefix(botID), chatID, hex.EncodeToString(sum[:8]))
}

const defaultMinutesBefore = 20

// Decode loads a subscription from its stored JSON, defaulting fields a
// record written by an older build may lack. Records missing the
// identifying fields are rejected rather than guessed at.
func Decode(raw string) (Subscription, error) {
	var s Subscription
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Subscription{}, fmt.Errorf("decode subscription: %w", err)
	}
	if s.ChatID == 0 || s.URL == "" {
		return Subscription{}, fmt.Errorf("decode subscription: missing chat id or url")
	}
	if s.MinutesBefore <= 0 {
		s.MinutesBefore = defaultMinutesBefore
	}
	if s.CityName == "" {
		s.CityName = "?"
	}
	if s.QueueName == "" {
		s.QueueName = "?"
	}
	return s, nil
}

// Encode serializes a subscription for storage.
func Encode(s Subscription) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode subscription: %w", err)
	}
	return string(b), nil
}

// Touch stamps the record's update time.
func (s Subscription) Touch(now time.Time) Subscription {
	s.UpdatedAtUTCMillis = now.UnixMilli()
	return s
}
