package botapi

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"svitlobot/internal/schedule"
	"svitlobot/internal/subs"
)

const (
	msgWelcome = "Hi! I track power-outage schedules.\n" +
		"/queues — list queues on the source site\n" +
		"/subscribe <url> [city] [queue] — get an alert before each change\n" +
		"/status — current schedule for your queues\n" +
		"/unsubscribe — drop all your subscriptions\n" +
		"/mute, /unmute — pause or resume alerts"
	msgCouldNotLoad  = "Couldn't load the schedule right now. Try /status again in a minute."
	msgNoSubs        = "You have no subscriptions yet. Use /subscribe <url> first."
	msgSubscribed    = "Subscribed. I'll ping you %d minutes before each change."
	msgUnsubscribed  = "All your subscriptions are gone."
	msgMuted         = "Alerts paused. /unmute to resume."
	msgUnmuted       = "Alerts resumed."
	msgAdminOnly     = "This command is for the administrator."
	msgAdSet         = "Ad text saved."
	msgAdCleared     = "Ad text removed."
	msgBadSubscribe  = "Usage: /subscribe <url> [city] [queue]"
	msgNoQueuesFound = "No queue links found on the index page."
)

func (s *Server) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	cmd := m.Command()
	args := strings.Fields(m.CommandArguments())
	chatID := m.Chat.ID

	switch cmd {
	case "start", "help":
		s.reply(chatID, msgWelcome)
	case "status":
		s.handleStatus(ctx, chatID)
	case "subscribe":
		s.handleSubscribe(ctx, chatID, args)
	case "unsubscribe":
		s.handleUnsubscribe(ctx, chatID)
	case "queues":
		s.handleQueues(ctx, chatID)
	case "mute":
		if err := s.Mutes.Mute(ctx, chatID); err == nil {
			s.reply(chatID, msgMuted)
		}
	case "unmute":
		if err := s.Mutes.Unmute(ctx, chatID); err == nil {
			s.reply(chatID, msgUnmuted)
		}
	case "setad":
		s.handleSetAd(ctx, chatID, m.CommandArguments())
	case "delad":
		s.handleDelAd(ctx, chatID)
	}
}

func (s *Server) handleStatus(ctx context.Context, chatID int64) {
	list, err := s.Subs.ListByChat(ctx, chatID)
	if err != nil {
		s.Logger.Warn("status_list_error", zap.Int64("chat_id", chatID), zap.Error(err))
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	if len(list) == 0 {
		s.reply(chatID, msgNoSubs)
		return
	}

	clock := schedule.NewLocalClock(s.Cfg.UTCOffsetMinutes, s.now())
	var b strings.Builder
	for _, sub := range list {
		body, err := s.Fetcher.Fetch(ctx, sub.URL)
		if err != nil {
			s.Logger.Warn("status_fetch_failed", zap.String("url", sub.URL), zap.Error(err))
			fmt.Fprintf(&b, "%s, queue %s: %s\n", sub.CityName, sub.QueueName, msgCouldNotLoad)
			continue
		}
		blocks := schedule.NormalizeAll(schedule.ParseBlocks(body, nil))
		st := schedule.ComputeStatus(blocks, clock.LocalMinuteOfDay)
		fmt.Fprintf(&b, "%s, queue %s:\n%s\n", sub.CityName, sub.QueueName, st.StatusLine)
		if st.NextLine != "" {
			fmt.Fprintf(&b, "%s\n", st.NextLine)
		}
	}

	if ad, err := s.Ads.Get(ctx); err == nil && ad != "" {
		fmt.Fprintf(&b, "\n%s", ad)
	}
	s.reply(chatID, strings.TrimRight(b.String(), "\n"))
}

func (s *Server) handleSubscribe(ctx context.Context, chatID int64, args []string) {
	if len(args) < 1 || !strings.Contains(args[0], "://") {
		s.reply(chatID, msgBadSubscribe)
		return
	}
	sub := subs.Subscription{
		ChatID:        chatID,
		URL:           args[0],
		CityName:      "?",
		QueueName:     "?",
		MinutesBefore: s.Cfg.LeadMinutes,
		Enabled:       true,
	}
	if len(args) > 1 {
		sub.CityName = args[1]
	}
	if len(args) > 2 {
		sub.QueueName = args[2]
	}
	if err := s.Subs.Save(ctx, sub.Touch(s.now())); err != nil {
		s.Logger.Warn("subscribe_save_error", zap.Int64("chat_id", chatID), zap.Error(err))
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	s.reply(chatID, fmt.Sprintf(msgSubscribed, sub.MinutesBefore))
}

func (s *Server) handleUnsubscribe(ctx context.Context, chatID int64) {
	list, err := s.Subs.ListByChat(ctx, chatID)
	if err != nil {
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	for _, sub := range list {
		if err := s.Subs.Delete(ctx, chatID, sub.URL); err != nil {
			s.Logger.Warn("unsubscribe_delete_error", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
	s.reply(chatID, msgUnsubscribed)
}

func (s *Server) handleQueues(ctx context.Context, chatID int64) {
	if s.Cfg.IndexURL == "" {
		s.reply(chatID, msgNoQueuesFound)
		return
	}
	body, err := s.Fetcher.Fetch(ctx, s.Cfg.IndexURL)
	if err != nil {
		s.Logger.Warn("queues_fetch_failed", zap.Error(err))
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	links := DiscoverQueues(body, s.Cfg.IndexURL)
	if len(links) == 0 {
		s.reply(chatID, msgNoQueuesFound)
		return
	}

	const maxListed = 30
	var b strings.Builder
	b.WriteString("Queues found:\n")
	for i, l := range links {
		if i >= maxListed {
			fmt.Fprintf(&b, "… and %d more\n", len(links)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%s — %s\n", l.Name, l.URL)
	}
	s.reply(chatID, b.String())
}

func (s *Server) handleSetAd(ctx context.Context, chatID int64, text string) {
	if chatID != s.Cfg.AdminChatID {
		s.reply(chatID, msgAdminOnly)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.reply(chatID, "Usage: /setad <text>")
		return
	}
	if err := s.Ads.Set(ctx, text); err != nil {
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	s.reply(chatID, msgAdSet)
}

func (s *Server) handleDelAd(ctx context.Context, chatID int64) {
	if chatID != s.Cfg.AdminChatID {
		s.reply(chatID, msgAdminOnly)
		return
	}
	if err := s.Ads.Clear(ctx); err != nil {
		s.reply(chatID, msgCouldNotLoad)
		return
	}
	s.reply(chatID, msgAdCleared)
}

func (s *Server) reply(chatID int64, text string) {
	if _, err := s.API.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.Logger.Warn("reply_failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
