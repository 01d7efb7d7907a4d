package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"svitlobot/internal/fetch"
	"svitlobot/internal/notify"
	"svitlobot/internal/schedule"
	"svitlobot/internal/subs"
)

// Config tunes the dispatcher. Zero values fall back to the deployment
// defaults.
type Config struct {
	UTCOffsetMinutes int           // local timeline shift, e.g. 120
	WindowMinutes    int           // firing window width
	PollInterval     time.Duration // cron cadence
	MaxPerCycle      int           // safety cap on records per invocation
}

func (c Config) withDefaults() Config {
	if c.WindowMinutes <= 0 {
		c.WindowMinutes = 6
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Minute
	}
	if c.MaxPerCycle <= 0 {
		c.MaxPerCycle = 500
	}
	return c
}

// Decision is the outcome of evaluating one subscription in one cycle.
type Decision struct {
	Send           bool
	Reason         string // skip reason when Send is false
	EventUTCMillis int64
	Message        string
}

// Evaluate runs the per-cycle decision logic for one subscription.
// It is pure: same inputs, same decision. The order of the guards
// matters — the watermark check comes before the window check, so an
// already-handled event is skipped no matter what the clock says.
func Evaluate(sub subs.Subscription, clock schedule.LocalClock, blocks []schedule.Block, windowMinutes int) Decision {
	if !sub.Enabled {
		return Decision{Reason: "disabled"}
	}
	if len(blocks) == 0 {
		return Decision{Reason: "no_blocks"}
	}

	st := schedule.ComputeStatus(blocks, clock.LocalMinuteOfDay)
	if !st.HasNext {
		return Decision{Reason: "no_next_change"}
	}

	event := clock.AbsoluteUTCMillis(st.NextChangeMinute)
	alert := event - int64(sub.MinutesBefore)*60_000

	if sub.LastNotifiedUTCMillis >= event {
		return Decision{Reason: "already_notified", EventUTCMillis: event}
	}

	now := clock.NowUTCMillis
	windowEnd := alert + int64(windowMinutes)*60_000
	if now < alert || now >= windowEnd {
		return Decision{Reason: "outside_window", EventUTCMillis: event}
	}

	return Decision{
		Send:           true,
		EventUTCMillis: event,
		Message:        alertMessage(sub, st, int((event-now)/60_000)),
	}
}

func alertMessage(sub subs.Subscription, st schedule.Status, minutesLeft int) string {
	var what string
	switch st.NextChangeType {
	case schedule.StateOn:
		what = "power comes back on"
	case schedule.StateOff:
		what = "power goes off"
	default:
		what = "the power state changes"
	}
	return fmt.Sprintf("⚡ %s, queue %s: %s in %s (at %02d:%02d).",
		sub.CityName, sub.QueueName, what,
		schedule.FormatDelta(minutesLeft),
		st.NextChangeMinute/60%24, st.NextChangeMinute%60)
}

// Dispatcher re-derives every subscription's schedule once per tick and
// delivers at most one alert per upcoming event.
type Dispatcher struct {
	Logger   *zap.Logger
	Subs     *subs.Repository
	Fetcher  fetch.Fetcher
	Notifier notify.Notifier
	Classify schedule.Classifier
	Cfg      Config

	now func() time.Time
}

func New(logger *zap.Logger, repo *subs.Repository, f fetch.Fetcher, n notify.Notifier, cfg Config) *Dispatcher {
	return &Dispatcher{
		Logger:   logger,
		Subs:     repo,
		Fetcher:  f,
		Notifier: n,
		Cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// Run does an immediate pass, then one per tick until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	t := time.NewTicker(d.Cfg.PollInterval)
	defer t.Stop()

	d.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			d.Logger.Info("dispatcher_stopped")
			return
		case <-t.C:
			d.RunOnce(ctx)
		}
	}
}

// RunOnce processes every subscription sequentially. A failure on one
// record is logged and skipped; it never aborts the batch.
func (d *Dispatcher) RunOnce(ctx context.Context) {
	defer cyclesTotal.Inc()

	clock := schedule.NewLocalClock(d.Cfg.UTCOffsetMinutes, d.now())

	err := d.Subs.ForEach(ctx, d.Cfg.MaxPerCycle, func(sub subs.Subscription) error {
		processedTotal.Inc()
		d.process(ctx, sub, clock)
		return nil
	}, func(key string, err error) {
		failedTotal.WithLabelValues("record").Inc()
		d.Logger.Warn("dispatch_bad_record", zap.String("key", key), zap.Error(err))
	})
	if err != nil {
		failedTotal.WithLabelValues("list").Inc()
		d.Logger.Warn("dispatch_list_error", zap.Error(err))
	}
}

func (d *Dispatcher) process(ctx context.Context, sub subs.Subscription, clock schedule.LocalClock) {
	var blocks []schedule.Block
	if sub.Enabled {
		body, err := d.Fetcher.Fetch(ctx, sub.URL)
		if err != nil {
			// no data is a valid, skippable outcome for this cycle
			failedTotal.WithLabelValues("fetch").Inc()
			d.Logger.Warn("dispatch_fetch_failed",
				zap.Int64("chat_id", sub.ChatID),
				zap.String("url", sub.URL),
				zap.Error(err),
			)
			return
		}
		blocks = schedule.NormalizeAll(schedule.ParseBlocks(body, d.Classify))
	}

	dec := Evaluate(sub, clock, blocks, d.Cfg.WindowMinutes)
	if !dec.Send {
		skippedTotal.WithLabelValues(dec.Reason).Inc()
		d.Logger.Debug("dispatch_skip",
			zap.Int64("chat_id", sub.ChatID),
			zap.String("reason", dec.Reason),
		)
		return
	}

	if err := d.Notifier.Send(ctx, sub.ChatID, dec.Message); err != nil {
		failedTotal.WithLabelValues("send").Inc()
		d.Logger.Warn("dispatch_send_failed", zap.Int64("chat_id", sub.ChatID), zap.Error(err))
		return
	}

	// persist the watermark right after the send; a crash in between
	// means at most one duplicate on the next cycle
	if err := d.Subs.AdvanceWatermark(ctx, sub, dec.EventUTCMillis, d.now()); err != nil {
		failedTotal.WithLabelValues("persist").Inc()
		d.Logger.Error("dispatch_watermark_error", zap.Int64("chat_id", sub.ChatID), zap.Error(err))
		return
	}

	sentTotal.Inc()
	d.Logger.Info("dispatch_sent",
		zap.Int64("chat_id", sub.ChatID),
		zap.String("queue", sub.QueueName),
		zap.Int64("event_utc_millis", dec.EventUTCMillis),
	)
}
