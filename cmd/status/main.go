package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"svitlobot/internal/config"
	"svitlobot/internal/fetch"
	"svitlobot/internal/schedule"
)

// Dev helper: fetch a schedule page and print what the bot would say.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: status <schedule-url>")
		os.Exit(2)
	}
	url := os.Args[1]
	cfg := config.FromEnv()

	fetcher := &fetch.RetryFetcher{
		Inner:    fetch.NewHTTPFetcher(cfg.HTTPTimeout),
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch failed:", err)
		os.Exit(1)
	}

	blocks := schedule.NormalizeAll(schedule.ParseBlocks(body, nil))
	clock := schedule.NewLocalClock(cfg.UTCOffsetMinutes, time.Now())
	st := schedule.ComputeStatus(blocks, clock.LocalMinuteOfDay)

	fmt.Printf("blocks parsed: %d\n", len(blocks))
	for _, b := range blocks {
		fmt.Printf("  %s–%s  %s\n", b.Start, b.End, b.State)
	}
	fmt.Println(st.StatusLine)
	if st.NextLine != "" {
		fmt.Println(st.NextLine)
	}
}
