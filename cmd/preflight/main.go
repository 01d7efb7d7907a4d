package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Checks the deployment environment before the bot starts for real.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	admin := strings.TrimSpace(os.Getenv("ADMIN_CHAT_ID"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	offset := strings.TrimSpace(os.Getenv("UTC_OFFSET_MINUTES"))
	index := strings.TrimSpace(os.Getenv("INDEX_URL"))

	if token == "" {
		fail("TELEGRAM_BOT_TOKEN is empty (the bot cannot start).")
	}
	if !strings.Contains(token, ":") {
		fail("TELEGRAM_BOT_TOKEN looks malformed; expected <id>:<secret>.")
	}
	ok("TELEGRAM_BOT_TOKEN present")

	if admin == "" {
		warn("ADMIN_CHAT_ID empty — admin commands will be refused for everyone.")
	} else if _, err := strconv.ParseInt(admin, 10, 64); err != nil {
		fail("ADMIN_CHAT_ID is not a number: " + admin)
	} else {
		ok("ADMIN_CHAT_ID=" + admin)
	}

	if offset != "" {
		if _, err := strconv.Atoi(offset); err != nil {
			fail("UTC_OFFSET_MINUTES is not a number: " + offset)
		}
		ok("UTC_OFFSET_MINUTES=" + offset)
	}

	if db == "" {
		warn("DATABASE_URL empty — subscriptions will live in memory and vanish on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if index == "" {
		warn("INDEX_URL empty — /queues discovery will be disabled.")
	} else {
		ok("INDEX_URL=" + index)
	}

	ok("preflight passed")
}
