package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string        // webhook bind address
	LogDir           string        // logs directory
	DatabaseURL      string        // postgres DSN; empty means in-memory store
	BotToken         string        // Telegram bot token
	BotID            string        // stable identity used in KV key prefixes
	AdminChatID      int64         // the single admin identity
	AdminAPIKeys     []string      // keys for the ops endpoints (/metrics)
	IndexURL         string        // source site's city/queue index page
	UTCOffsetMinutes int           // local timeline shift
	LeadMinutes      int           // default alert lead time
	WindowMinutes    int           // firing window width
	RetryAttempts    int           // schedule fetch retries
	RetryDelay       time.Duration // delay between fetch retries
	HTTPTimeout      time.Duration // per-fetch timeout
	PollInterval     time.Duration // dispatcher cadence
	MaxPerCycle      int           // subscriptions processed per cycle
}

// FromEnv reads configuration from the environment, loading a local
// .env first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")

	botID := os.Getenv("BOT_ID")
	if botID == "" && token != "" {
		// the numeric part of the token is the bot's stable identity
		if id, _, ok := strings.Cut(token, ":"); ok {
			botID = id
		}
	}
	if botID == "" {
		botID = "svitlobot"
	}

	return Config{
		Addr:             addr,
		LogDir:           logDir,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		BotToken:         token,
		BotID:            botID,
		AdminChatID:      intEnv64("ADMIN_CHAT_ID", 0),
		AdminAPIKeys:     splitCSV(os.Getenv("ADMIN_API_KEYS")),
		IndexURL:         os.Getenv("INDEX_URL"),
		UTCOffsetMinutes: intEnv("UTC_OFFSET_MINUTES", 120),
		LeadMinutes:      intEnv("LEAD_MINUTES", 20),
		WindowMinutes:    intEnv("WINDOW_MINUTES", 6),
		RetryAttempts:    intEnv("RETRY_ATTEMPTS", 3),
		RetryDelay:       msEnv("RETRY_DELAY_MS", 600*time.Millisecond),
		HTTPTimeout:      msEnv("HTTP_TIMEOUT_MS", 15*time.Second),
		PollInterval:     msEnv("POLL_INTERVAL_MS", 5*time.Minute),
		MaxPerCycle:      intEnv("MAX_PER_CYCLE", 500),
	}
}

func intEnv(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func intEnv64(name string, def int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func msEnv(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
