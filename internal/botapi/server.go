package botapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"svitlobot/internal/botapi/middleware"
	"svitlobot/internal/config"
	"svitlobot/internal/fetch"
	"svitlobot/internal/notify"
	"svitlobot/internal/subs"
)

// Server is the webhook-facing side of the bot: it turns Telegram
// updates into replies. The dispatcher runs independently.
type Server struct {
	Logger  *zap.Logger
	API     notify.Sender
	Subs    *subs.Repository
	Mutes   *notify.Mutes
	Ads     *Ads
	Fetcher fetch.Fetcher
	Cfg     config.Config

	now func() time.Time
}

func NewServer(logger *zap.Logger, api notify.Sender, repo *subs.Repository, mutes *notify.Mutes, ads *Ads, f fetch.Fetcher, cfg config.Config) *Server {
	return &Server{
		Logger:  logger,
		API:     api,
		Subs:    repo,
		Mutes:   mutes,
		Ads:     ads,
		Fetcher: f,
		Cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(s.Cfg.AdminAPIKeys))
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(600, 100))
		r.Post("/webhook/{token}", s.handleWebhook)
	})

	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "token") != s.Cfg.BotToken {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.Logger.Warn("webhook_bad_payload", zap.Error(err))
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	// one logical request per update, handled to completion before the
	// response goes out
	if update.Message != nil {
		s.handleMessage(r.Context(), update.Message)
	}
	w.WriteHeader(http.StatusOK)
}
