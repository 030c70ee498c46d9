package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
	"chatBot/internal/usecase/commands"
)

type Config struct {
	Addr          string
	Bus           *events.Bus
	Commands      CommandLister
	Notifications domain.NotificationRepository
	TTS           TTSStatusReporter
}

func (c *Config) addr() string {
	if c.Addr == "" {
		return ":8080"
	}
	return c.Addr
}

type CommandLister interface {
	List(ctx context.Context) ([]commands.CommandDTO, error)
}

type TTSStatusReporter interface {
	Status() events.TTSStatusDTO
}

type apiHandlers struct {
	commands      CommandLister
	notifications domain.NotificationRepository
	tts           TTSStatusReporter
}

func newAPIHandlers(cfg Config) *apiHandlers {
	return &apiHandlers{
		commands:      cfg.Commands,
		notifications: cfg.Notifications,
		tts:           cfg.TTS,
	}
}

func (a *apiHandlers) register(mux *http.ServeMux) {
	if a == nil || mux == nil {
		return
	}
	mux.Handle("/metrics", telemetry.Handler())
	if a.commands != nil {
		mux.HandleFunc("/api/commands", a.withCORS(a.handleCommands))
	}
	if a.notifications != nil {
		mux.HandleFunc("/api/notifications", a.withCORS(a.handleNotifications))
	}
	if a.tts != nil {
		mux.HandleFunc("/api/tts/status", a.withCORS(a.handleTTSStatus))
	}
}

func (a *apiHandlers) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
}

func (a *apiHandlers) handleCommands(w http.ResponseWriter, r *http.Request) {
	list, err := a.commands.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *apiHandlers) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := a.notifications.ListNotifications(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]events.NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, events.NewNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiHandlers) handleTTSStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.tts.Status())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
