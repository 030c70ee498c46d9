package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EventSourceStreamerBot = "streamerbot"
	EventSourceIRC         = "irc"

	StoreBackendJSON   = "jsonfile"
	StoreBackendSQLite = "sqlite"
)

type Config struct {
	EventSource string

	StreamerBotURL              string
	StreamerBotActionTwitch     string
	StreamerBotActionTwitchMsg  string
	StreamerBotActionYouTube    string
	StreamerBotReconnectBackoff time.Duration

	TwitchUsername      string
	TwitchToken         string
	TwitchChannels      []string
	TwitchClientId      string
	TwitchClientSecret  string
	TwitchBroadcasterId string

	WebhookURL    string
	PromoteRoleID string
	PromoteURL    string

	StoreBackend string
	DataDir      string
	DatabasePath string

	FillerMessageCount  int
	FillerInterval      time.Duration
	FillerExcludedUsers []string

	Timezone *time.Location

	TTSEnabled bool
	TTSVoice   string

	HTTPAddr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		EventSource: strings.ToLower(envOr("EVENT_SOURCE", EventSourceStreamerBot)),

		StreamerBotURL:              envOr("STREAMERBOT_URL", "ws://127.0.0.1:6968/"),
		StreamerBotActionTwitch:     os.Getenv("STREAMERBOT_ACTION_TWITCH"),
		StreamerBotActionTwitchMsg:  os.Getenv("STREAMERBOT_ACTION_TWITCH_REPLY"),
		StreamerBotActionYouTube:    os.Getenv("STREAMERBOT_ACTION_YOUTUBE"),
		StreamerBotReconnectBackoff: envDuration("STREAMERBOT_RECONNECT", 5*time.Second),

		TwitchUsername:      os.Getenv("TWITCH_BOT_USERNAME"),
		TwitchToken:         os.Getenv("TWITCH_BOT_ACCESS_TOKEN"),
		TwitchChannels:      envList("TWITCH_BOT_CHANNELS"),
		TwitchClientId:      os.Getenv("TWITCH_CLIENT_ID"),
		TwitchClientSecret:  os.Getenv("TWITCH_CLIENT_SECRET"),
		TwitchBroadcasterId: os.Getenv("TWITCH_BROADCASTER_ID"),

		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		PromoteRoleID: os.Getenv("PROMOTE_ROLE_ID"),
		PromoteURL:    os.Getenv("PROMOTE_URL"),

		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", StoreBackendJSON)),
		DataDir:      envOr("DATA_DIR", "."),
		DatabasePath: envOr("DATABASE_PATH", "data/chatbot.db"),

		FillerMessageCount:  envInt("FILLER_MESSAGE_COUNT", 5),
		FillerInterval:      envDuration("FILLER_INTERVAL", 5*time.Minute),
		FillerExcludedUsers: envList("FILLER_EXCLUDED_USERS"),

		Timezone: envLocation("TIMEZONE"),

		TTSEnabled: envBool("TTS_ENABLED", true),
		TTSVoice:   envOr("TTS_VOICE", "en"),

		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
	}

	switch cfg.EventSource {
	case EventSourceStreamerBot:
		if cfg.StreamerBotActionTwitch == "" && cfg.StreamerBotActionYouTube == "" {
			log.Println("config: no hay acciones de Streamer.bot configuradas, el bot no podrá responder")
		}
	case EventSourceIRC:
		if cfg.TwitchUsername == "" || cfg.TwitchToken == "" {
			log.Println("config: no se encontraron variables necesarias de Twitch")
		}
	default:
		log.Printf("config: EVENT_SOURCE %q desconocido, uso %s", cfg.EventSource, EventSourceStreamerBot)
		cfg.EventSource = EventSourceStreamerBot
	}

	if cfg.StoreBackend != StoreBackendJSON && cfg.StoreBackend != StoreBackendSQLite {
		log.Printf("config: STORE_BACKEND %q desconocido, uso %s", cfg.StoreBackend, StoreBackendJSON)
		cfg.StoreBackend = StoreBackendJSON
	}

	// el propio bot nunca cuenta para los mensajes de relleno
	if cfg.TwitchUsername != "" {
		cfg.FillerExcludedUsers = append(cfg.FillerExcludedUsers, cfg.TwitchUsername)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("config: %s inválido (%q)", key, v)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: %s inválido (%q)", key, v)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: %s inválido (%q)", key, v)
		return fallback
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envLocation(key string) *time.Location {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		log.Printf("config: %s inválido (%q): %v", key, v, err)
		return time.Local
	}
	return loc
}
