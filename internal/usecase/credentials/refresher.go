// Package credentials mantiene vigente el app access token de Twitch
// (client credentials) que usan las consultas a Helix.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTokenURL = "https://id.twitch.tv/oauth2/token"

type TwitchConfig struct {
	ClientID     string
	ClientSecret string
	// TokenURL vacío usa el endpoint real de Twitch.
	TokenURL string
}

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type TokenHook func(ctx context.Context, token Token)

type Refresher struct {
	cfg     TwitchConfig
	httpCli *http.Client
	now     func() time.Time

	mu    sync.RWMutex
	token Token

	hooksMu sync.RWMutex
	hooks   []TokenHook
}

func NewRefresher(cfg TwitchConfig) *Refresher {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	return &Refresher{
		cfg: cfg,
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
		now: time.Now,
	}
}

// RegisterHook agrega un callback que recibe cada token nuevo.
func (r *Refresher) RegisterHook(h TokenHook) {
	if h == nil {
		return
	}
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.hooks = append(r.hooks, h)
}

func (r *Refresher) notifyHooks(ctx context.Context, token Token) {
	r.hooksMu.RLock()
	hooks := append([]TokenHook(nil), r.hooks...)
	r.hooksMu.RUnlock()
	for _, h := range hooks {
		h(ctx, token)
	}
}

func (r *Refresher) Token() Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

// Start revisa el token cada interval y lo renueva cuando está por vencer.
func (r *Refresher) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.RefreshIfNeeded(ctx); err != nil {
					log.Printf("token refresher: %v", err)
				}
			}
		}
	}()
}

func (r *Refresher) RefreshIfNeeded(ctx context.Context) error {
	if !r.needsRefresh() {
		return nil
	}
	_, err := r.Refresh(ctx)
	return err
}

func (r *Refresher) needsRefresh() bool {
	token := r.Token()
	if token.AccessToken == "" || token.ExpiresAt.IsZero() {
		return true
	}
	return token.ExpiresAt.Sub(r.now()) < 10*time.Minute
}

// Refresh pide un token nuevo con grant_type=client_credentials.
func (r *Refresher) Refresh(ctx context.Context) (Token, error) {
	if r.cfg.ClientID == "" || r.cfg.ClientSecret == "" {
		return Token{}, fmt.Errorf("refresher: twitch config incompleta")
	}

	data := url.Values{}
	data.Set("client_id", r.cfg.ClientID)
	data.Set("client_secret", r.cfg.ClientSecret)
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("refresher: twitch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpCli.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("refresher: twitch http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("refresher: twitch read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("refresher: twitch status %d: %s", resp.StatusCode, string(body))
	}

	var payload twitchTokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("refresher: twitch decode: %w", err)
	}
	if payload.AccessToken == "" {
		return Token{}, fmt.Errorf("refresher: twitch devolvió un token vacío")
	}

	token := Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   r.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()

	r.notifyHooks(ctx, token)
	return token, nil
}

type twitchTokenPayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
