package twitchinfra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"
)

// LookupService consulta Helix con un app access token: juego del canal,
// enlace al VOD en curso y foto de perfil.
type LookupService struct {
	client *helix.Client
	mu     sync.RWMutex
	now    func() time.Time
}

type Options struct {
	ClientID       string
	AppAccessToken string
	// APIBaseURL vacío usa https://api.twitch.tv/helix.
	APIBaseURL string
}

func NewLookupService(opts Options) (*LookupService, error) {
	client, err := helix.NewClient(&helix.Options{
		ClientID:       opts.ClientID,
		AppAccessToken: opts.AppAccessToken,
		APIBaseURL:     opts.APIBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("helix: NewClient: %w", err)
	}
	return &LookupService{client: client, now: time.Now}, nil
}

// UpdateAccessToken cambia el app token; se registra como hook del refresher.
func (s *LookupService) UpdateAccessToken(token string) {
	if s == nil || s.client == nil {
		return
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.SetAppAccessToken(token)
}

func (s *LookupService) getClient() *helix.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// UserID resuelve el id numérico de un login.
func (s *LookupService) UserID(ctx context.Context, login string) (string, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return "", fmt.Errorf("empty login")
	}
	resp, err := s.getClient().GetUsers(&helix.UsersParams{Logins: []string{login}})
	if err != nil {
		return "", fmt.Errorf("helix: GetUsers: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helix: GetUsers failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Users) == 0 {
		return "", fmt.Errorf("user not found: %s", login)
	}
	return resp.Data.Users[0].ID, nil
}

// LastGame devuelve la categoría configurada en el canal de login.
func (s *LookupService) LastGame(ctx context.Context, login string) (string, error) {
	id, err := s.UserID(ctx, login)
	if err != nil {
		return "", err
	}
	resp, err := s.getClient().GetChannelInformation(&helix.GetChannelInformationParams{
		BroadcasterIDs: []string{id},
	})
	if err != nil {
		return "", fmt.Errorf("helix: GetChannelInformation: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helix: GetChannelInformation failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Channels) == 0 {
		return "", fmt.Errorf("channel not found: %s", login)
	}
	return resp.Data.Channels[0].GameName, nil
}

// ProfileURL devuelve la URL de la foto de perfil de userID.
func (s *LookupService) ProfileURL(ctx context.Context, userID string) (string, error) {
	resp, err := s.getClient().GetUsers(&helix.UsersParams{IDs: []string{userID}})
	if err != nil {
		return "", fmt.Errorf("helix: GetUsers: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helix: GetUsers failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Users) == 0 {
		return "", fmt.Errorf("user not found: %s", userID)
	}
	return resp.Data.Users[0].ProfileImageURL, nil
}

// VODTimestamp arma "<url del último VOD>?t=1h2m3s" apuntando a 3 segundos antes de ahora.
func (s *LookupService) VODTimestamp(ctx context.Context, broadcasterID string) (string, error) {
	resp, err := s.getClient().GetVideos(&helix.VideosParams{
		UserID: broadcasterID,
		Type:   "archive",
		First:  1,
	})
	if err != nil {
		return "", fmt.Errorf("helix: GetVideos: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helix: GetVideos failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Videos) == 0 {
		return "", fmt.Errorf("no videos for %s", broadcasterID)
	}

	video := resp.Data.Videos[0]
	created, err := time.Parse(time.RFC3339, video.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("helix: video created_at %q: %w", video.CreatedAt, err)
	}
	elapsed := int(s.now().Sub(created)/time.Second) - 3
	return fmt.Sprintf("%s?t=%s", video.URL, FormatHMS(elapsed)), nil
}

// FormatHMS formatea segundos como "1h2m3s" sin ceros a la izquierda.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh%dm%ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
