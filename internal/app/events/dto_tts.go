package events

import (
	"time"

	"chatBot/internal/domain"
)

// TTSState es el estado del lector de canjes que ve el overlay.
type TTSState string

const (
	TTSIdle     TTSState = "idle"
	TTSSpeaking TTSState = "speaking"
	TTSFailed   TTSState = "error"
)

type TTSStatusDTO struct {
	State       TTSState `json:"state"`
	QueueLength int      `json:"queue_length"`
	CurrentID   string   `json:"current_id,omitempty"`
	LastError   string   `json:"last_error,omitempty"`
	UpdatedAt   string   `json:"updated_at"`
}

func NewTTSStatusDTO(state TTSState, queueLength int, currentID, lastError string) TTSStatusDTO {
	return TTSStatusDTO{
		State:       state,
		QueueLength: queueLength,
		CurrentID:   currentID,
		LastError:   lastError,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// TTSSpokenDTO avisa que terminó una lectura: quién canjeó, en qué plataforma
// y si se pudo reproducir.
type TTSSpokenDTO struct {
	ID          string `json:"id"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	Text        string `json:"text"`
	Voice       string `json:"voice,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
	Platform    string `json:"platform,omitempty"`
	FinishedAt  string `json:"finished_at"`
}

func NewTTSSpokenDTO(id, text, voice, requestedBy string, platform domain.Platform, err error) TTSSpokenDTO {
	dto := TTSSpokenDTO{
		ID:          id,
		OK:          err == nil,
		Text:        text,
		Voice:       voice,
		RequestedBy: requestedBy,
		Platform:    string(platform),
		FinishedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}
