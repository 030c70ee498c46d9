// Package discord publica mensajes en webhooks de Discord.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const embedColor = 0x2f3135

type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color"`
}

// EmbedMessage es un mensaje con un embed y, opcionalmente, autor propio.
type EmbedMessage struct {
	Content   string
	Title     string
	Body      string
	Author    string
	AvatarURL string
}

type payload struct {
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
}

type WebhookClient struct {
	httpCli *http.Client
}

func NewWebhookClient() *WebhookClient {
	return &WebhookClient{
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PostMessage envía {"content": content} al webhook.
func (c *WebhookClient) PostMessage(ctx context.Context, url, content string) error {
	return c.post(ctx, url, payload{Content: content})
}

func (c *WebhookClient) PostEmbed(ctx context.Context, url string, msg EmbedMessage) error {
	return c.post(ctx, url, payload{
		Content: msg.Content,
		Embeds: []Embed{{
			Title:       msg.Title,
			Description: msg.Body,
			Color:       embedColor,
		}},
		Username:  msg.Author,
		AvatarURL: msg.AvatarURL,
	})
}

func (c *WebhookClient) post(ctx context.Context, url string, body payload) error {
	if url == "" {
		return fmt.Errorf("discord: webhook url vacía")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("discord: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("discord: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("discord: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord: status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
