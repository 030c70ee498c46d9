// Package dictionary busca definiciones en dictionaryapi.dev.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

type entry struct {
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

type Client struct {
	baseURL string
	httpCli *http.Client
}

// NewClient usa baseURL como prefijo de la palabra; vacío usa dictionaryapi.dev.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Define devuelve "word: <pos>: <definición> " por cada acepción de la primera entrada.
func (c *Client) Define(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", fmt.Errorf("dictionary: palabra vacía")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(word), nil)
	if err != nil {
		return "", fmt.Errorf("dictionary: request: %w", err)
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("dictionary: get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary: %s: status %d", word, resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("dictionary: decode: %w", err)
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return "", fmt.Errorf("dictionary: %s: sin definiciones", word)
	}

	var b strings.Builder
	b.WriteString(word + ": ")
	for _, meaning := range entries[0].Meanings {
		if len(meaning.Definitions) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s ", meaning.PartOfSpeech, meaning.Definitions[0].Definition)
	}
	return b.String(), nil
}
