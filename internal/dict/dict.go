// Package dict looks up English definitions (Free Dictionary API) and
// Traditional Chinese translations (MyMemory API) for vocabulary words.
// Both are free endpoints with no authentication.
package dict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultDictionaryURL is the Free Dictionary API entries endpoint.
	DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	// DefaultTranslationURL is the MyMemory translation endpoint.
	DefaultTranslationURL = "https://api.mymemory.translated.net/get"

	defaultTimeout = 10 * time.Second
)

// ErrNotFound is returned when the dictionary has no entry for a word.
var ErrNotFound = errors.New("word not found in dictionary")

// ErrNoTranslation is returned when no usable translation is available.
var ErrNoTranslation = errors.New("no translation available")

// Entry is the result of a dictionary lookup.
type Entry struct {
	// POS lists all parts of speech joined with "/", e.g. "noun/verb".
	POS string
	// Definition is the first definition of the first part of speech.
	Definition string
	// Example is the usage example attached to that definition, if any.
	Example string
}

// Config overrides the client defaults; zero values keep them.
type Config struct {
	DictionaryURL  string
	TranslationURL string
	Timeout        time.Duration
}

// Client talks to the dictionary and translation APIs.
type Client struct {
	httpClient     *http.Client
	dictionaryURL  string
	translationURL string
}

// NewClient builds a client from the given config.
func NewClient(cfg Config) *Client {
	if cfg.DictionaryURL == "" {
		cfg.DictionaryURL = DefaultDictionaryURL
	}
	if cfg.TranslationURL == "" {
		cfg.TranslationURL = DefaultTranslationURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		dictionaryURL:  strings.TrimRight(cfg.DictionaryURL, "/"),
		translationURL: cfg.TranslationURL,
	}
}

// dictionaryEntry mirrors the Free Dictionary API response shape.
type dictionaryEntry struct {
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup fetches the dictionary entry for a word. The first part of
// speech supplies the definition; POS collects every part of speech in
// the entry.
func (c *Client) Lookup(ctx context.Context, word string) (Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}, fmt.Errorf("%w: empty word", ErrNotFound)
	}

	reqURL := c.dictionaryURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to build dictionary request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("dictionary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, word)
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("dictionary returned status %d", resp.StatusCode)
	}

	var entries []dictionaryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return Entry{}, fmt.Errorf("failed to decode dictionary response: %w", err)
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, word)
	}

	first := entries[0].Meanings[0]
	entry := Entry{POS: first.PartOfSpeech}
	if len(first.Definitions) > 0 {
		entry.Definition = first.Definitions[0].Definition
		entry.Example = first.Definitions[0].Example
	}

	var allPOS []string
	for _, m := range entries[0].Meanings {
		if m.PartOfSpeech != "" {
			allPOS = append(allPOS, m.PartOfSpeech)
		}
	}
	if len(allPOS) > 0 {
		entry.POS = strings.Join(allPOS, "/")
	}
	return entry, nil
}

// translationResponse mirrors the MyMemory API response shape.
type translationResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate translates English text to Traditional Chinese. MyMemory
// answers quota errors with a placeholder text instead of an error
// status, so those are rejected too.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrNoTranslation)
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "en|zh-TW")
	reqURL := c.translationURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation returned status %d", resp.StatusCode)
	}

	var tr translationResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if tr.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("%w: response status %d", ErrNoTranslation, tr.ResponseStatus)
	}
	translated := tr.ResponseData.TranslatedText
	if translated == "" || strings.Contains(translated, "MYMEMORY WARNING") {
		return "", ErrNoTranslation
	}
	return translated, nil
}
