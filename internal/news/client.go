// Package news fetches headlines from the news search API and narrows
// them down to the window shown on the dashboard.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when a fetch is attempted without a
// configured key; the provider rejects anonymous requests.
var ErrMissingAPIKey = errors.New("news: API key not configured")

// Article is one search result. Body is whichever article field the
// configuration selected for display, already chosen by the client.
type Article struct {
	Title string
	Body  string
}

// rawArticle mirrors the provider's article object. Only the fields the
// dashboard can display are decoded.
type rawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
}

type searchEnvelope struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []rawArticle `json:"articles"`
}

// Client talks to the news search API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter

	// bodyField selects which article field is surfaced as Body,
	// "description" or "content".
	bodyField string
}

// NewClient creates a news client against the default public endpoint.
// bodyField picks the article field shown under each headline; an empty
// value falls back to the description.
func NewClient(apiKey, bodyField string) *Client {
	if bodyField == "" {
		bodyField = "description"
	}
	return &Client{
		baseURL:   "https://newsapi.org/v2/everything",
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 2),
		bodyField: bodyField,
	}
}

// Search fetches articles whose titles match any of the terms, most
// relevant first according to sortBy. Terms are combined with OR so a
// single query covers every configured topic.
func (c *Client) Search(ctx context.Context, terms []string, language, sortBy string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("qInTitle", strings.Join(terms, " OR "))
	if language != "" {
		q.Set("language", language)
	}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("news API returned status %d: %s", resp.StatusCode, body)
	}

	var env searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parse news response: %w", err)
	}
	if env.Status != "" && env.Status != "ok" {
		return nil, fmt.Errorf("news API rejected request: %s", env.Message)
	}

	articles := make([]Article, 0, len(env.Articles))
	for _, raw := range env.Articles {
		body := raw.Description
		if c.bodyField == "content" {
			body = raw.Content
		}
		articles = append(articles, Article{Title: raw.Title, Body: body})
	}
	return articles, nil
}
