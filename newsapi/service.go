package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-infobot"
)

const (
	// DefaultURL the NewsAPI full-text search endpoint
	DefaultURL = "https://newsapi.org/v2/everything"
	// DefaultQuery the topic the news command searches for
	DefaultQuery = "Санкт-Петербург"
	// DefaultLimit how many articles end up in a reply
	DefaultLimit = 3

	publishedLayout = "2006-01-02T15:04:05Z"
)

// Service wraps the NewsAPI REST API
type Service interface {
	FetchArticles(ctx context.Context, query string) ([]infobot.Article, error)
}

// service NewsAPI client
type service struct {
	// url of the search endpoint
	url string

	// apiKey sent as the apiKey query parameter
	apiKey string

	// limit articles kept from the head of the result list
	limit int

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid news Service.
func NewService(url, apiKey string, limit int, timeout time.Duration) Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &service{
		url:    url,
		apiKey: apiKey,
		limit:  limit,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchArticles searches for query and returns the first articles in feed order.
// A single article with a malformed publish time fails the whole request.
func (s *service) FetchArticles(ctx context.Context, query string) ([]infobot.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", s.apiKey)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	httpResponse, err := s.client.Do(request)
	if err != nil {
		// the error text embeds the URL, which carries the key
		return nil, fmt.Errorf("http get: %w: %v", infobot.ErrSourceUnavailable, redact(err, s.apiKey))
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, fmt.Errorf("http get: %w: status %d", infobot.ErrSourceUnavailable, httpResponse.StatusCode)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w: %w", infobot.ErrSourceUnavailable, err)
	}

	var response everythingResponse
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, fmt.Errorf("decoding json: %w: %w", infobot.ErrMalformedDocument, err)
	}

	if response.Status != "ok" {
		return nil, fmt.Errorf("news api status %q code %q (%s): %w", response.Status, response.Code, response.Message, infobot.ErrNoResults)
	}
	if len(response.Articles) == 0 {
		return nil, fmt.Errorf("nothing found for %q: %w", query, infobot.ErrNoResults)
	}

	items := response.Articles
	if len(items) > s.limit {
		items = items[:s.limit]
	}

	articles := make([]infobot.Article, 0, len(items))
	for _, item := range items {
		publishedAt, err := time.Parse(publishedLayout, item.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("bad publishedAt %q: %w: %w", item.PublishedAt, infobot.ErrMalformedDocument, err)
		}
		// time.Parse also takes fractional seconds the layout does not have
		if publishedAt.Format(publishedLayout) != item.PublishedAt {
			return nil, fmt.Errorf("bad publishedAt %q: %w", item.PublishedAt, infobot.ErrMalformedDocument)
		}
		articles = append(articles, infobot.Article{
			Title:       item.Title,
			URL:         item.URL,
			SourceName:  item.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
