package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/crisisradar/crisisradar/internal/errors"
	"github.com/crisisradar/crisisradar/internal/models"
)

// newsQuery is the disaster search sent to the news APIs.
const newsQuery = "India disaster"

// NewsAPISource polls the newsapi.org everything endpoint.
type NewsAPISource struct {
	apiKey   string
	baseURL  string
	interval time.Duration
	cli      *http.Client
}

// NewNewsAPISource builds the source; baseURL is overridable for tests.
func NewNewsAPISource(apiKey, baseURL string, interval time.Duration) *NewsAPISource {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	return &NewsAPISource{
		apiKey:   apiKey,
		baseURL:  baseURL,
		interval: interval,
		cli:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *NewsAPISource) Name() string            { return "newsapi" }
func (s *NewsAPISource) Interval() time.Duration { return s.interval }
func (s *NewsAPISource) NeedsIndiaFilter() bool  { return true }

type newsAPIResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (s *NewsAPISource) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	endpoint := fmt.Sprintf("%s/everything?q=%s&sortBy=publishedAt&pageSize=25&apiKey=%s",
		s.baseURL, url.QueryEscape(newsQuery), s.apiKey)

	var out newsAPIResponse
	if err := fetchJSON(ctx, s.cli, endpoint, s.Name(), &out); err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(out.Articles))
	for _, a := range out.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, models.FeedItem{
			Title:       a.Title,
			Description: a.Description,
			Source:      s.Name(),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}

// MediaStackSource polls the mediastack news endpoint scoped to India.
type MediaStackSource struct {
	apiKey   string
	baseURL  string
	interval time.Duration
	cli      *http.Client
}

func NewMediaStackSource(apiKey, baseURL string, interval time.Duration) *MediaStackSource {
	if baseURL == "" {
		baseURL = "http://api.mediastack.com/v1"
	}
	return &MediaStackSource{
		apiKey:   apiKey,
		baseURL:  baseURL,
		interval: interval,
		cli:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MediaStackSource) Name() string            { return "mediastack" }
func (s *MediaStackSource) Interval() time.Duration { return s.interval }
func (s *MediaStackSource) NeedsIndiaFilter() bool  { return true }

type mediaStackResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}

func (s *MediaStackSource) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	endpoint := fmt.Sprintf("%s/news?access_key=%s&countries=in&keywords=%s&limit=25",
		s.baseURL, s.apiKey, url.QueryEscape("disaster"))

	var out mediaStackResponse
	if err := fetchJSON(ctx, s.cli, endpoint, s.Name(), &out); err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(out.Data))
	for _, a := range out.Data {
		if a.Title == "" {
			continue
		}
		pub := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			pub = t
		}
		items = append(items, models.FeedItem{
			Title:       a.Title,
			Description: a.Description,
			Source:      s.Name(),
			URL:         a.URL,
			PublishedAt: pub,
		})
	}
	return items, nil
}

// NewsDataSource polls the newsdata.io endpoint scoped to India.
type NewsDataSource struct {
	apiKey   string
	baseURL  string
	interval time.Duration
	cli      *http.Client
}

func NewNewsDataSource(apiKey, baseURL string, interval time.Duration) *NewsDataSource {
	if baseURL == "" {
		baseURL = "https://newsdata.io/api/1"
	}
	return &NewsDataSource{
		apiKey:   apiKey,
		baseURL:  baseURL,
		interval: interval,
		cli:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *NewsDataSource) Name() string            { return "newsdata" }
func (s *NewsDataSource) Interval() time.Duration { return s.interval }
func (s *NewsDataSource) NeedsIndiaFilter() bool  { return true }

type newsDataResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		PubDate     string `json:"pubDate"`
	} `json:"results"`
}

func (s *NewsDataSource) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	endpoint := fmt.Sprintf("%s/news?apikey=%s&country=in&q=%s&size=20",
		s.baseURL, s.apiKey, url.QueryEscape("disaster"))

	var out newsDataResponse
	if err := fetchJSON(ctx, s.cli, endpoint, s.Name(), &out); err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(out.Results))
	for _, a := range out.Results {
		if a.Title == "" {
			continue
		}
		pub := time.Now().UTC()
		if t, err := time.Parse("2006-01-02 15:04:05", a.PubDate); err == nil {
			pub = t
		}
		items = append(items, models.FeedItem{
			Title:       a.Title,
			Description: a.Description,
			Source:      s.Name(),
			URL:         a.Link,
			PublishedAt: pub,
		})
	}
	return items, nil
}

func fetchJSON(ctx context.Context, cli *http.Client, endpoint, sourceName string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := cli.Do(req)
	if err != nil {
		return apperrors.SourceError{Source: sourceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<12))
		return apperrors.SourceError{
			Source: sourceName,
			Err:    fmt.Errorf("status %d: %w", resp.StatusCode, apperrors.ErrSourceUnavailable),
		}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(out); err != nil {
		return apperrors.SourceError{Source: sourceName, Err: err}
	}
	return nil
}
