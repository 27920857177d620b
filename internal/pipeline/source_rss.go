package pipeline

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/crisisradar/crisisradar/internal/errors"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/models"
)

// DefaultRSSFeeds are the bundled India-specific feeds: the IMD warning
// feed plus the India sections of the major national outlets.
var DefaultRSSFeeds = map[string]string{
	"IMD Weather":     "https://mausam.imd.gov.in/imd_latest/contents/all_warning.xml",
	"Times of India":  "https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
	"Hindustan Times": "https://www.hindustantimes.com/feeds/rss/india-news/rssfeed.xml",
	"Indian Express":  "https://indianexpress.com/section/india/feed/",
	"NDTV":            "https://feeds.feedburner.com/ndtvnews-india-news",
}

// RSSSource polls a set of RSS feeds. A feed that fails is skipped for
// the cycle; partial results are fine.
type RSSSource struct {
	name     string
	feeds    map[string]string
	interval time.Duration
	cli      *http.Client
}

// NewRSSSource builds an RSS source over named feed URLs.
func NewRSSSource(name string, feeds map[string]string, interval time.Duration) *RSSSource {
	return &RSSSource{
		name:     name,
		feeds:    feeds,
		interval: interval,
		cli:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RSSSource) Name() string            { return r.name }
func (r *RSSSource) Interval() time.Duration { return r.interval }

// The bundled feeds only carry Indian coverage.
func (r *RSSSource) NeedsIndiaFilter() bool { return false }

type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (r *RSSSource) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	var all []models.FeedItem
	failures := 0

	for feedName, url := range r.feeds {
		items, err := r.fetchFeed(ctx, feedName, url)
		if err != nil {
			failures++
			logger.Warn("RSS feed fetch failed", "feed", feedName, "error", err)
			continue
		}
		all = append(all, items...)
	}

	if failures == len(r.feeds) && len(r.feeds) > 0 {
		return nil, apperrors.SourceError{Source: r.name, Err: apperrors.ErrSourceUnavailable}
	}
	return all, nil
}

func (r *RSSSource) fetchFeed(ctx context.Context, feedName, url string) ([]models.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<12))
		return nil, apperrors.SourceError{Source: feedName, Err: apperrors.ErrSourceUnavailable}
	}

	var feed rssFeed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&feed); err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		pub := time.Now().UTC()
		if t, err := parsePubDate(it.PubDate); err == nil {
			pub = t
		}
		items = append(items, models.FeedItem{
			Title:       title,
			Description: strings.TrimSpace(it.Description),
			Source:      r.name + " - " + feedName,
			URL:         it.Link,
			PublishedAt: pub,
		})
	}
	return items, nil
}

func parsePubDate(s string) (time.Time, error) {
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822, time.RFC822Z, time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.ErrInvalidInput
}
