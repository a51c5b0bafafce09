package news

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"Cryptalyst/internal/model"
)

// RSSProvider reads a fixed set of RSS/Atom feeds and keeps the items that
// mention the asset.
type RSSProvider struct {
	Feeds  []string
	Client *http.Client
}

// NewRSSProvider creates a provider over feeds.
func NewRSSProvider(feeds []string) *RSSProvider {
	return &RSSProvider{
		Feeds:  feeds,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchNews returns matching items from every reachable feed, newest first.
// It fails only when no feed could be read.
func (r *RSSProvider) FetchNews(ctx context.Context, asset model.Asset, limit int) ([]model.NewsArticle, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	match := matcher(asset)

	var (
		out     []model.NewsArticle
		lastErr error
		ok      int
	)
	for _, feedURL := range r.Feeds {
		items, err := r.fetchFeed(ctx, feedURL)
		if err != nil {
			log.Printf("[WARN] news feed %s: %v", feedURL, err)
			lastErr = err
			continue
		}
		ok++
		for _, a := range items {
			if match(a.Title + " " + a.Description) {
				out = append(out, a)
			}
		}
	}
	if ok == 0 && lastErr != nil {
		return nil, fmt.Errorf("all %d news feeds failed, last: %w", len(r.Feeds), lastErr)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RSSProvider) fetchFeed(ctx context.Context, feedURL string) ([]model.NewsArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]model.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := model.NewsArticle{
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         item.Link,
			Source:      feed.Title,
		}
		switch {
		case item.PublishedParsed != nil:
			a.PublishedAt = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			a.PublishedAt = *item.UpdatedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// matcher matches the symbol as a whole word and the name as a substring,
// both case-insensitive.
func matcher(asset model.Asset) func(string) bool {
	var symbol *regexp.Regexp
	if asset.Symbol != "" {
		symbol = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(asset.Symbol) + `\b`)
	}
	name := strings.ToLower(asset.Name)
	return func(text string) bool {
		if symbol != nil && symbol.MatchString(text) {
			return true
		}
		return name != "" && strings.Contains(strings.ToLower(text), name)
	}
}
