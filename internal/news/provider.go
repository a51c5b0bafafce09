// Package news supplies headlines for sentiment scoring.
package news

import (
	"context"

	"Cryptalyst/internal/model"
)

// DefaultLimit caps the articles returned when the caller passes zero.
const DefaultLimit = 20

// Provider fetches recent articles about an asset.
type Provider interface {
	FetchNews(ctx context.Context, asset model.Asset, limit int) ([]model.NewsArticle, error)
}

// StaticProvider returns a fixed article list.
type StaticProvider struct {
	Articles []model.NewsArticle
	Err      error
}

func (s *StaticProvider) FetchNews(_ context.Context, _ model.Asset, limit int) ([]model.NewsArticle, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && len(s.Articles) > limit {
		return s.Articles[:limit], nil
	}
	return s.Articles, nil
}
