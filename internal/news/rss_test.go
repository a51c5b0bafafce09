package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Cryptalyst/internal/model"
)

const rssFixture = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Crypto Wire</title>
<item><title>Bitcoin rally extends</title><description>Buyers return</description>
<link>https://example.com/1</link><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>
<item><title>BTC miners upgrade rigs</title><description>Hashrate growth</description>
<link>https://example.com/2</link><pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate></item>
<item><title>BTCX token listed</title><description>Unrelated ticker</description>
<link>https://example.com/3</link><pubDate>Wed, 04 Jan 2006 15:04:05 GMT</pubDate></item>
<item><title>Ethereum gas fees fall</title><description>Layer 2 adoption</description>
<link>https://example.com/4</link><pubDate>Thu, 05 Jan 2006 15:04:05 GMT</pubDate></item>
</channel></rss>`

var btc = model.Asset{Symbol: "BTC", Name: "Bitcoin", Type: model.AssetCrypto}

func TestRSSProvider_FiltersAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture)
	}))
	defer srv.Close()

	p := NewRSSProvider([]string{srv.URL})
	got, err := p.FetchNews(context.Background(), btc, 10)
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matching articles, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://example.com/2" {
		t.Errorf("newest article should come first, got %s", got[0].URL)
	}
	if got[0].Source != "Crypto Wire" {
		t.Errorf("source = %q", got[0].Source)
	}

	limited, _ := p.FetchNews(context.Background(), btc, 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied: %d", len(limited))
	}
}

func TestRSSProvider_SkipsFailingFeed(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	p := NewRSSProvider([]string{bad.URL, good.URL})
	got, err := p.FetchNews(context.Background(), btc, 0)
	if err != nil {
		t.Fatalf("one good feed should be enough: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d articles, want 2", len(got))
	}

	p = NewRSSProvider([]string{bad.URL})
	if _, err := p.FetchNews(context.Background(), btc, 0); err == nil {
		t.Error("expected error when every feed fails")
	}
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{Articles: []model.NewsArticle{{Title: "a"}, {Title: "b"}}}
	got, _ := p.FetchNews(context.Background(), btc, 1)
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("got %+v", got)
	}
	p.Err = errors.New("offline")
	if _, err := p.FetchNews(context.Background(), btc, 0); err == nil {
		t.Error("expected configured error")
	}
}
