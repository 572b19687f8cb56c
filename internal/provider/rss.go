package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// FeedSource names one RSS feed so items carry an outlet name instead of a
// bare URL.
type FeedSource struct {
	Name string
	URL  string
}

// DefaultFeeds covers the outlets the scoring tables know about.
var DefaultFeeds = []FeedSource{
	{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "The Block", URL: "https://www.theblock.co/rss.xml"},
	{Name: "Decrypt", URL: "https://decrypt.co/feed"},
}

type NewsProvider struct {
	client *http.Client
	tracer trace.Tracer
	feeds  []FeedSource
	limit  int
}

func NewNewsProvider(tracer trace.Tracer, feeds []FeedSource, perFeedLimit int) *NewsProvider {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	if perFeedLimit <= 0 {
		perFeedLimit = 20
	}
	return &NewsProvider{
		client: &http.Client{Timeout: 20 * time.Second},
		tracer: tracer,
		feeds:  feeds,
		limit:  perFeedLimit,
	}
}

// FetchNews pulls every configured feed. A subset of feeds failing is logged
// and tolerated, the call errors only when no feed yields anything.
func (p *NewsProvider) FetchNews(ctx context.Context) ([]domain.CandidateItem, error) {
	ctx, span := p.tracer.Start(ctx, "news.fetch-feeds")
	defer span.End()

	var items []domain.CandidateItem
	var failed []string
	for _, feed := range p.feeds {
		feedItems, err := p.FetchFeed(ctx, feed, p.limit)
		if err != nil {
			failed = append(failed, feed.Name)
			log.Printf("rss feed %s failed: %v", feed.Name, err)
			continue
		}
		items = append(items, feedItems...)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("all feeds failed: %s", strings.Join(failed, ", "))
	}
	return items, nil
}

func (p *NewsProvider) FetchFeed(ctx context.Context, feed FeedSource, maxItems int) ([]domain.CandidateItem, error) {
	_, span := p.tracer.Start(ctx, "news.fetch-feed")
	defer span.End()

	feedURL := strings.TrimSpace(feed.URL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed url is required")
	}
	if maxItems <= 0 {
		maxItems = 20
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				Description string `xml:"description"`
				GUID        string `xml:"guid"`
				PubDate     string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	items := make([]domain.CandidateItem, 0, min(maxItems, len(rss.Channel.Items)))
	for i, row := range rss.Channel.Items {
		if i >= maxItems {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		link := sanitizeText(row.Link, 500)
		if link == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		id := sanitizeText(row.GUID, 250)
		if id == "" {
			h := sha1.Sum([]byte(title + "|" + link))
			id = hex.EncodeToString(h[:])
		}

		items = append(items, domain.CandidateItem{
			ID:          id,
			Type:        domain.CardTypeNews,
			Source:      feed.Name,
			URL:         link,
			Title:       title,
			Content:     sanitizeText(htmlStrip(row.Description), 420),
			PublishedAt: publishedAt.UTC(),
		})
	}

	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
