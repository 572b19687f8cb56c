package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	xAPIBaseURL      = "https://api.twitter.com/2"
	defaultPostLimit = 10
)

// DefaultKOLHandles is the tracked account list, highest authority first.
var DefaultKOLHandles = []string{
	"VitalikButerin", "zachxbt", "CryptoHayes", "punk6529",
	"GCRClassic", "cburniske", "DefiIgnas", "MacroAlf",
}

// XProvider reads recent posts for tracked accounts through the X API v2.
// Requires a bearer token, there is no unauthenticated path.
type XProvider struct {
	client      *http.Client
	baseURL     string
	bearerToken string
	tracer      trace.Tracer
	handles     []string
	limit       int
}

func NewXProvider(tracer trace.Tracer, bearerToken string, handles []string, perHandleLimit int) *XProvider {
	if len(handles) == 0 {
		handles = DefaultKOLHandles
	}
	if perHandleLimit <= 0 {
		perHandleLimit = defaultPostLimit
	}
	return &XProvider{
		client:      &http.Client{Timeout: 20 * time.Second},
		baseURL:     xAPIBaseURL,
		bearerToken: bearerToken,
		tracer:      tracer,
		handles:     handles,
		limit:       perHandleLimit,
	}
}

// FetchPosts pulls the recent timeline of every tracked handle. Individual
// handle failures are logged and tolerated.
func (p *XProvider) FetchPosts(ctx context.Context) ([]domain.CandidateItem, error) {
	ctx, span := p.tracer.Start(ctx, "x.fetch-posts")
	defer span.End()

	if strings.TrimSpace(p.bearerToken) == "" {
		return nil, fmt.Errorf("x bearer token is not configured")
	}

	var items []domain.CandidateItem
	var failed []string
	for _, handle := range p.handles {
		posts, err := p.fetchHandle(ctx, handle)
		if err != nil {
			failed = append(failed, handle)
			log.Printf("x handle %s failed: %v", handle, err)
			continue
		}
		items = append(items, posts...)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("all handles failed: %s", strings.Join(failed, ", "))
	}
	return items, nil
}

func (p *XProvider) fetchHandle(ctx context.Context, handle string) ([]domain.CandidateItem, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, fmt.Errorf("handle is required")
	}

	userID, err := p.lookupUserID(ctx, handle)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=created_at,public_metrics&exclude=retweets,replies",
		base, url.PathEscape(userID), p.limit)

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			ID            string `json:"id"`
			Text          string `json:"text"`
			CreatedAt     string `json:"created_at"`
			PublicMetrics struct {
				LikeCount       int `json:"like_count"`
				RetweetCount    int `json:"retweet_count"`
				ReplyCount      int `json:"reply_count"`
				ImpressionCount int `json:"impression_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode x response: %w", err)
	}

	source := "@" + handle
	items := make([]domain.CandidateItem, 0, len(payload.Data))
	for _, row := range payload.Data {
		text := sanitizeText(row.Text, 500)
		if row.ID == "" || text == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, row.CreatedAt)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		items = append(items, domain.CandidateItem{
			ID:          row.ID,
			Type:        domain.CardTypeKOL,
			Source:      source,
			URL:         fmt.Sprintf("https://x.com/%s/status/%s", handle, row.ID),
			Title:       sanitizeText(row.Text, 120),
			Content:     text,
			PublishedAt: publishedAt.UTC(),
			Engagement: &domain.Engagement{
				Likes:    row.PublicMetrics.LikeCount,
				Retweets: row.PublicMetrics.RetweetCount,
				Replies:  row.PublicMetrics.ReplyCount,
				Views:    row.PublicMetrics.ImpressionCount,
			},
		})
	}

	return items, nil
}

func (p *XProvider) lookupUserID(ctx context.Context, handle string) (string, error) {
	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/users/by/username/%s", base, url.PathEscape(handle))

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return "", err
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode user lookup: %w", err)
	}
	if payload.Data.ID == "" {
		return "", fmt.Errorf("user %s not found", handle)
	}
	return payload.Data.ID, nil
}

func (p *XProvider) doRequest(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.bearerToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("x API error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.ReplaceAll(in, "\n", " ")
	in = strings.ReplaceAll(in, "\r", " ")
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(in[cut]) {
			cut--
		}
		in = in[:cut]
	}
	return in
}
