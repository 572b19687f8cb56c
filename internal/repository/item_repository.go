package repository

import (
	"context"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createItemsTable = `
CREATE TABLE IF NOT EXISTS candidate_items (
    id            TEXT        NOT NULL,
    item_type     TEXT        NOT NULL,
    source        TEXT        NOT NULL,
    url           TEXT        NOT NULL,
    title         TEXT        NOT NULL,
    content       TEXT        NOT NULL DEFAULT '',
    published_at  TIMESTAMPTZ NOT NULL,
    likes         INT         NOT NULL DEFAULT 0,
    retweets      INT         NOT NULL DEFAULT 0,
    replies       INT         NOT NULL DEFAULT 0,
    views         INT         NOT NULL DEFAULT 0,
    fetched_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (url)
);

CREATE INDEX IF NOT EXISTS idx_candidate_items_published_at
    ON candidate_items (published_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ItemRepository persists scraped candidate items. URLs are the natural key,
// re-scraping the same story refreshes its engagement counters.
type ItemRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewItemRepository(pool PgxPool, tracer trace.Tracer) *ItemRepository {
	return &ItemRepository{pool: pool, tracer: tracer}
}

func (r *ItemRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "item-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createItemsTable)
	return err
}

func (r *ItemRepository) UpsertItems(ctx context.Context, items []domain.CandidateItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	_, span := r.tracer.Start(ctx, "item-repo.upsert-items")
	defer span.End()

	batch := &pgx.Batch{}
	for _, item := range items {
		var likes, retweets, replies, views int
		if item.Engagement != nil {
			likes = item.Engagement.Likes
			retweets = item.Engagement.Retweets
			replies = item.Engagement.Replies
			views = item.Engagement.Views
		}
		batch.Queue(
			`INSERT INTO candidate_items (id, item_type, source, url, title, content, published_at, likes, retweets, replies, views, fetched_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
			 ON CONFLICT (url) DO UPDATE SET
			     title = EXCLUDED.title,
			     content = EXCLUDED.content,
			     likes = EXCLUDED.likes,
			     retweets = EXCLUDED.retweets,
			     replies = EXCLUDED.replies,
			     views = EXCLUDED.views,
			     fetched_at = now()`,
			item.ID, string(item.Type), item.Source, item.URL, item.Title, item.Content,
			item.PublishedAt.UTC(), likes, retweets, replies, views,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for range items {
		if _, err := br.Exec(); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (r *ItemRepository) RecentItems(ctx context.Context, since time.Time) ([]domain.CandidateItem, error) {
	_, span := r.tracer.Start(ctx, "item-repo.recent-items")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, item_type, source, url, title, content, published_at, likes, retweets, replies, views
		 FROM candidate_items
		 WHERE published_at >= $1
		 ORDER BY published_at DESC`,
		since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CandidateItem
	for rows.Next() {
		var item domain.CandidateItem
		var itemType string
		var likes, retweets, replies, views int
		if err := rows.Scan(&item.ID, &itemType, &item.Source, &item.URL, &item.Title, &item.Content,
			&item.PublishedAt, &likes, &retweets, &replies, &views); err != nil {
			return nil, err
		}
		item.Type = domain.CardType(itemType)
		item.PublishedAt = item.PublishedAt.UTC()
		if likes > 0 || retweets > 0 || replies > 0 || views > 0 {
			item.Engagement = &domain.Engagement{Likes: likes, Retweets: retweets, Replies: replies, Views: views}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "item-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM candidate_items WHERE published_at < $1`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
