package store

import (
	"context"
	"fmt"
	"time"

	"sponsors/internal/utils"
	"sponsors/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mediaTableName = "media"

var mediaColumns = utils.StructTagValues(types.Media{})

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) Media(ctx context.Context, id string) (*types.Media, error) {
	query, args, err := psql().
		Select(mediaColumns...).
		From(mediaTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate media query: %w", err)
	}

	var media types.Media
	err = pgxscan.Get(ctx, r.pool, &media, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}

	return &media, nil
}

func (r *MediaRepository) CreateMedia(ctx context.Context, media *types.Media) error {
	query, args, err := psql().
		Insert(mediaTableName).
		SetMap(utils.StructToMap(media)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert media query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create media")
}

// MarkUploaded records where the file for media id was stored.
func (r *MediaRepository) MarkUploaded(ctx context.Context, id, storageKey, contentType string, size int64, at time.Time) error {
	query, args, err := psql().
		Update(mediaTableName).
		SetMap(map[string]any{
			"storage_key":  storageKey,
			"content_type": contentType,
			"size_bytes":   size,
			"uploaded_at":  at,
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate media upload query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark media uploaded: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrMediaNotFound
	}

	return nil
}
