package store

import (
	"context"
	"fmt"

	"sponsors/internal/utils"
	"sponsors/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sponsorTableName = "sponsors"

var sponsorColumns = utils.StructTagValues(types.Sponsor{})

type SponsorRepository struct {
	pool *pgxpool.Pool
}

func NewSponsorRepository(pool *pgxpool.Pool) *SponsorRepository {
	return &SponsorRepository{pool: pool}
}

func (r *SponsorRepository) Sponsors(ctx context.Context) ([]*types.Sponsor, error) {
	query, args, err := psql().
		Select(sponsorColumns...).
		From(sponsorTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sponsors query: %w", err)
	}

	sponsors := make([]*types.Sponsor, 0)
	err = pgxscan.Select(ctx, r.pool, &sponsors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsors: %w", err)
	}

	return sponsors, nil
}

func (r *SponsorRepository) SponsorsByLevelIDs(ctx context.Context, levelIDs []int64) ([]*types.Sponsor, error) {
	sponsors := make([]*types.Sponsor, 0)
	if len(levelIDs) == 0 {
		return sponsors, nil
	}

	query, args, err := psql().
		Select(sponsorColumns...).
		From(sponsorTableName).
		Where(sq.Eq{"level_id": levelIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sponsors-by-level query: %w", err)
	}

	err = pgxscan.Select(ctx, r.pool, &sponsors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsors by level: %w", err)
	}

	return sponsors, nil
}

func (r *SponsorRepository) Sponsor(ctx context.Context, id int64) (*types.Sponsor, error) {
	query, args, err := psql().
		Select(sponsorColumns...).
		From(sponsorTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sponsor query: %w", err)
	}

	var sponsor types.Sponsor
	err = pgxscan.Get(ctx, r.pool, &sponsor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrSponsorNotFound
		}
		return nil, fmt.Errorf("failed to fetch sponsor: %w", err)
	}

	return &sponsor, nil
}

// CreateSponsor inserts sponsor and fills in the generated ID.
func (r *SponsorRepository) CreateSponsor(ctx context.Context, sponsor *types.Sponsor) error {
	query, args, err := psql().
		Insert(sponsorTableName).
		SetMap(utils.StructToMap(sponsor, "id")).
		Suffix(returning(sponsorColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert sponsor query: %w", err)
	}

	err = pgxscan.Get(ctx, r.pool, sponsor, query, args...)
	if err != nil {
		return writeError(err, "create sponsor", nil, types.ErrUnknownLevel)
	}

	return nil
}

// UpdateSponsor writes every column of sponsor. There is no version check;
// the last writer wins.
func (r *SponsorRepository) UpdateSponsor(ctx context.Context, sponsor *types.Sponsor) error {
	query, args, err := psql().
		Update(sponsorTableName).
		SetMap(utils.StructToMap(sponsor, "id")).
		Where(sq.Eq{"id": sponsor.ID}).
		Suffix(returning(sponsorColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update sponsor query: %w", err)
	}

	err = pgxscan.Get(ctx, r.pool, sponsor, query, args...)
	if err != nil {
		return writeError(err, "update sponsor", types.ErrSponsorNotFound, types.ErrUnknownLevel)
	}

	return nil
}

// DeleteSponsor removes the row and returns its last values.
func (r *SponsorRepository) DeleteSponsor(ctx context.Context, id int64) (*types.Sponsor, error) {
	query, args, err := psql().
		Delete(sponsorTableName).
		Where(sq.Eq{"id": id}).
		Suffix(returning(sponsorColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete sponsor query: %w", err)
	}

	var sponsor types.Sponsor
	err = pgxscan.Get(ctx, r.pool, &sponsor, query, args...)
	if err != nil {
		return nil, writeError(err, "delete sponsor", types.ErrSponsorNotFound, nil)
	}

	return &sponsor, nil
}
