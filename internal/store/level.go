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

const levelTableName = "levels"

var levelColumns = utils.StructTagValues(types.Level{})

type LevelRepository struct {
	pool     *pgxpool.Pool
	sponsors *SponsorRepository
}

func NewLevelRepository(pool *pgxpool.Pool) *LevelRepository {
	return &LevelRepository{pool: pool, sponsors: NewSponsorRepository(pool)}
}

// Levels returns every level with its sponsors attached.
func (r *LevelRepository) Levels(ctx context.Context) ([]*types.Level, error) {
	query, args, err := psql().
		Select(levelColumns...).
		From(levelTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate levels query: %w", err)
	}

	levels := make([]*types.Level, 0)
	err = pgxscan.Select(ctx, r.pool, &levels, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch levels: %w", err)
	}

	if err := r.attachSponsors(ctx, levels...); err != nil {
		return nil, err
	}

	return levels, nil
}

func (r *LevelRepository) Level(ctx context.Context, id int64) (*types.Level, error) {
	level, err := r.levelWhere(ctx, sq.Eq{"id": id})
	if err != nil {
		return nil, err
	}

	if err := r.attachSponsors(ctx, level); err != nil {
		return nil, err
	}

	return level, nil
}

// LevelByName is used by seeding; it does not load sponsors.
func (r *LevelRepository) LevelByName(ctx context.Context, name string) (*types.Level, error) {
	return r.levelWhere(ctx, sq.Eq{"name": name})
}

func (r *LevelRepository) levelWhere(ctx context.Context, pred sq.Eq) (*types.Level, error) {
	query, args, err := psql().
		Select(levelColumns...).
		From(levelTableName).
		Where(pred).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate level query: %w", err)
	}

	var level types.Level
	err = pgxscan.Get(ctx, r.pool, &level, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to fetch level: %w", err)
	}

	return &level, nil
}

func (r *LevelRepository) CreateLevel(ctx context.Context, level *types.Level) error {
	query, args, err := psql().
		Insert(levelTableName).
		SetMap(utils.StructToMap(level, "id")).
		Suffix(returning(levelColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert level query: %w", err)
	}

	err = pgxscan.Get(ctx, r.pool, level, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create level: %w", err)
	}

	level.Sponsors = make([]*types.Sponsor, 0)

	return nil
}

func (r *LevelRepository) UpdateLevel(ctx context.Context, level *types.Level) error {
	query, args, err := psql().
		Update(levelTableName).
		SetMap(utils.StructToMap(level, "id")).
		Where(sq.Eq{"id": level.ID}).
		Suffix(returning(levelColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update level query: %w", err)
	}

	err = pgxscan.Get(ctx, r.pool, level, query, args...)
	if err != nil {
		return writeError(err, "update level", types.ErrLevelNotFound, nil)
	}

	return r.attachSponsors(ctx, level)
}

// DeleteLevel refuses to orphan sponsors: the foreign key restricts the
// delete and the violation comes back as ErrLevelHasSponsors.
func (r *LevelRepository) DeleteLevel(ctx context.Context, id int64) (*types.Level, error) {
	query, args, err := psql().
		Delete(levelTableName).
		Where(sq.Eq{"id": id}).
		Suffix(returning(levelColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete level query: %w", err)
	}

	var level types.Level
	err = pgxscan.Get(ctx, r.pool, &level, query, args...)
	if err != nil {
		return nil, writeError(err, "delete level", types.ErrLevelNotFound, types.ErrLevelHasSponsors)
	}

	level.Sponsors = make([]*types.Sponsor, 0)

	return &level, nil
}

func (r *LevelRepository) attachSponsors(ctx context.Context, levels ...*types.Level) error {
	ids := make([]int64, 0, len(levels))
	byID := make(map[int64]*types.Level, len(levels))
	for _, level := range levels {
		level.Sponsors = make([]*types.Sponsor, 0)
		ids = append(ids, level.ID)
		byID[level.ID] = level
	}

	sponsors, err := r.sponsors.SponsorsByLevelIDs(ctx, ids)
	if err != nil {
		return err
	}

	groupSponsorsByLevel(byID, sponsors)

	return nil
}

func groupSponsorsByLevel(byID map[int64]*types.Level, sponsors []*types.Sponsor) {
	for _, sponsor := range sponsors {
		if sponsor.LevelID == nil {
			continue
		}
		if level, ok := byID[*sponsor.LevelID]; ok {
			level.Sponsors = append(level.Sponsors, sponsor)
		}
	}
}
