package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"sponsors/pkg/types"
)

type LevelStore interface {
	LevelByName(ctx context.Context, name string) (*types.Level, error)
	CreateLevel(ctx context.Context, level *types.Level) error
}

// DefaultLevels is the source of truth for the tiers every install starts
// with. Levels are matched by name; existing rows are never renamed or
// deleted, since sponsors may reference them.
var DefaultLevels = []types.Level{
	{Name: "Gold"},
	{Name: "Silver"},
	{Name: "Bronze"},
}

// SeedLevels inserts the levels in levels that do not exist yet and returns
// every level, created or found, in the same order.
func SeedLevels(ctx context.Context, out io.Writer, repo LevelStore, levels []types.Level) ([]*types.Level, error) {
	fmt.Fprintln(out, "Starting level sync...")
	fmt.Fprintf(out, "  Seed set contains %d levels\n", len(levels))

	result := make([]*types.Level, 0, len(levels))
	created := 0
	for _, lvl := range levels {
		existing, err := repo.LevelByName(ctx, lvl.Name)
		if err == nil {
			fmt.Fprintf(out, "  Level exists: %s (id: %d)\n", existing.Name, existing.ID)
			result = append(result, existing)
			continue
		}
		if !errors.Is(err, types.ErrLevelNotFound) {
			return nil, fmt.Errorf("failed to look up level %s: %w", lvl.Name, err)
		}

		level := &types.Level{Name: lvl.Name}
		if err := repo.CreateLevel(ctx, level); err != nil {
			return nil, fmt.Errorf("failed to create level %s: %w", lvl.Name, err)
		}
		fmt.Fprintf(out, "  Created level: %s (id: %d)\n", level.Name, level.ID)

		result = append(result, level)
		created++
	}

	fmt.Fprintf(out, "\nSync complete: %d created, %d existing\n", created, len(levels)-created)
	return result, nil
}
