package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"sponsors/pkg/types"
)

type fakeLevels struct {
	byName  map[string]*types.Level
	nextID  int64
	created []string
	lookErr error
}

func (f *fakeLevels) LevelByName(_ context.Context, name string) (*types.Level, error) {
	if f.lookErr != nil {
		return nil, f.lookErr
	}
	if l, ok := f.byName[name]; ok {
		return l, nil
	}
	return nil, types.ErrLevelNotFound
}

func (f *fakeLevels) CreateLevel(_ context.Context, level *types.Level) error {
	f.nextID++
	level.ID = f.nextID
	f.byName[level.Name] = level
	f.created = append(f.created, level.Name)
	return nil
}

func TestSeedLevelsCreatesMissing(t *testing.T) {
	t.Parallel()

	repo := &fakeLevels{
		byName: map[string]*types.Level{"Silver": {ID: 7, Name: "Silver"}},
		nextID: 10,
	}

	levels, err := SeedLevels(context.Background(), io.Discard, repo, DefaultLevels)
	if err != nil {
		t.Fatalf("SeedLevels: %v", err)
	}

	if len(repo.created) != 2 || repo.created[0] != "Gold" || repo.created[1] != "Bronze" {
		t.Fatalf("created = %v, want [Gold Bronze]", repo.created)
	}

	if len(levels) != 3 || levels[1].ID != 7 {
		t.Fatalf("levels = %+v", levels)
	}

	// Second run is a no-op.
	if _, err := SeedLevels(context.Background(), io.Discard, repo, DefaultLevels); err != nil {
		t.Fatalf("second SeedLevels: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("created after rerun = %v", repo.created)
	}
}

func TestSeedLevelsLookupError(t *testing.T) {
	t.Parallel()

	repo := &fakeLevels{byName: map[string]*types.Level{}, lookErr: errors.New("db down")}

	if _, err := SeedLevels(context.Background(), io.Discard, repo, DefaultLevels); err == nil {
		t.Fatal("expected error")
	}
}

type fakeSponsors struct {
	existing []*types.Sponsor
	created  []*types.Sponsor
}

func (f *fakeSponsors) Sponsors(context.Context) ([]*types.Sponsor, error) {
	return f.existing, nil
}

func (f *fakeSponsors) CreateSponsor(_ context.Context, s *types.Sponsor) error {
	s.ID = int64(len(f.created) + 1)
	f.created = append(f.created, s)
	return nil
}

func TestDemoSponsorsSkipUnknownLevels(t *testing.T) {
	t.Parallel()

	sponsors := DemoSponsors([]*types.Level{{ID: 1, Name: "Gold"}})
	if len(sponsors) != 2 {
		t.Fatalf("sponsors = %d, want 2 gold sponsors", len(sponsors))
	}
	for _, s := range sponsors {
		if s.LevelID == nil || *s.LevelID != 1 {
			t.Fatalf("sponsor %s level = %v", s.Name, s.LevelID)
		}
	}
}

func TestSeedDemoSponsorsOnlyIntoEmptyTable(t *testing.T) {
	t.Parallel()

	levels := []*types.Level{{ID: 1, Name: "Gold"}, {ID: 2, Name: "Silver"}, {ID: 3, Name: "Bronze"}}

	repo := &fakeSponsors{}
	n, err := SeedDemoSponsors(context.Background(), io.Discard, repo, DemoSponsors(levels))
	if err != nil {
		t.Fatalf("SeedDemoSponsors: %v", err)
	}
	if n != len(demoSponsors) || len(repo.created) != len(demoSponsors) {
		t.Fatalf("created = %d, want %d", n, len(demoSponsors))
	}

	full := &fakeSponsors{existing: []*types.Sponsor{{ID: 1, Name: "Acme"}}}
	n, err = SeedDemoSponsors(context.Background(), io.Discard, full, DemoSponsors(levels))
	if err != nil {
		t.Fatalf("SeedDemoSponsors: %v", err)
	}
	if n != 0 || len(full.created) != 0 {
		t.Fatalf("created %d sponsors into a non-empty table", n)
	}
}
