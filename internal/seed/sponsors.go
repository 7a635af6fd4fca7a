package seed

import (
	"context"
	"fmt"
	"io"

	"sponsors/internal/utils"
	"sponsors/pkg/types"
)

type SponsorStore interface {
	Sponsors(ctx context.Context) ([]*types.Sponsor, error)
	CreateSponsor(ctx context.Context, sponsor *types.Sponsor) error
}

type demoSponsor struct {
	Name        string
	Website     string
	Description string
	Level       string
}

var demoSponsors = []demoSponsor{
	{Name: "Northwind Traders", Website: "https://northwind.example.com", Description: "Regional food distributor and long time supporter.", Level: "Gold"},
	{Name: "Contoso Ltd", Website: "https://contoso.example.com", Description: "Cloud hosting for the event site.", Level: "Gold"},
	{Name: "Fabrikam", Website: "https://fabrikam.example.com", Description: "Printing of banners and programs.", Level: "Silver"},
	{Name: "Tailspin Toys", Website: "https://tailspin.example.com", Level: "Bronze"},
	{Name: "Wingtip Coffee", Level: "Bronze"},
}

// DemoSponsors returns the demo sponsor set attached to levels by name.
// Sponsors whose level is missing from levels are skipped.
func DemoSponsors(levels []*types.Level) []*types.Sponsor {
	byName := make(map[string]int64, len(levels))
	for _, l := range levels {
		byName[l.Name] = l.ID
	}

	out := make([]*types.Sponsor, 0, len(demoSponsors))
	for _, d := range demoSponsors {
		levelID, ok := byName[d.Level]
		if !ok {
			continue
		}

		s := &types.Sponsor{
			Name:    d.Name,
			LevelID: utils.Int64Ptr(levelID),
			// Placeholder logos are served from the host's static assets.
			LogoURL: utils.StringPtr("http://localhost:8080/static/logos/placeholder.png"),
		}
		if d.Website != "" {
			s.WebsiteURL = utils.StringPtr(d.Website)
		}
		if d.Description != "" {
			s.Description = utils.StringPtr(d.Description)
		}
		out = append(out, s)
	}

	return out
}

// SeedDemoSponsors inserts sponsors only into an empty table so repeated
// runs do not duplicate them.
func SeedDemoSponsors(ctx context.Context, out io.Writer, repo SponsorStore, sponsors []*types.Sponsor) (int, error) {
	existing, err := repo.Sponsors(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch existing sponsors: %w", err)
	}
	if len(existing) > 0 {
		fmt.Fprintf(out, "  Database already contains %d sponsors, skipping demo data\n", len(existing))
		return 0, nil
	}

	for _, s := range sponsors {
		if err := repo.CreateSponsor(ctx, s); err != nil {
			return 0, fmt.Errorf("failed to create sponsor %s: %w", s.Name, err)
		}
		fmt.Fprintf(out, "  Created sponsor: %s (id: %d)\n", s.Name, s.ID)
	}

	return len(sponsors), nil
}
