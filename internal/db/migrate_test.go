package db

import (
	"strings"
	"testing"
)

func TestMigrationsAreOrdered(t *testing.T) {
	t.Parallel()

	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("len = %d, want at least 2", len(migrations))
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].Version >= migrations[i].Version {
			t.Fatalf("migrations out of order: %q before %q", migrations[i-1].Version, migrations[i].Version)
		}
	}

	if !strings.Contains(migrations[0].SQL, "ON DELETE RESTRICT") {
		t.Fatalf("sponsors.level_id must restrict level deletes")
	}
}
