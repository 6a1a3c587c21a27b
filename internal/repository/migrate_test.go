package repository

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	var ups, downs int
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(entry.Name(), ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected file %s", entry.Name())
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("up = %d, down = %d; every migration needs both", ups, downs)
	}

	up, err := fs.ReadFile(migrationFS, "migrations/000001_create_feedback_records.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(up), "UNIQUE (event_id, review_id)") {
		t.Error("feedback_records must be unique on (event_id, review_id)")
	}
}
