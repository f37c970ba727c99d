package migrations

import (
	"slices"
	"testing"
	"testing/fstest"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	want := []string{"0001_create_kv_entries", "0002_index_kv_entries_owner"}
	if got := r.IDs(); !slices.Equal(got, want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
}

func TestLoadSQLSkipsOtherFiles(t *testing.T) {
	r := &Registry{migrations: make(map[string]Migration)}
	fsys := fstest.MapFS{
		"0010_b.sql":   {Data: []byte("SELECT 2;")},
		"0002_a.sql":   {Data: []byte("SELECT 1;")},
		"README.md":    {Data: []byte("notes")},
		"sub/0001.sql": {Data: []byte("SELECT 0;")},
	}
	if err := r.LoadSQL(fsys); err != nil {
		t.Fatalf("LoadSQL: %v", err)
	}
	want := []string{"0002_a", "0010_b"}
	if got := r.IDs(); !slices.Equal(got, want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
}
